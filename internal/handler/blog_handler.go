package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"blogging-api/internal/domain"
	"blogging-api/internal/middleware"
	"blogging-api/internal/query"
	"blogging-api/internal/service"
	"blogging-api/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type BlogHandler struct {
	service  *service.BlogService
	validate *validator.Validate
}

func NewBlogHandler(service *service.BlogService) *BlogHandler {
	return &BlogHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.ValidationErrors(w, fieldErrors(err))
		return
	}

	blog, err := h.service.Create(middleware.GetUserID(r), &req)
	if err != nil {
		response.InternalError(w, "Failed to create blog")
		return
	}

	response.JSON(w, http.StatusCreated, blog)
}

// List is the public listing; all parameters are optional and untrusted.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.service.ListPublished(query.ParseListing(r.URL.Query()))
	if err != nil {
		response.InternalError(w, "Failed to list blogs")
		return
	}

	response.JSON(w, http.StatusOK, blogs)
}

func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	blog, err := h.service.GetPublished(mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			response.NotFound(w, "Blog not found")
			return
		}
		response.InternalError(w, "Failed to fetch blog")
		return
	}

	response.JSON(w, http.StatusOK, blog)
}

func (h *BlogHandler) Mine(w http.ResponseWriter, r *http.Request) {
	state := domain.BlogState(r.URL.Query().Get("state"))

	blogs, err := h.service.ListMine(middleware.GetUserID(r), state)
	if err != nil {
		response.InternalError(w, "Failed to list blogs")
		return
	}

	response.JSON(w, http.StatusOK, blogs)
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.ValidationErrors(w, fieldErrors(err))
		return
	}

	blog, err := h.service.Update(middleware.GetUserID(r), mux.Vars(r)["id"], &req)
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			response.NotFound(w, "Blog not found")
			return
		}
		response.InternalError(w, "Failed to update blog")
		return
	}

	response.JSON(w, http.StatusOK, blog)
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(middleware.GetUserID(r), mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			response.NotFound(w, "Blog not found")
			return
		}
		response.InternalError(w, "Failed to delete blog")
		return
	}

	response.Message(w, http.StatusOK, "Blog deleted successfully")
}
