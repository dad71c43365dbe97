package handler

import (
	"log"
	"net/http"

	"blogging-api/internal/websocket"

	ws "github.com/gorilla/websocket"
)

// FeedHandler upgrades connections onto the public live feed of newly
// published posts. The feed carries no private data, so no token is
// required, same as the published listing.
type FeedHandler struct {
	hub      *websocket.Hub
	upgrader ws.Upgrader
}

func NewFeedHandler(hub *websocket.Hub, readBufferSize, writeBufferSize int) *FeedHandler {
	return &FeedHandler{
		hub: hub,
		upgrader: ws.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *FeedHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(r.RemoteAddr, conn, h.hub)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
