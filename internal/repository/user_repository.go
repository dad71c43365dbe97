package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"blogging-api/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type UserRepository interface {
	Create(user *domain.User) error
	FindByEmail(email string) (*domain.User, error)
	FindByID(id string) (*domain.User, error)
}

type userRepository struct {
	client *kivik.Client
	dbName string
}

func NewUserRepository(client *kivik.Client, dbName string) UserRepository {
	return &userRepository{
		client: client,
		dbName: dbName,
	}
}

// userDocID keys user documents by lowercased email. Uniqueness is
// enforced by the document store itself: a second registration of the
// same address fails on the Put with a conflict, with no window for a
// concurrent duplicate to slip through.
func userDocID(email string) string {
	return fmt.Sprintf("user:%s", strings.ToLower(email))
}

// EnsureUserIndexes creates the Mango index the token-subject lookup
// depends on.
func EnsureUserIndexes(client *kivik.Client, dbName string) error {
	db := client.DB(dbName)

	index := map[string]interface{}{
		"fields": []string{"id"},
	}
	if err := db.CreateIndex(context.Background(), "indexes", "by-id", index); err != nil {
		return fmt.Errorf("failed to create index on id: %w", err)
	}

	return nil
}

func (r *userRepository) Create(user *domain.User) error {
	db := r.client.DB(r.dbName)

	if _, err := db.Put(context.Background(), userDocID(user.Email), user); err != nil {
		if kivik.HTTPStatus(err) == http.StatusConflict {
			return ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// FindByEmail matches case-insensitively; documents are keyed by the
// lowercased address.
func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	db := r.client.DB(r.dbName)

	row := db.Get(context.Background(), userDocID(email))

	var user domain.User
	if err := row.ScanDoc(&user); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) FindByID(id string) (*domain.User, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"id": id,
		},
		"limit": 1,
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query user by id: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrNotFound
	}

	var user domain.User
	if err := rows.ScanDoc(&user); err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return &user, nil
}
