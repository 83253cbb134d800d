// Package auth implements account registration, login, and password
// reset against the users collection.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ywebstudio/newslist/internal/docstore"
	"github.com/ywebstudio/newslist/pkg/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrMissingFields      = errors.New("all required fields must be filled")
)

// userStore is the slice of the document store the service needs.
type userStore interface {
	FindByField(ctx context.Context, collection, field string, value any) ([]docstore.Record, error)
	InsertDocument(ctx context.Context, collection, id string, fields map[string]any) error
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error
}

// Service handles authentication against the users collection.
type Service struct {
	store userStore
}

// NewService creates an auth service over the given store.
func NewService(store userStore) *Service {
	return &Service{store: store}
}

// Registration carries the new-account form fields.
type Registration struct {
	FirstName string
	LastName  string
	City      string
	Email     string
	Password  string
}

// Register validates the form, hashes the password, and creates the
// user document. The caller registers the push token afterwards.
func (s *Service) Register(ctx context.Context, reg Registration) (*models.User, error) {
	if reg.FirstName == "" || reg.LastName == "" || reg.Email == "" || reg.Password == "" {
		return nil, ErrMissingFields
	}
	email := normalizeEmail(reg.Email)

	existing, err := s.store.FindByField(ctx, docstore.CollectionUsers, "email", email)
	if err != nil {
		return nil, fmt.Errorf("checking existing email: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		City:         reg.City,
		Email:        email,
		PasswordHash: string(hash),
	}

	err = s.store.InsertDocument(ctx, docstore.CollectionUsers, user.ID, map[string]any{
		"firstName":    user.FirstName,
		"lastName":     user.LastName,
		"city":         user.City,
		"email":        user.Email,
		"passwordHash": user.PasswordHash,
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and returns the account.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	records, err := s.store.FindByField(ctx, docstore.CollectionUsers, "email", normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrInvalidCredentials
	}

	user := docstore.ToUser(records[0])
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// RequestPasswordReset writes a one-time reset token to the user's
// document. Delivery of the token (email) is a platform concern outside
// this client.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	records, err := s.store.FindByField(ctx, docstore.CollectionUsers, "email", normalizeEmail(email))
	if err != nil {
		return "", fmt.Errorf("looking up user: %w", err)
	}
	if len(records) == 0 {
		return "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	user := docstore.ToUser(records[0])
	err = s.store.UpdateDocument(ctx, docstore.CollectionUsers, user.ID, map[string]any{
		"resetToken": token,
	})
	if err != nil {
		return "", fmt.Errorf("storing reset token: %w", err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
