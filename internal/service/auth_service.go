package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"blogging-api/internal/domain"
	"blogging-api/internal/repository"
	"blogging-api/pkg/hash"
	"blogging-api/pkg/jwt"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExp time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExp,
	}
}

func (s *AuthService) Register(req *domain.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(req.Email)

	hashedPassword, err := hash.Password(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: time.Now(),
	}

	// Uniqueness is decided by the write itself. Two concurrent
	// registrations of the same address cannot both succeed.
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.Password = ""
	return user, nil
}

// Login authenticates by email and password and issues a signed token.
// Every failure collapses into ErrInvalidCredentials.
func (s *AuthService) Login(req *domain.LoginRequest) (string, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(req.Email))
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := hash.Compare(user.Password, req.Password); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, s.jwtExpiration, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return token, nil
}

// Authenticate resolves a bearer token to its user. A valid signature is
// not enough: the subject must still exist in the credential store.
func (s *AuthService) Authenticate(token string) (*domain.User, error) {
	claims, err := jwt.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}

	return user, nil
}
