package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
	"github.com/Sanjeetkumar61/FormBuilder/internal/auth"
	"github.com/Sanjeetkumar61/FormBuilder/internal/models"
)

const minPasswordLen = 8

var checkPassword = auth.CheckPassword

type AuthService struct {
	admins    AdminStore
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(admins AdminStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{admins: admins, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

type AuthResult struct {
	Token string               `json:"token"`
	Admin models.AdminResponse `json:"admin"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal(err, "find admin")
	}
	hash := auth.DummyHash()
	if admin != nil {
		hash = admin.PasswordHash
	}
	if !checkPassword(password, hash) || admin == nil {
		return nil, apperr.Auth("Invalid admin credentials")
	}
	return s.issue(admin)
}

// Register creates an admin account and signs it in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	admin, err := s.CreateAdmin(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return s.issue(admin)
}

// CreateAdmin validates and stores a new admin. It is what `admin create` runs.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*models.Admin, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, apperr.Validation("Name, email and password are required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, apperr.Validation("invalid email address: %s", email)
	}
	if len(password) < minPasswordLen {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLen)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}
	admin := &models.Admin{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	id, err := s.admins.Create(ctx, admin)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		return nil, apperr.Internal(err, "create admin")
	}
	admin.ID = id
	return admin, nil
}

func (s *AuthService) Profile(ctx context.Context, adminID string) (*models.AdminResponse, error) {
	admin, err := s.admins.FindByID(ctx, adminID)
	if err != nil {
		return nil, apperr.Internal(err, "find admin")
	}
	if admin == nil {
		return nil, apperr.NotFound("Admin not found")
	}
	resp := admin.ToResponse()
	return &resp, nil
}

func (s *AuthService) issue(admin *models.Admin) (*AuthResult, error) {
	token, err := auth.GenerateToken(s.jwtSecret, admin.ID, admin.Email, s.tokenTTL)
	if err != nil {
		return nil, apperr.Internal(err, "sign token")
	}
	return &AuthResult{Token: token, Admin: admin.ToResponse()}, nil
}
