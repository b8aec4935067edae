package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/coffeebase/coffeebase-api/internal/apperr"
	"github.com/coffeebase/coffeebase-api/internal/auth"
)

type Service struct {
	repo   Repository
	tokens *auth.Tokens
}

func NewService(repo Repository, tokens *auth.Tokens) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) SignUp(ctx context.Context, email, password, confirmPassword string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, apperr.New(apperr.KindValidation, "Email is required")
	}
	if password != confirmPassword {
		return nil, apperr.New(apperr.KindValidation, "Passwords do not match")
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "could not hash password", err)
	}
	u := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleCustomer,
		CreditPoints: 0,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrAlreadyExist) {
			return nil, apperr.New(apperr.KindConflict, "Email already registered")
		}
		return nil, apperr.Wrap(apperr.KindDependency, "could not create user", err)
	}
	return s.authResult(u)
}

// Login rejects unknown emails and wrong passwords with the same message, so
// the response carries no user-enumeration signal.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.lookup(ctx, email)
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, apperr.New(apperr.KindAuthentication, "Invalid email or password")
	}
	return s.authResult(u)
}

// AdminLogin checks the admin role before the password, matching the regular
// login path for unknown emails. A non-admin with correct credentials gets
// the same 403 as one with wrong credentials.
func (s *Service) AdminLogin(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.lookup(ctx, email)
	if err != nil {
		return nil, err
	}
	if !auth.IsAdminRole(u.Role) {
		return nil, apperr.New(apperr.KindAuthorization, "Access denied. Admin privileges required.")
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, apperr.New(apperr.KindAuthentication, "Invalid email or password")
	}
	return s.authResult(u)
}

func (s *Service) Profile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.New(apperr.KindNotFound, "User not found")
		}
		return nil, apperr.Wrap(apperr.KindDependency, "could not load user", err)
	}
	p := u.Profile()
	return &p, nil
}

func (s *Service) lookup(ctx context.Context, email string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.New(apperr.KindAuthentication, "Invalid email or password")
		}
		return nil, apperr.Wrap(apperr.KindDependency, "could not load user", err)
	}
	return u, nil
}

func (s *Service) authResult(u *User) (*AuthResult, error) {
	token, err := s.tokens.Generate(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u.Profile(), Token: token}, nil
}
