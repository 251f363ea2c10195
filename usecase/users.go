package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"momentum/model"
	"momentum/services"
	"momentum/utils"
)

type UserStore interface {
	AddUser(ctx context.Context, user *model.User) error
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	GenerateToken(user *model.User) (string, error)
	ParseToken(token string) (*services.Claims, error)
}

// TokenRevoker keeps signed-out tokens from being accepted again.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type AuthService struct {
	Users      UserStore
	Tokens     TokenIssuer
	Revoker    TokenRevoker
	BcryptCost int
}

type SignUpInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthResult is what signup and signin hand back to the client.
type AuthResult struct {
	User  *model.User
	Token string
}

// SignUp registers a new user. The duplicate email check runs before the
// password confirmation check; neither failure persists anything.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	email := strings.TrimSpace(input.Email)

	name := fullName(input.FirstName, input.LastName)
	if name == "" {
		utils.TrackAuthAttempt("failure", "signup")
		return nil, utils.ErrMissingName
	}

	existing, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, utils.ErrUserNotFound) {
		utils.TrackAuthAttempt("failure", "signup")
		return nil, fmt.Errorf("signup lookup: %w", err)
	}
	if existing != nil {
		utils.TrackAuthAttempt("failure", "signup")
		return nil, utils.ErrDuplicateEmail
	}

	if input.Password != input.ConfirmPassword {
		utils.TrackAuthAttempt("failure", "signup")
		return nil, utils.ErrPasswordMismatch
	}

	hash, err := services.HashPassword(input.Password, s.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: hash,
	}
	if err := s.Users.AddUser(ctx, user); err != nil {
		utils.TrackAuthAttempt("failure", "signup")
		return nil, err
	}

	token, err := s.Tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	utils.TrackAuthAttempt("success", "signup")
	return &AuthResult{User: user, Token: token}, nil
}

// fullName joins the non-blank name parts with a single space.
func fullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.Users.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		utils.TrackAuthAttempt("failure", "signin")
		return nil, err
	}

	ok, err := services.VerifyPassword(user.Password, password)
	if err != nil {
		utils.TrackAuthAttempt("failure", "signin")
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		utils.TrackAuthAttempt("failure", "signin")
		return nil, utils.ErrInvalidCredentials
	}

	token, err := s.Tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	utils.TrackAuthAttempt("success", "signin")
	return &AuthResult{User: user, Token: token}, nil
}

// SignOut revokes the token until it would have expired.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if s.Revoker == nil {
		return errors.New("token revocation is not configured")
	}

	claims, err := s.Tokens.ParseToken(token)
	if err != nil {
		return err
	}

	if err := s.Revoker.Revoke(ctx, token, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	utils.TrackAuthAttempt("success", "signout")
	return nil
}
