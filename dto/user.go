package dto

import (
	"momentum/model"
	"momentum/usecase"
)

type SignUpRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

func (r SignUpRequest) ToSignUpInput() usecase.SignUpInput {
	return usecase.SignUpInput{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
	}
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public view of a user; the password hash is never
// included.
type UserResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Result UserResponse `json:"result"`
	Token  string       `json:"token"`
}

func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: user.Email,
	}
}

func ToAuthResponse(result *usecase.AuthResult) AuthResponse {
	return AuthResponse{
		Result: ToUserResponse(result.User),
		Token:  result.Token,
	}
}
