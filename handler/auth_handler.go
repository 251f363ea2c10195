package handler

import (
	"context"
	"errors"
	"net/http"

	"momentum/dto"
	"momentum/middleware"
	"momentum/usecase"
	"momentum/utils"

	"github.com/gin-gonic/gin"
)

type AuthService interface {
	SignUp(ctx context.Context, input usecase.SignUpInput) (*usecase.AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	SignOut(ctx context.Context, token string) error
}

func SignUpHandler(c *gin.Context, authService AuthService) {
	var req dto.SignUpRequest
	if !bindJSON(c, &req) {
		utils.TrackError("auth", "invalid_request")
		return
	}

	result, err := authService.SignUp(c.Request.Context(), req.ToSignUpInput())
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrDuplicateEmail):
			utils.ErrorJSON(c, http.StatusBadRequest, err)
		default:
			utils.ErrorJSON(c, utils.StatusFor(err), err)
		}
		return
	}

	utils.Success(c, dto.ToAuthResponse(result))
}

func SignInHandler(c *gin.Context, authService AuthService) {
	var req dto.SignInRequest
	if !bindJSON(c, &req) {
		utils.TrackError("auth", "invalid_request")
		return
	}

	result, err := authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrUserNotFound):
			utils.ErrorJSON(c, http.StatusNotFound, err)
		case errors.Is(err, utils.ErrInvalidCredentials):
			utils.ErrorJSON(c, http.StatusBadRequest, err)
		default:
			utils.ErrorJSON(c, utils.StatusFor(err), err)
		}
		return
	}

	utils.Success(c, dto.ToAuthResponse(result))
}

// SignOutHandler revokes the token the request was authenticated with.
func SignOutHandler(c *gin.Context, authService AuthService) {
	token := c.GetString(middleware.TokenKey)
	if token == "" {
		utils.Unauthorized(c, utils.ErrNoIdentity)
		return
	}

	if err := authService.SignOut(c.Request.Context(), token); err != nil {
		utils.ErrorJSON(c, utils.StatusFor(err), err)
		return
	}

	utils.Message(c, "Successfully signed out")
}
