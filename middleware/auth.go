package middleware

import (
	"context"
	"log/slog"
	"strings"

	"momentum/config"
	"momentum/model"
	"momentum/services"
	"momentum/utils"

	"github.com/gin-gonic/gin"
)

const (
	UserIDKey     = "userID"
	EmailKey      = "email"
	AuthResultKey = "auth_result"
	TokenKey      = "token"
)

type TokenParser interface {
	ParseToken(token string) (*services.Claims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthResult records how a request was authenticated: either an identity
// or the reason there is none.
type AuthResult struct {
	Identity *model.Identity
	Err      error
}

func (r AuthResult) Authenticated() bool {
	return r.Identity != nil
}

// Authenticate verifies the bearer token of every request. In
// config.AuthModeRequired a failure aborts with 401; in
// config.AuthModeAnonymous the request continues without an identity.
// revoker may be nil when sign-out is not configured.
func Authenticate(tokens TokenParser, revoker RevocationChecker, mode string, logger *slog.Logger) gin.HandlerFunc {
	l := logger.With(slog.String("middleware", "Authenticate"))

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		identity, token, err := authenticate(ctx, c.GetHeader("Authorization"), tokens, revoker)
		if err != nil {
			c.Set(AuthResultKey, AuthResult{Err: err})
			utils.TrackAuthAttempt("failure", "token")
			l.WarnContext(ctx, "Request authentication failed",
				slog.String("path", c.Request.URL.Path),
				slog.String("reason", utils.MessageOf(err)),
				slog.Any("error", err))

			if mode == config.AuthModeAnonymous {
				c.Next()
				return
			}
			utils.Unauthorized(c, err)
			c.Abort()
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Set(EmailKey, identity.Email)
		c.Set(TokenKey, token)
		c.Set(AuthResultKey, AuthResult{Identity: identity})
		c.Next()
	}
}

func authenticate(ctx context.Context, header string, tokens TokenParser, revoker RevocationChecker) (*model.Identity, string, error) {
	if header == "" {
		return nil, "", utils.ErrMissingToken
	}

	// "<scheme> <token>": the token is everything after the single space.
	_, token, found := strings.Cut(header, " ")
	if !found || token == "" || strings.Contains(token, " ") {
		return nil, "", utils.ErrMalformedToken
	}

	claims, err := tokens.ParseToken(token)
	if err != nil {
		return nil, "", err
	}

	if revoker != nil {
		revoked, err := revoker.IsRevoked(ctx, token)
		if err != nil {
			return nil, "", utils.Wrap(utils.ErrInvalidToken, err)
		}
		if revoked {
			return nil, "", utils.ErrRevokedToken
		}
	}

	return &model.Identity{UserID: claims.ID, Email: claims.Email}, token, nil
}

// RequireIdentity rejects requests that reached it without an identity.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentIdentity(c); !ok {
			err := utils.ErrNoIdentity
			if result, ok := CurrentAuthResult(c); ok && result.Err != nil {
				err = utils.Wrap(utils.ErrNoIdentity, result.Err)
			}
			utils.Unauthorized(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) (model.Identity, bool) {
	userID := c.GetString(UserIDKey)
	if userID == "" {
		return model.Identity{}, false
	}
	return model.Identity{UserID: userID, Email: c.GetString(EmailKey)}, true
}

func CurrentAuthResult(c *gin.Context) (AuthResult, bool) {
	value, exists := c.Get(AuthResultKey)
	if !exists {
		return AuthResult{}, false
	}
	result, ok := value.(AuthResult)
	return result, ok
}
