package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unidrl/campus-connect/internal/api/handler/v1/response"
	"github.com/unidrl/campus-connect/internal/pkg/jwthelper"
)

const ClaimsKey = "claims"

var (
	errMissingToken = errors.New("missing bearer token")
	errUserAgent    = errors.New("token was issued to another client")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token and stores the
// token claims in the gin context under ClaimsKey. Browsers cannot set
// headers on websocket upgrades, so the token may also come as ?token=.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)
		if tokenString == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, tokenString)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(fmt.Errorf("jwthelper.ParseToken -> %w", err)))
			return
		}

		if claims.UserAgent != "" && claims.UserAgent != ctx.Request.UserAgent() {
			response.RenderErr(ctx, response.ErrUnauthorized(errUserAgent))
			return
		}

		ctx.Set(ClaimsKey, claims)
		ctx.Next()
	}
}

// RequireRole only lets through users whose token carries one of roles.
// It must run after VerifyJWT.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := ClaimsFromContext(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				ctx.Next()
				return
			}
		}

		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("role %q may not access this resource", claims.Role)))
	}
}

func ClaimsFromContext(ctx *gin.Context) (*jwthelper.CustomClaims, bool) {
	v, ok := ctx.Get(ClaimsKey)
	if !ok {
		return nil, false
	}

	claims, ok := v.(*jwthelper.CustomClaims)

	return claims, ok
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ctx.Query("token")
}
