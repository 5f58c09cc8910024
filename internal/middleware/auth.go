package middleware

import (
	"context"
	"strings"

	"github.com/zoquest/backend/internal/model"
	"github.com/zoquest/backend/pkg/jwt"
	"github.com/zoquest/backend/pkg/router"
	"github.com/zoquest/backend/pkg/xcontext"
)

// AuthVerifier resolves the request user id from a bearer access token or the
// access-token cookie. Requests without a valid token pass through without a
// user id; handlers decide whether that is acceptable.
type AuthVerifier struct{}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (v *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := accessToken(ctx)
		if token == "" {
			return ctx, nil
		}

		cfg := xcontext.Configs(ctx)
		engine := jwt.NewEngine[model.AccessToken](cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration)
		info, err := engine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return ctx, nil
		}

		return xcontext.WithRequestUserID(ctx, info.ID), nil
	}
}

func accessToken(ctx context.Context) string {
	r := xcontext.HTTPRequest(ctx)
	if r == nil {
		return ""
	}

	authorization := r.Header.Get("Authorization")
	auth, token, found := strings.Cut(authorization, " ")
	if found {
		if auth == "Bearer" {
			return token
		}
		return ""
	}

	cookie, err := r.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
