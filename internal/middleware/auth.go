package middleware

import (
	"context"
	"strings"

	"github.com/questx-lab/lottery/internal/model"
	"github.com/questx-lab/lottery/pkg/authenticator"
	"github.com/questx-lab/lottery/pkg/cache"
	"github.com/questx-lab/lottery/pkg/errorx"
	"github.com/questx-lab/lottery/pkg/router"
	"github.com/questx-lab/lottery/pkg/xcontext"
)

// AuthVerifier resolves the user of a request from its access token. Verified
// tokens are remembered for a short while to skip the signature check.
type AuthVerifier struct {
	tokenEngine authenticator.TokenEngine[model.AccessToken]
	verified    *cache.TTLCache[string]
}

func NewAuthVerifier(
	tokenEngine authenticator.TokenEngine[model.AccessToken],
	verified *cache.TTLCache[string],
) *AuthVerifier {
	return &AuthVerifier{tokenEngine: tokenEngine, verified: verified}
}

// Middleware rejects the request with Unauthenticated if it carries no valid
// access token.
func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := getAccessToken(ctx)
		if token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		if userID, ok := a.verified.Get(token); ok {
			return xcontext.WithRequestUserID(ctx, userID), nil
		}

		info, err := a.tokenEngine.Verify(token)
		if err != nil || info.ID == "" {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		a.verified.Set(token, info.ID)
		return xcontext.WithRequestUserID(ctx, info.ID), nil
	}
}

func getAccessToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	authorization := req.Header.Get("Authorization")
	auth, token, found := strings.Cut(authorization, " ")
	if found {
		if auth == "Bearer" {
			return token
		}
		return ""
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
