package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/tuanvumaihuynh/productstack/internal/apperr"
	"github.com/tuanvumaihuynh/productstack/internal/http/apierr"
	"github.com/tuanvumaihuynh/productstack/internal/service"
	"github.com/tuanvumaihuynh/productstack/pkg/authctx"
)

// TokenCookie is the cookie login sets and logout clears.
const TokenCookie = "token"

type TokenVerifier interface {
	VerifyToken(token string) (service.Claims, error)
}

// RequireAuth rejects requests without a valid token. The token is read from
// an "Authorization: Bearer" header, then from the token cookie. A missing
// token is 401, an invalid one 403.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				//nolint:errcheck
				apierr.Write(w, apierr.New(apperr.TokenRequiredErr))
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.DebugContext(r.Context(), "rejected token", slog.Any("error", err))
				//nolint:errcheck
				apierr.Write(w, apierr.New(err))
				return
			}

			ctx := authctx.NewContext(r.Context(), authctx.Subject{
				UserID: claims.Subject,
				Email:  claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}

	return ""
}
