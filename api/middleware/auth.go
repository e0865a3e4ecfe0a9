package middleware

import (
	"net/http"
	"strings"

	"github.com/provisionhq/procurehub-backend/api/responses"
	"github.com/provisionhq/procurehub-backend/internal/actors"
	pkgauth "github.com/provisionhq/procurehub-backend/pkg/auth"
	"github.com/provisionhq/procurehub-backend/pkg/config"
	pkgerrors "github.com/provisionhq/procurehub-backend/pkg/errors"
	"github.com/provisionhq/procurehub-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the actor.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseActorToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			actor, err := actors.FromClaims(claims)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid actor claims"))
				return
			}

			ctx := WithActor(r.Context(), actor)

			if logg != nil {
				fields := map[string]any{
					"actor_id":    actor.ID.String(),
					"actor_model": string(actor.Model),
					"actor_role":  string(actor.Role),
				}
				if actor.StoreID != nil {
					fields["store_id"] = actor.StoreID.String()
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
