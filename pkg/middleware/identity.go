package middleware

import (
	"context"
	"net/http"
	"rezerveo/pkg/logger"
	"rezerveo/pkg/model"
	"rezerveo/pkg/sanitizer"

	"github.com/google/uuid"
)

const ActorKey contextKey = "actor"

// Headers asserted by the upstream auth gateway. Credentials never reach
// this service; it only trusts the already-authenticated identity.
const (
	HeaderActorID    = "X-Actor-Id"
	HeaderActorName  = "X-Actor-Name"
	HeaderActorEmail = "X-Actor-Email"
)

// Identity extracts the authenticated caller from gateway headers and
// places it in the request context. Requests without a valid actor id are
// rejected before reaching any handler.
func Identity(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID := r.Header.Get(HeaderActorID)
			if _, err := uuid.Parse(actorID); err != nil {
				log.Warn("Request without valid actor identity",
					"request_id", requestIDFrom(r),
					"path", r.URL.Path,
					"method", r.Method,
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Missing or invalid actor identity"}`))
				return
			}

			actor := &model.Actor{
				UUID:  actorID,
				Name:  sanitizer.NormalizeName(r.Header.Get(HeaderActorName)),
				Email: sanitizer.NormalizeEmail(r.Header.Get(HeaderActorEmail)),
			}

			ctx := context.WithValue(r.Context(), ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFrom returns the authenticated caller stored by Identity, or nil
// when the middleware did not run.
func ActorFrom(ctx context.Context) *model.Actor {
	if v := ctx.Value(ActorKey); v != nil {
		if actor, ok := v.(*model.Actor); ok {
			return actor
		}
	}
	return nil
}
