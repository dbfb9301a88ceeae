package middleware

import (
	"context"
	"net/http"

	"github.com/rewardly/admin-ledger/pkg/api"
	"github.com/rewardly/admin-ledger/pkg/models"
)

type contextKey string

const actorKey contextKey = "actor"

// Actor header names. The identity gateway in front of this service
// authenticates the operator and forwards their claims as headers.
const (
	HeaderActorID    = "X-Actor-Id"
	HeaderActorName  = "X-Actor-Name"
	HeaderActorEmail = "X-Actor-Email"
	HeaderActorRole  = "X-Actor-Role"
)

// WithActor extracts the operator identity from the forwarded headers
// and stores it on the request context. Requests with no role header
// are rejected before reaching any handler.
func WithActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := r.Header.Get(HeaderActorRole)
		if role == "" {
			api.WriteError(w, http.StatusUnauthorized, "Missing operator identity")
			return
		}

		actor := models.Actor{
			ID:          r.Header.Get(HeaderActorID),
			DisplayName: r.Header.Get(HeaderActorName),
			Email:       r.Header.Get(HeaderActorEmail),
			Role:        models.Role(role),
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext returns the operator stored by WithActor. The zero
// Actor is returned when the middleware did not run; its empty role is
// denied by every capability check.
func ActorFromContext(ctx context.Context) models.Actor {
	actor, _ := ctx.Value(actorKey).(models.Actor)
	return actor
}

// ContextWithActor is a test helper for handlers exercised without the
// full middleware chain.
func ContextWithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
