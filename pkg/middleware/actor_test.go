package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestWithActor(t *testing.T) {
	t.Run("Forwarded Headers Become The Actor", func(t *testing.T) {
		var seen models.Actor
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = ActorFromContext(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/ledger", nil)
		req.Header.Set(HeaderActorID, "op-1")
		req.Header.Set(HeaderActorName, "Edna Editor")
		req.Header.Set(HeaderActorEmail, "edna@rewardly.io")
		req.Header.Set(HeaderActorRole, "editor")
		rr := httptest.NewRecorder()

		WithActor(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "op-1", seen.ID)
		assert.Equal(t, models.RoleEditor, seen.Role)
	})

	t.Run("Missing Role Is Unauthorized", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		req := httptest.NewRequest(http.MethodGet, "/ledger", nil)
		rr := httptest.NewRecorder()

		WithActor(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, called)
	})
}

func TestActorFromContext(t *testing.T) {
	t.Run("Zero Actor Without Middleware", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		actor := ActorFromContext(req.Context())

		assert.Empty(t, actor.Role)
	})
}
