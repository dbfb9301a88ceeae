package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rewardly/admin-ledger/pkg/api"
	"github.com/rewardly/admin-ledger/pkg/history"
	"github.com/rewardly/admin-ledger/pkg/middleware"
	"github.com/rewardly/admin-ledger/pkg/models"
	"github.com/rewardly/admin-ledger/pkg/storage"
	storage_mocks "github.com/rewardly/admin-ledger/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	viewer = models.Actor{ID: "op-2", DisplayName: "Vic Viewer", Role: models.RoleViewer}
	editor = models.Actor{ID: "op-1", DisplayName: "Edna Editor", Role: models.RoleEditor}
)

func sampleEntries() []models.LedgerEntry {
	return []models.LedgerEntry{
		{EntryID: "e1", TransactionID: "TXN-1", AccountID: "a1", Amount: 50, Status: models.LedgerCompleted, CreatedAt: time.Now().Add(-time.Hour)},
		{EntryID: "e2", TransactionID: "TXN-2", AccountID: "a2", Amount: 30, Status: models.LedgerPending, CreatedAt: time.Now().Add(-2 * time.Hour)},
	}
}

func withActor(req *http.Request, actor models.Actor) *http.Request {
	return req.WithContext(middleware.ContextWithActor(req.Context(), actor))
}

func TestListEntries(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		mockStorage.On("ListLedgerEntries", mock.Anything).Return(sampleEntries(), nil)
		handler := NewLedgerHandler(history.NewService(mockStorage))

		req := withActor(httptest.NewRequest(http.MethodGet, "/ledger?page=1&limit=20", nil), viewer)
		rr := httptest.NewRecorder()
		handler.ListEntries(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var envelope struct {
			Success bool           `json:"success"`
			Data    api.LedgerPage `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
		assert.True(t, envelope.Success)
		assert.Len(t, envelope.Data.Entries, 2)
		assert.Equal(t, 2, envelope.Data.Total)
	})

	t.Run("Query Parameters Become Filters", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		mockStorage.On("ListLedgerEntriesByAccount", mock.Anything, "a1").Return(sampleEntries()[:1], nil)
		handler := NewLedgerHandler(history.NewService(mockStorage))

		req := withActor(httptest.NewRequest(http.MethodGet, "/ledger?account_id=a1&status=completed", nil), viewer)
		rr := httptest.NewRecorder()
		handler.ListEntries(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockStorage.AssertNotCalled(t, "ListLedgerEntries")
	})

	t.Run("Unknown Role Is Forbidden", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewLedgerHandler(history.NewService(mockStorage))

		req := withActor(httptest.NewRequest(http.MethodGet, "/ledger", nil), models.Actor{Role: models.Role("ghost")})
		rr := httptest.NewRecorder()
		handler.ListEntries(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestGetStats(t *testing.T) {
	mockStorage := new(storage_mocks.Storage)
	mockStorage.On("ListLedgerEntries", mock.Anything).Return(sampleEntries(), nil)
	handler := NewLedgerHandler(history.NewService(mockStorage))

	req := withActor(httptest.NewRequest(http.MethodGet, "/ledger/stats", nil), viewer)
	rr := httptest.NewRecorder()
	handler.GetStats(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var envelope struct {
		Success bool            `json:"success"`
		Data    api.LedgerStats `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Data.TotalTransfers)
	assert.Equal(t, int64(80), envelope.Data.TotalAmount)
	assert.Equal(t, 1, envelope.Data.CompletedTransfers)
	assert.InDelta(t, 40.0, envelope.Data.AverageAmount, 0.001)
}

func TestUpdateEntryStatus(t *testing.T) {
	newStatusRequest := func(actor models.Actor, entryID string, body string) *http.Request {
		req := httptest.NewRequest(http.MethodPatch, "/ledger/"+entryID+"/status", bytes.NewReader([]byte(body)))
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("entryId", entryID)
		ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
		return req.WithContext(middleware.ContextWithActor(ctx, actor))
	}

	t.Run("Success", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		updated := &models.LedgerEntry{EntryID: "e2", Status: models.LedgerCompleted}
		mockStorage.On("UpdateLedgerEntryStatus", mock.Anything, "e2", models.LedgerCompleted).Return(updated, nil)
		handler := NewLedgerHandler(history.NewService(mockStorage))

		rr := httptest.NewRecorder()
		handler.UpdateEntryStatus(rr, newStatusRequest(editor, "e2", `{"status":"completed"}`))

		assert.Equal(t, http.StatusOK, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Unknown Status Is Rejected Before The Store", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewLedgerHandler(history.NewService(mockStorage))

		rr := httptest.NewRecorder()
		handler.UpdateEntryStatus(rr, newStatusRequest(editor, "e2", `{"status":"archived"}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStorage.AssertNotCalled(t, "UpdateLedgerEntryStatus")
	})

	t.Run("Terminal Entry Is A Conflict", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		mockStorage.On("UpdateLedgerEntryStatus", mock.Anything, "e1", models.LedgerFailed).Return(nil, storage.ErrInvalidStatusTransition)
		handler := NewLedgerHandler(history.NewService(mockStorage))

		rr := httptest.NewRecorder()
		handler.UpdateEntryStatus(rr, newStatusRequest(editor, "e1", `{"status":"failed"}`))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Missing Entry", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		mockStorage.On("UpdateLedgerEntryStatus", mock.Anything, "missing", models.LedgerCompleted).Return(nil, storage.ErrNotFound)
		handler := NewLedgerHandler(history.NewService(mockStorage))

		rr := httptest.NewRecorder()
		handler.UpdateEntryStatus(rr, newStatusRequest(editor, "missing", `{"status":"completed"}`))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Viewer Is Forbidden", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		handler := NewLedgerHandler(history.NewService(mockStorage))

		rr := httptest.NewRecorder()
		handler.UpdateEntryStatus(rr, newStatusRequest(viewer, "e2", `{"status":"completed"}`))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		mockStorage.AssertNotCalled(t, "UpdateLedgerEntryStatus")
	})
}
