package console

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gorilla/websocket"
	storage_mocks "github.com/rewardly/admin-ledger/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func wsRequest(routeKey, connectionID string) events.APIGatewayWebsocketProxyRequest {
	return events.APIGatewayWebsocketProxyRequest{
		RequestContext: events.APIGatewayWebsocketProxyRequestContext{
			RouteKey:     routeKey,
			ConnectionID: connectionID,
		},
	}
}

func TestHandleConnect(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		mockStorage.On("AddConnection", mock.Anything, "conn-123").Return(nil)
		handler := NewHandler(mockStorage)

		resp, err := handler.HandleConnect(context.Background(), wsRequest("$connect", "conn-123"))

		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		mockStorage.On("AddConnection", mock.Anything, "conn-123").Return(errors.New("table unavailable"))
		handler := NewHandler(mockStorage)

		resp, err := handler.HandleConnect(context.Background(), wsRequest("$connect", "conn-123"))

		assert.Error(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})
}

func TestHandleDisconnect(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		mockStorage.On("RemoveConnection", mock.Anything, "conn-123").Return(nil)
		handler := NewHandler(mockStorage)

		resp, err := handler.HandleDisconnect(context.Background(), wsRequest("$disconnect", "conn-123"))

		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockStorage := new(storage_mocks.Storage)
		mockStorage.On("RemoveConnection", mock.Anything, "conn-123").Return(errors.New("table unavailable"))
		handler := NewHandler(mockStorage)

		resp, err := handler.HandleDisconnect(context.Background(), wsRequest("$disconnect", "conn-123"))

		assert.Error(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})
}

func TestHandleDefault(t *testing.T) {
	mockStorage := new(storage_mocks.Storage)
	handler := NewHandler(mockStorage)

	resp, err := handler.HandleDefault(context.Background(), wsRequest("$default", "conn-123"))

	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	mockStorage.AssertNotCalled(t, "AddConnection", mock.Anything, mock.Anything)
}

func TestServeHTTP(t *testing.T) {
	added := make(chan string, 1)
	removed := make(chan string, 1)

	mockStorage := new(storage_mocks.Storage)
	mockStorage.On("AddConnection", mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { added <- args.String(1) }).
		Return(nil)
	mockStorage.On("RemoveConnection", mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { removed <- args.String(1) }).
		Return(nil)

	server := httptest.NewServer(NewHandler(mockStorage))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	var connectionID string
	select {
	case connectionID = <-added:
	case <-time.After(time.Second):
		t.Fatal("connection was never registered")
	}
	assert.NotEmpty(t, connectionID)

	require.NoError(t, conn.Close())

	select {
	case removedID := <-removed:
		assert.Equal(t, connectionID, removedID)
	case <-time.After(time.Second):
		t.Fatal("connection was never unregistered")
	}
}
