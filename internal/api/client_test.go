package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/deskctl/internal/errors"
	"github.com/opsdesk/deskctl/internal/token"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *token.MemStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := token.NewMemStore()
	client := NewClient(server.URL, 5*time.Second, tokens)
	return client, tokens
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))

	ctx := context.Background()
	require.NoError(t, tokens.Save(ctx, "tok-123", ""))

	require.NoError(t, client.get(ctx, "/tickets", nil))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClient_ProceedsWithoutToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))

	require.NoError(t, client.get(context.Background(), "/tickets", nil))
	assert.Empty(t, gotAuth)
}

func TestClient_SetsRequestID(t *testing.T) {
	var gotID string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))

	require.NoError(t, client.get(context.Background(), "/tickets", nil))
	assert.NotEmpty(t, gotID)
}

func TestClient_VersionedPath(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{}`))
	}))

	require.NoError(t, client.get(context.Background(), "/tickets", nil))
	assert.Equal(t, "/api/v1/tickets", gotPath)
}

func TestClient_UnauthorizedWithTokenFiresExpiryOnce(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	ctx := context.Background()
	require.NoError(t, tokens.Save(ctx, "stale", ""))

	var fired atomic.Int32
	client.SubscribeSessionExpired(func() {
		fired.Add(1)
	})

	// Three concurrent requests all see the 401; the teardown must fire
	// exactly once
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := client.get(ctx, "/tickets", nil)
			assert.Equal(t, errors.KindAuth, errors.KindOf(err))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), fired.Load())

	_, ok := tokens.Access(ctx)
	assert.False(t, ok, "tokens must be cleared after session expiry")
}

func TestClient_UnauthorizedWithoutTokenDoesNotFire(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	fired := false
	client.SubscribeSessionExpired(func() {
		fired = true
	})

	err := client.get(context.Background(), "/tickets", nil)
	assert.Equal(t, errors.KindAuth, errors.KindOf(err))
	assert.False(t, fired, "a 401 on an unauthenticated request is not a session expiry")
}

func TestClient_ResetExpiryLatchReArms(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	ctx := context.Background()
	var fired atomic.Int32
	client.SubscribeSessionExpired(func() {
		fired.Add(1)
	})

	require.NoError(t, tokens.Save(ctx, "stale-1", ""))
	_ = client.get(ctx, "/tickets", nil)
	assert.Equal(t, int32(1), fired.Load())

	// Second 401 in the same epoch stays latched
	require.NoError(t, tokens.Save(ctx, "stale-1", ""))
	_ = client.get(ctx, "/tickets", nil)
	assert.Equal(t, int32(1), fired.Load())

	// A new login epoch re-arms the latch
	client.ResetExpiryLatch()
	require.NoError(t, tokens.Save(ctx, "stale-2", ""))
	_ = client.get(ctx, "/tickets", nil)
	assert.Equal(t, int32(2), fired.Load())
}

func TestClient_ClassifiesStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   errors.Kind
	}{
		{"forbidden", http.StatusForbidden, `{"detail":"nope"}`, errors.KindPermission},
		{"not found", http.StatusNotFound, `{"detail":"missing"}`, errors.KindNotFound},
		{"validation", http.StatusUnprocessableEntity, `{"detail":"invalid"}`, errors.KindValidation},
		{"bad request", http.StatusBadRequest, `{"detail":"invalid"}`, errors.KindValidation},
		{"server fault", http.StatusInternalServerError, ``, errors.KindServer},
		{"bad gateway", http.StatusBadGateway, ``, errors.KindServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			err := client.get(context.Background(), "/tickets", nil)
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.KindOf(err))
		})
	}
}

func TestClient_ValidationFieldErrorsJoined(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":{"email":["is invalid"],"password":["is too short"]}}`))
	}))

	err := client.get(context.Background(), "/tickets", nil)
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	assert.Contains(t, err.Error(), "email: is invalid")
	assert.Contains(t, err.Error(), "password: is too short")
}

func TestClient_TimeoutClassifiesAsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, 20*time.Millisecond, token.NewMemStore())

	err := client.get(context.Background(), "/tickets", nil)
	require.Error(t, err)
	assert.Equal(t, errors.KindNetwork, errors.KindOf(err))
}

func TestClient_UnreachableClassifiesAsNetwork(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second, token.NewMemStore())

	err := client.get(context.Background(), "/tickets", nil)
	require.Error(t, err)
	assert.Equal(t, errors.KindNetwork, errors.KindOf(err))
}

func TestClient_DecodesResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":7,"title":"broken printer"}`))
	}))

	var ticket Ticket
	require.NoError(t, client.get(context.Background(), "/tickets/7", &ticket))
	assert.Equal(t, 7, ticket.ID)
	assert.Equal(t, "broken printer", ticket.Title)
}
