package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdesk/deskctl/internal/api"
	"github.com/opsdesk/deskctl/internal/token"
)

// testPlatform is a scripted stand-in for the support platform
type testPlatform struct {
	mu           sync.Mutex
	validLogin   bool
	profileOK    bool
	profileDelay time.Duration
	user         api.User
	loginCalls   int
	profileHits  int
}

func (p *testPlatform) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()

		switch r.URL.Path {
		case "/api/v1/auth/login":
			p.loginCalls++
			if !p.validLogin {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(api.LoginData{AccessToken: "T", RefreshToken: "R"})
		case "/api/v1/auth/me":
			p.profileHits++
			if p.profileDelay > 0 {
				p.mu.Unlock()
				time.Sleep(p.profileDelay)
				p.mu.Lock()
			}
			if !p.profileOK || r.Header.Get("Authorization") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(p.user)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestSession(t *testing.T, platform *testPlatform) (*Context, *api.Client, *token.MemStore) {
	t.Helper()
	server := httptest.NewServer(platform.handler())
	t.Cleanup(server.Close)

	tokens := token.NewMemStore()
	client := api.NewClient(server.URL, 5*time.Second, tokens)
	return NewContext(client, nil), client, tokens
}

func TestBootstrap_NoToken(t *testing.T) {
	sess, _, _ := newTestSession(t, &testPlatform{})

	snap := sess.Bootstrap(context.Background())

	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.User)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)
}

func TestBootstrap_ValidToken(t *testing.T) {
	platform := &testPlatform{
		profileOK: true,
		user:      api.User{ID: 1, Email: "a@b.com", Role: "user", FirstName: "A", LastName: "B"},
	}
	sess, _, tokens := newTestSession(t, platform)

	ctx := context.Background()
	require.NoError(t, tokens.Save(ctx, "T", ""))

	snap := sess.Bootstrap(ctx)

	assert.Equal(t, StateAuthenticated, snap.State)
	require.NotNil(t, snap.User)
	assert.Equal(t, 1, snap.User.ID)
	assert.Equal(t, "a@b.com", snap.User.Email)
}

func TestBootstrap_StaleTokenClearsAndSettlesUnauthenticated(t *testing.T) {
	// Token present but the platform rejects the profile fetch
	sess, _, tokens := newTestSession(t, &testPlatform{profileOK: false})

	ctx := context.Background()
	require.NoError(t, tokens.Save(ctx, "stale", ""))

	snap := sess.Bootstrap(ctx)

	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.User)

	_, ok := tokens.Access(ctx)
	assert.False(t, ok, "stale token must be cleared")
}

func TestBootstrap_SingleInFlight(t *testing.T) {
	platform := &testPlatform{
		profileOK:    true,
		profileDelay: 100 * time.Millisecond,
		user:         api.User{ID: 1, Email: "a@b.com", Role: "user"},
	}
	sess, _, tokens := newTestSession(t, platform)

	ctx := context.Background()
	require.NoError(t, tokens.Save(ctx, "T", ""))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sess.Bootstrap(ctx)
	}()

	// Give the first bootstrap time to enter its profile fetch, then pile
	// on; the in-flight guard must turn these into no-ops
	time.Sleep(20 * time.Millisecond)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.Bootstrap(ctx)
		}()
	}
	wg.Wait()

	platform.mu.Lock()
	hits := platform.profileHits
	platform.mu.Unlock()
	assert.Equal(t, 1, hits)
	assert.Equal(t, StateAuthenticated, sess.Snapshot().State)
}

func TestLogin_Success(t *testing.T) {
	platform := &testPlatform{
		validLogin: true,
		profileOK:  true,
		user:       api.User{ID: 1, Email: "a@b.com", Role: "user", FirstName: "A", LastName: "B"},
	}
	sess, _, tokens := newTestSession(t, platform)

	ctx := context.Background()
	snap := sess.Login(ctx, "a@b.com", "pw")

	assert.Equal(t, StateAuthenticated, snap.State)
	require.NotNil(t, snap.User)
	assert.Equal(t, 1, snap.User.ID)
	assert.Equal(t, "a@b.com", snap.User.Email)
	assert.Equal(t, "user", snap.User.Role)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)

	// Exactly one access token persisted
	access, ok := tokens.Access(ctx)
	require.True(t, ok)
	assert.Equal(t, "T", access)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	sess, _, tokens := newTestSession(t, &testPlatform{validLogin: false})

	ctx := context.Background()
	snap := sess.Login(ctx, "a@b.com", "wrong")

	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.User)
	assert.NotEmpty(t, snap.Err)

	_, ok := tokens.Access(ctx)
	assert.False(t, ok, "no token may be persisted on failed login")
}

func TestLogin_ProfileFetchFails(t *testing.T) {
	// Credential exchange succeeds but the profile fetch does not; the
	// session must not settle authenticated on login data alone
	sess, _, tokens := newTestSession(t, &testPlatform{validLogin: true, profileOK: false})

	ctx := context.Background()
	snap := sess.Login(ctx, "a@b.com", "pw")

	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.User)
	assert.NotEmpty(t, snap.Err)

	_, ok := tokens.Access(ctx)
	assert.False(t, ok)
}

func TestLogout_Idempotent(t *testing.T) {
	platform := &testPlatform{
		validLogin: true,
		profileOK:  true,
		user:       api.User{ID: 1, Email: "a@b.com", Role: "user"},
	}
	sess, _, tokens := newTestSession(t, platform)

	ctx := context.Background()
	require.True(t, sess.Login(ctx, "a@b.com", "pw").Authenticated())

	first := sess.Logout(ctx)
	second := sess.Logout(ctx)

	assert.Equal(t, first.State, second.State)
	assert.Equal(t, StateUnauthenticated, second.State)
	assert.Nil(t, second.User)
	assert.Empty(t, second.Err)

	_, ok := tokens.Access(ctx)
	assert.False(t, ok)
}

func TestSessionExpired_ForcesUnauthenticated(t *testing.T) {
	platform := &testPlatform{
		validLogin: true,
		profileOK:  true,
		user:       api.User{ID: 1, Email: "a@b.com", Role: "user"},
	}
	sess, client, tokens := newTestSession(t, platform)

	ctx := context.Background()
	require.True(t, sess.Login(ctx, "a@b.com", "pw").Authenticated())

	var notified []Snapshot
	sess.Subscribe(func(snap Snapshot) {
		notified = append(notified, snap)
	})

	// Any authenticated request answered with 401 triggers the teardown
	platform.mu.Lock()
	platform.profileOK = false
	platform.mu.Unlock()
	_ = api.NewAuth(client).Me(ctx)

	snap := sess.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Nil(t, snap.User)
	assert.Equal(t, SessionExpiredMessage, snap.Err)

	require.NotEmpty(t, notified)
	assert.Equal(t, SessionExpiredMessage, notified[len(notified)-1].Err)

	_, ok := tokens.Access(ctx)
	assert.False(t, ok)
}

func TestSnapshot_IsACopy(t *testing.T) {
	platform := &testPlatform{
		validLogin: true,
		profileOK:  true,
		user:       api.User{ID: 1, Email: "a@b.com", Role: "user"},
	}
	sess, _, _ := newTestSession(t, platform)

	ctx := context.Background()
	sess.Login(ctx, "a@b.com", "pw")

	snap := sess.Snapshot()
	require.NotNil(t, snap.User)
	snap.User.Role = "admin"

	// Mutating a snapshot never leaks back into the session
	assert.Equal(t, "user", sess.Snapshot().User.Role)
}
