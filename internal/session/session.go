// Package session owns the process-wide authentication state.
//
// A single Context is created at startup and handed to every component that
// needs to know who is logged in. It is the only writer of the current-user
// value; screens and menus subscribe and react but never mutate it. That
// single-writer discipline is what keeps every surface agreeing on "is a
// user logged in and who are they".
package session

import (
	"context"
	"sync"

	"github.com/opsdesk/deskctl/internal/api"
	"github.com/opsdesk/deskctl/internal/log"
	"github.com/opsdesk/deskctl/internal/token"
)

// State is the authentication lifecycle state
type State int

const (
	// StateBootstrapping is the initial state while the stored token is
	// being validated against the platform
	StateBootstrapping State = iota
	// StateAuthenticated means a profile fetch succeeded and User is
	// populated
	StateAuthenticated
	// StateUnauthenticated means no trusted session exists
	StateUnauthenticated
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateBootstrapping:
		return "bootstrapping"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// SessionExpiredMessage is the notice shown when a 401 forces the session
// down, regardless of which screen triggered the failing request
const SessionExpiredMessage = "Your session has expired. Please log in again."

// Snapshot is an immutable view of the session handed to subscribers.
// While Loading is true the User value must not be trusted.
type Snapshot struct {
	State   State
	User    *api.User
	Loading bool
	Err     string
}

// Authenticated reports whether a trusted user is present
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// Context is the single source of truth for authentication state.
type Context struct {
	auth   *api.Auth
	tokens token.Store
	logger *log.Logger

	mu            sync.Mutex
	state         State
	user          *api.User
	errMsg        string
	loading       bool
	bootstrapping bool
	listeners     []func(Snapshot)
}

// NewContext creates the session context.
//
// The context subscribes itself to the client's session-expired event so a
// 401 from any in-flight request forces the UNAUTHENTICATED transition.
func NewContext(client *api.Client, logger *log.Logger) *Context {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	c := &Context{
		auth:   api.NewAuth(client),
		tokens: client.Tokens(),
		logger: logger,
		state:  StateBootstrapping,
	}
	client.SubscribeSessionExpired(c.HandleSessionExpired)
	return c
}

// Snapshot returns the current session view
func (c *Context) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers a listener notified after every settled state change.
// The listener receives the snapshot that resulted from the change.
func (c *Context) Subscribe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Bootstrap resolves the stored token into a settled session state.
//
// No token settles UNAUTHENTICATED immediately. A present token is only
// trusted after a successful profile fetch; any failure clears the stored
// credentials so a stale token can never leave the session authenticated.
// A second bootstrap while one is in flight is a no-op.
func (c *Context) Bootstrap(ctx context.Context) Snapshot {
	c.mu.Lock()
	if c.bootstrapping {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
	c.bootstrapping = true
	c.state = StateBootstrapping
	c.loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.bootstrapping = false
		c.mu.Unlock()
	}()

	if _, ok := c.tokens.Access(ctx); !ok {
		c.logger.Debug("bootstrap: no stored token")
		return c.settle(StateUnauthenticated, nil, "")
	}

	res := c.auth.Me(ctx)
	if !res.OK {
		c.logger.Info("bootstrap: stored token rejected", "kind", string(res.Kind))
		if err := c.tokens.ClearAll(ctx); err != nil {
			c.logger.Warn("bootstrap: failed to clear stale credentials", "error", err.Error())
		}
		return c.settle(StateUnauthenticated, nil, "")
	}

	user := res.Data
	c.logger.Info("bootstrap: session restored", "user_id", user.ID, "role", user.Role)
	return c.settle(StateAuthenticated, &user, "")
}

// Login authenticates and populates the full user profile.
//
// The login response alone is not trusted to carry complete profile data,
// so a successful credential exchange is always followed by a profile
// fetch; the token write completes before that fetch is issued, so the
// outgoing interceptor already attaches it.
func (c *Context) Login(ctx context.Context, email, password string) Snapshot {
	c.mu.Lock()
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()

	loginRes := c.auth.Login(ctx, email, password)
	if !loginRes.OK {
		return c.settle(StateUnauthenticated, nil, loginRes.Message)
	}

	profileRes := c.auth.Me(ctx)
	if !profileRes.OK {
		// Token was written but the session cannot be trusted
		if err := c.tokens.ClearAll(ctx); err != nil {
			c.logger.Warn("login: failed to clear credentials after profile failure", "error", err.Error())
		}
		return c.settle(StateUnauthenticated, nil, profileRes.Message)
	}

	user := profileRes.Data
	c.logger.Info("login: session established", "user_id", user.ID, "role", user.Role)
	return c.settle(StateAuthenticated, &user, "")
}

// Logout clears credentials and resets the session.
// Idempotent: logging out while unauthenticated re-confirms cleared state.
func (c *Context) Logout(ctx context.Context) Snapshot {
	res := c.auth.Logout(ctx)
	if !res.OK {
		c.logger.Warn("logout: credential clear failed", "message", res.Message)
	}
	return c.settle(StateUnauthenticated, nil, "")
}

// HandleSessionExpired transitions to UNAUTHENTICATED unconditionally.
// Invoked by the API client's session-expired event; the client has
// already cleared the stored credentials.
func (c *Context) HandleSessionExpired() {
	c.settle(StateUnauthenticated, nil, SessionExpiredMessage)
}

// settle commits a terminal state and notifies subscribers outside the lock
func (c *Context) settle(state State, user *api.User, errMsg string) Snapshot {
	c.mu.Lock()
	c.state = state
	c.user = user
	c.errMsg = errMsg
	c.loading = false
	snap := c.snapshotLocked()
	listeners := make([]func(Snapshot), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
	return snap
}

func (c *Context) snapshotLocked() Snapshot {
	var user *api.User
	if c.user != nil {
		u := *c.user
		user = &u
	}
	return Snapshot{
		State:   c.state,
		User:    user,
		Loading: c.loading,
		Err:     c.errMsg,
	}
}
