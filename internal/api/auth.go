package api

import (
	"context"
	"net/url"

	"github.com/opsdesk/deskctl/internal/errors"
)

// User represents a platform user.
// Role strings from the wire are normalized by internal/menu before any
// comparison; the raw value is preserved here.
type User struct {
	ID             int    `json:"id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	DepartmentID   int    `json:"department_id"`
	DepartmentName string `json:"department_name"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
}

// FullName returns the user's display name
func (u User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Email
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// LoginData is the token payload returned by the login endpoint
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// RegisterInput holds the new-account fields
type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirmation"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// Auth wraps the authentication endpoints.
//
// Every method returns a Result rather than an error: screens branch on the
// OK flag and render Message inline. Only storage-subsystem failures
// surface through Result with KindUnknown.
type Auth struct {
	client *Client
}

// NewAuth creates the auth service over a configured client
func NewAuth(client *Client) *Auth {
	return &Auth{client: client}
}

// Login submits credentials to the login endpoint. The wire format is
// form-encoded with username/password fields regardless of the email-based
// UI. On success the tokens are persisted before returning, so the next
// request already carries the bearer header, and the session-expiry latch
// is re-armed for the new epoch.
func (a *Auth) Login(ctx context.Context, email, password string) Result[LoginData] {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var data LoginData
	if err := a.client.postForm(ctx, "/auth/login", form, &data); err != nil {
		if errors.KindOf(err) == errors.KindAuth {
			return ErrMessage[LoginData](errors.KindAuth, "Invalid email or password.")
		}
		return Err[LoginData](err)
	}

	if err := a.client.tokens.Save(ctx, data.AccessToken, data.RefreshToken); err != nil {
		a.client.logger.WithError(err).Error("failed to persist credentials after login")
		return ErrMessage[LoginData](errors.KindUnknown,
			"Login succeeded but credentials could not be saved. Please try again.")
	}

	a.client.ResetExpiryLatch()
	a.client.logger.Info("login succeeded", "email", email)

	return Ok(data)
}

// Register creates a new account. The new account is not logged in
// automatically.
func (a *Auth) Register(ctx context.Context, input RegisterInput) Result[User] {
	var user User
	if err := a.client.postJSON(ctx, "/auth/register", input, &user); err != nil {
		return Err[User](err)
	}
	return Ok(user)
}

// Me fetches the currently authenticated user's profile
func (a *Auth) Me(ctx context.Context) Result[User] {
	var user User
	if err := a.client.get(ctx, "/auth/me", &user); err != nil {
		return Err[User](err)
	}
	return Ok(user)
}

// ForgotPassword submits a password-reset request for the given email
func (a *Auth) ForgotPassword(ctx context.Context, email string) Result[struct{}] {
	body := map[string]string{"email": email}
	if err := a.client.postJSON(ctx, "/auth/forgot-password", body, nil); err != nil {
		return Err[struct{}](err)
	}
	return Ok(struct{}{})
}

// Logout clears stored credentials. Always succeeds unless the underlying
// store fails.
func (a *Auth) Logout(ctx context.Context) Result[struct{}] {
	if err := a.client.tokens.ClearAll(ctx); err != nil {
		a.client.logger.WithError(err).Error("failed to clear credentials on logout")
		return ErrMessage[struct{}](errors.KindUnknown,
			"Could not remove stored credentials.")
	}
	a.client.logger.Info("logged out, credentials cleared")
	return Ok(struct{}{})
}
