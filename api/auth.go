package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/viant/portal/session"
)

// Auth manages the session lifecycle: login, registration, refresh and logout.
type Auth struct {
	client *Client
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

func (r *refreshResponse) Validate() error {
	if r.Access == "" {
		return fmt.Errorf("access token was empty")
	}
	return nil
}

// Login exchanges credentials for a token pair and stores a new session.
func (a *Auth) Login(ctx context.Context, username, password string) (*session.Session, error) {
	pair := &TokenPair{}
	if err := a.client.send(ctx, a.client.authClient, http.MethodPost, pathToken, nil, &credentials{Username: username, Password: password}, pair); err != nil {
		return nil, err
	}
	ret := &session.Session{AccessToken: pair.Access, RefreshToken: pair.Refresh, Identity: username}
	if err := a.client.store.Set(ctx, ret); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	a.client.logger.Info().Str("user", username).Msg("logged in")
	return ret, nil
}

// Register creates an account. When the response carries a token pair the
// new account is logged in.
func (a *Auth) Register(ctx context.Context, registration *Registration) (*RegistrationResult, error) {
	result := &RegistrationResult{}
	if err := a.client.send(ctx, a.client.authClient, http.MethodPost, pathRegister, nil, registration, result); err != nil {
		return nil, err
	}
	if result.Access != "" {
		identity := registration.Username
		if result.User != nil && result.User.Username != "" {
			identity = result.User.Username
		}
		if err := a.client.store.Set(ctx, &session.Session{AccessToken: result.Access, RefreshToken: result.Refresh, Identity: identity}); err != nil {
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
	}
	a.client.logger.Info().Str("user", registration.Username).Msg("registered")
	return result, nil
}

// Refresh exchanges a refresh token for a new access token. It does not touch
// the store; the transport persists the result.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (*session.Session, error) {
	result := &refreshResponse{}
	if err := a.client.send(ctx, a.client.authClient, http.MethodPost, pathRefresh, nil, &refreshRequest{Refresh: refreshToken}, result); err != nil {
		return nil, err
	}
	return &session.Session{AccessToken: result.Access, RefreshToken: result.Refresh}, nil
}

// Logout clears the session.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.client.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	a.client.logger.Info().Msg("logged out")
	return nil
}

// Session returns the stored session.
func (a *Auth) Session(ctx context.Context) (*session.Session, error) {
	return a.client.store.Get(ctx)
}

// IsAuthenticated reports whether an access token is stored.
func (a *Auth) IsAuthenticated(ctx context.Context) (bool, error) {
	return a.client.store.IsAuthenticated(ctx)
}
