package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/viant/portal/session"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// ErrRefreshFailed is reported when the refresh endpoint rejects or cannot
// process the refresh token. The session has been cleared when it is returned.
var ErrRefreshFailed = errors.New("session refresh failed")

var errNoRefreshToken = errors.New("refresh token absent")

// RefreshError carries the cause of a failed refresh.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("%v: %v", ErrRefreshFailed, e.Err)
}

func (e *RefreshError) Unwrap() []error {
	return []error{ErrRefreshFailed, e.Err}
}

// Refresher exchanges a refresh token for a new access token. A returned
// session with a RefreshToken indicates a rotated refresh token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*session.Session, error)
}

type RoundTripper struct {
	store     session.Store
	refresher Refresher
	transport http.RoundTripper
	logger    zerolog.Logger
	coalesce  bool
	group     singleflight.Group
}

func New(options ...Option) (*RoundTripper, error) {
	ret := &RoundTripper{
		transport: http.DefaultTransport,
		logger:    zerolog.Nop(),
		coalesce:  true,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.store == nil {
		return nil, errors.New("session store was empty")
	}
	if ret.refresher == nil {
		return nil, errors.New("refresher was empty")
	}
	return ret, nil
}

func (r *RoundTripper) Store() session.Store {
	return r.store
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	body, err := readBody(req)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	current, err := r.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	// 1) Send with whatever credentials we have; none means unauthenticated.
	first := clone(req, body)
	authorize(first, current)
	resp, err := r.transport.RoundTrip(first)
	if err != nil {
		return nil, err
	}

	// 2) Anything but 401 goes back untouched.
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	// The 401 is handed back as is when there is nothing to refresh with.
	if err = buffer(resp); err != nil {
		return nil, err
	}

	// 3) One refresh per request chain.
	refreshed, err := r.refresh(ctx, current.AccessToken)
	if err != nil {
		if errors.Is(err, errNoRefreshToken) {
			return resp, nil
		}
		discard(resp)
		return nil, err
	}
	discard(resp)

	// 4) Replay exactly once; the result is final whatever it is.
	retry := clone(req, body)
	authorize(retry, refreshed)
	return r.transport.RoundTrip(retry)
}

func (r *RoundTripper) refresh(ctx context.Context, presented string) (*session.Session, error) {
	if !r.coalesce {
		return r.refreshSession(ctx, presented, false)
	}
	// The flight is detached from caller cancellation; a cancelled caller only stops waiting.
	flight := r.group.DoChan(refreshKey, func() (interface{}, error) {
		return r.refreshSession(context.WithoutCancel(ctx), presented, true)
	})
	select {
	case <-ctx.Done():
		r.logger.Debug().Err(ctx.Err()).Msg("left in-flight session refresh")
		return nil, ctx.Err()
	case result := <-flight:
		if result.Err != nil {
			return nil, result.Err
		}
		if result.Shared {
			r.logger.Debug().Msg("joined in-flight session refresh")
		}
		return result.Val.(*session.Session), nil
	}
}

// refreshSession runs one refresh attempt. With reuse set, a token that was
// already replaced by a concurrent refresh is returned without calling the refresher.
func (r *RoundTripper) refreshSession(ctx context.Context, presented string, reuse bool) (*session.Session, error) {
	current, err := r.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if reuse && current.AccessToken != "" && current.AccessToken != presented {
		r.logger.Debug().Msg("access token already refreshed")
		return current, nil
	}
	if !current.CanRefresh() {
		r.forceLogout(ctx, errNoRefreshToken)
		return nil, errNoRefreshToken
	}
	r.logger.Debug().Msg("refreshing access token")
	refreshed, err := r.refresher.Refresh(ctx, current.RefreshToken)
	if err == nil && !refreshed.IsAuthenticated() {
		err = errors.New("refresh returned no access token")
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			r.logger.Debug().Err(err).Msg("session refresh interrupted")
			return nil, ctxErr
		}
		r.forceLogout(ctx, err)
		return nil, &RefreshError{Err: err}
	}
	fields := []session.Field{session.FieldAccess}
	current.AccessToken = refreshed.AccessToken
	if refreshed.CanRefresh() {
		fields = append(fields, session.FieldRefresh)
		current.RefreshToken = refreshed.RefreshToken
	}
	if err = r.store.Set(ctx, current, fields...); err != nil {
		return nil, fmt.Errorf("failed to store refreshed session: %w", err)
	}
	return current, nil
}

func (r *RoundTripper) forceLogout(ctx context.Context, cause error) {
	r.logger.Warn().Err(cause).Msg("forced logout")
	if err := r.store.Clear(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to clear session")
	}
}

func authorize(req *http.Request, current *session.Session) {
	if token := current.Token(); token != nil {
		token.SetAuthHeader(req)
		return
	}
	req.Header.Del("Authorization")
}
