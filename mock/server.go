package mock

import (
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/portal/api"
	"github.com/viant/portal/internal/collection"
)

// Request is a recorded inbound request.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          string
	Status        int
}

type account struct {
	user     *api.User
	password string
}

// Server is an in-memory back-office API.
type Server struct {
	*httptest.Server

	// Optional handler overrides; the default implementation is used when nil.
	TokenHandler    http.HandlerFunc
	RefreshHandler  http.HandlerFunc
	RegisterHandler http.HandlerFunc

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	key        []byte
	generation atomic.Int64
	nextID     atomic.Int64
	accounts   *collection.SyncMap[string, *account]
	revoked    *collection.SyncMap[string, bool]
	grants     *collection.SyncMap[string, string]

	Orders   *collection.SyncMap[int, *api.Order]
	Services *collection.SyncMap[int, *api.Service]
	Tasks    *collection.SyncMap[int, *api.Task]
	Users    *collection.SyncMap[int, *api.User]

	mux      sync.Mutex
	requests []*Request
}

// AddAccount registers a user able to log in with password.
func (s *Server) AddAccount(username, password string) *api.User {
	user := &api.User{ID: s.NextID(), Username: username, IsActive: true, Role: "client"}
	s.accounts.Put(username, &account{user: user, password: password})
	s.Users.Put(user.ID, user)
	return user
}

// Grant accepts a literal access token for username, bypassing JWT verification.
func (s *Server) Grant(token, username string) {
	s.grants.Put(token, username)
}

// Revoke rejects a previously accepted access or refresh token.
func (s *Server) Revoke(token string) {
	if s.grants.Delete(token) {
		return
	}
	_ = s.revokeJWT(token)
}

// ExpireAccessTokens invalidates every access token issued so far; refresh tokens stay valid.
func (s *Server) ExpireAccessTokens() {
	s.generation.Add(1)
}

// IssueTokens mints an access and refresh token pair for username.
func (s *Server) IssueTokens(username string) (string, string, error) {
	access, err := s.createJWT(username, tokenTypeAccess, s.AccessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.createJWT(username, tokenTypeRefresh, s.RefreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// NextID allocates an entity id.
func (s *Server) NextID() int {
	return int(s.nextID.Add(1))
}

// Requests returns the recorded requests in arrival order.
func (s *Server) Requests() []*Request {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]*Request(nil), s.requests...)
}

// Count returns the number of recorded requests matching method and path.
func (s *Server) Count(method, path string) int {
	count := 0
	for _, request := range s.Requests() {
		if request.Method == method && request.Path == path {
			count++
		}
	}
	return count
}

// Reset clears recorded requests.
func (s *Server) Reset() {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.requests = nil
}

func (s *Server) record(request *Request) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.requests = append(s.requests, request)
}

// authenticate resolves the bearer token of r to a username.
func (s *Server) authenticate(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	if username, ok := s.grants.Get(token); ok {
		return username, true
	}
	username, err := s.parseJWT(token, tokenTypeAccess)
	if err != nil {
		return "", false
	}
	return username, true
}

// NewServer creates an unstarted server; call Start or use NewHTTPTestServer.
func NewServer() *Server {
	key := make([]byte, 32)
	_, _ = rand.Read(key)
	ret := &Server{
		key:        key,
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		accounts:   collection.NewSyncMap[string, *account](),
		revoked:    collection.NewSyncMap[string, bool](),
		grants:     collection.NewSyncMap[string, string](),
		Orders:     collection.NewSyncMap[int, *api.Order](),
		Services:   collection.NewSyncMap[int, *api.Service](),
		Tasks:      collection.NewSyncMap[int, *api.Task](),
		Users:      collection.NewSyncMap[int, *api.User](),
	}
	ret.Server = httptest.NewUnstartedServer(ret.Router())
	return ret
}

// NewHTTPTestServer creates and starts a server.
func NewHTTPTestServer() *Server {
	ret := NewServer()
	ret.Start()
	return ret
}
