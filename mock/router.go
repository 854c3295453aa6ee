package mock

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/viant/portal/api"
)

// Router routes requests to the auth and collection handlers.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.recorder)

	router.Post("/auth/token/", s.override(func() http.HandlerFunc { return s.TokenHandler }, s.defaultTokenHandler))
	router.Post("/auth/token/refresh/", s.override(func() http.HandlerFunc { return s.RefreshHandler }, s.defaultRefreshHandler))
	router.Post("/auth/register/client/", s.override(func() http.HandlerFunc { return s.RegisterHandler }, s.defaultRegisterHandler))

	router.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		mountTable(r, "/orders", &table[api.Order]{
			items:    s.Orders,
			nextID:   s.NextID,
			id:       func(o *api.Order) *int { return &o.ID },
			validate: validateOrder,
		}, true)
		mountTable(r, "/services", &table[api.Service]{
			items:    s.Services,
			nextID:   s.NextID,
			id:       func(o *api.Service) *int { return &o.ID },
			validate: validateService,
		}, true)
		mountTable(r, "/tasks", &table[api.Task]{
			items:    s.Tasks,
			nextID:   s.NextID,
			id:       func(o *api.Task) *int { return &o.ID },
			validate: validateTask,
		}, true)
		mountTable(r, "/users", &table[api.User]{
			items:    s.Users,
			nextID:   s.NextID,
			id:       func(o *api.User) *int { return &o.ID },
			validate: func(*api.User) []api.FieldError { return nil },
		}, false)
	})
	return router
}

func (s *Server) override(custom func() http.HandlerFunc, fallback http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if handler := custom(); handler != nil {
			handler(w, r)
			return
		}
		fallback(w, r)
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) recorder(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		writer := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(writer, r)
		s.record(&Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get(api.HeaderRequestID),
			Body:          string(body),
			Status:        writer.status,
		})
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		if _, ok := s.authenticate(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeFieldErrors writes a 400 keeping the field order.
func writeFieldErrors(w http.ResponseWriter, fields []api.FieldError) {
	buffer := bytes.Buffer{}
	buffer.WriteByte('{')
	for i, field := range fields {
		if i > 0 {
			buffer.WriteByte(',')
		}
		key, _ := json.Marshal(field.Field)
		value, _ := json.Marshal(field.Messages)
		buffer.Write(key)
		buffer.WriteByte(':')
		buffer.Write(value)
	}
	buffer.WriteByte('}')
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = w.Write(buffer.Bytes())
}
