package mock

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/viant/portal/api"
	"github.com/viant/portal/internal/collection"
)

type table[T any] struct {
	items    *collection.SyncMap[int, *T]
	nextID   func() int
	id       func(*T) *int
	validate func(*T) []api.FieldError
}

// mountTable registers list/detail handlers; writable tables also accept POST and PUT.
func mountTable[T any](r chi.Router, path string, t *table[T], writable bool) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", t.list)
		if writable {
			r.Post("/", t.create)
		}
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", t.get)
			if writable {
				r.Put("/", t.update)
			}
			r.Patch("/", t.patch)
			r.Delete("/", t.delete)
		})
	})
}

func (t *table[T]) list(w http.ResponseWriter, r *http.Request) {
	items := t.items.Values()
	if r.URL.Query().Get("page") != "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"count": t.items.Len(), "next": nil, "previous": nil, "results": items})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (t *table[T]) lookup(w http.ResponseWriter, r *http.Request) (int, *T, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return 0, nil, false
	}
	item, ok := t.items.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return 0, nil, false
	}
	return id, item, true
}

func (t *table[T]) get(w http.ResponseWriter, r *http.Request) {
	if _, item, ok := t.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, item)
	}
}

func (t *table[T]) create(w http.ResponseWriter, r *http.Request) {
	item := new(T)
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	if problems := t.validate(item); len(problems) > 0 {
		writeFieldErrors(w, problems)
		return
	}
	*t.id(item) = t.nextID()
	t.items.Put(*t.id(item), item)
	writeJSON(w, http.StatusCreated, item)
}

func (t *table[T]) update(w http.ResponseWriter, r *http.Request) {
	id, _, ok := t.lookup(w, r)
	if !ok {
		return
	}
	item := new(T)
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	if problems := t.validate(item); len(problems) > 0 {
		writeFieldErrors(w, problems)
		return
	}
	*t.id(item) = id
	t.items.Put(id, item)
	writeJSON(w, http.StatusOK, item)
}

func (t *table[T]) patch(w http.ResponseWriter, r *http.Request) {
	id, current, ok := t.lookup(w, r)
	if !ok {
		return
	}
	// overlay the patch on a copy of the stored item
	data, err := json.Marshal(current)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	item := new(T)
	_ = json.Unmarshal(data, item)
	if err = json.NewDecoder(r.Body).Decode(item); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	if problems := t.validate(item); len(problems) > 0 {
		writeFieldErrors(w, problems)
		return
	}
	*t.id(item) = id
	t.items.Put(id, item)
	writeJSON(w, http.StatusOK, item)
}

func (t *table[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, _, ok := t.lookup(w, r)
	if !ok {
		return
	}
	t.items.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func required(field, value string) []api.FieldError {
	if value == "" {
		return []api.FieldError{{Field: field, Messages: []string{fieldRequired}}}
	}
	return nil
}

func validateOrder(o *api.Order) []api.FieldError {
	return required("status", o.Status)
}

func validateService(s *api.Service) []api.FieldError {
	return append(required("name", s.Name), required("price", s.Price)...)
}

func validateTask(t *api.Task) []api.FieldError {
	return append(required("title", t.Title), required("status", t.Status)...)
}
