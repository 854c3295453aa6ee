package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// Resource is a REST collection at path supporting CRUD on T.
type Resource[T any] struct {
	client *Client
	path   string
}

func newResource[T any](client *Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

func (r *Resource[T]) itemPath(id int) string {
	return r.path + strconv.Itoa(id) + "/"
}

// page accepts either a bare array or a paginated envelope.
type page[T any] struct {
	Items []*T
}

func (p *page[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		envelope := struct {
			Results *[]*T `json:"results"`
		}{}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return err
		}
		if envelope.Results == nil {
			return unexpected("paginated response without results")
		}
		p.Items = *envelope.Results
		return nil
	}
	return json.Unmarshal(data, &p.Items)
}

func (p *page[T]) Validate() error {
	for i, item := range p.Items {
		if item == nil {
			return unexpected("item %d was null", i)
		}
		if aValidator, ok := interface{}(item).(validator); ok {
			if err := aValidator.Validate(); err != nil {
				return unexpected("item %d: %v", i, err)
			}
		}
	}
	return nil
}

// List returns the collection, optionally filtered by query.
func (r *Resource[T]) List(ctx context.Context, query url.Values) ([]*T, error) {
	result := &page[T]{}
	if err := r.client.send(ctx, r.client.httpClient, http.MethodGet, r.path, query, nil, result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// Get returns a single item.
func (r *Resource[T]) Get(ctx context.Context, id int) (*T, error) {
	result := new(T)
	if err := r.client.send(ctx, r.client.httpClient, http.MethodGet, r.itemPath(id), nil, nil, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Create posts a new item and returns the stored representation.
func (r *Resource[T]) Create(ctx context.Context, item *T) (*T, error) {
	result := new(T)
	if err := r.client.send(ctx, r.client.httpClient, http.MethodPost, r.path, nil, item, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Update replaces an item.
func (r *Resource[T]) Update(ctx context.Context, id int, item *T) (*T, error) {
	result := new(T)
	if err := r.client.send(ctx, r.client.httpClient, http.MethodPut, r.itemPath(id), nil, item, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Patch updates selected fields of an item.
func (r *Resource[T]) Patch(ctx context.Context, id int, fields map[string]interface{}) (*T, error) {
	result := new(T)
	if err := r.client.send(ctx, r.client.httpClient, http.MethodPatch, r.itemPath(id), nil, fields, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes an item.
func (r *Resource[T]) Delete(ctx context.Context, id int) error {
	return r.client.send(ctx, r.client.httpClient, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

// Users exposes user administration; accounts are created through Auth.Register.
type Users struct {
	resource *Resource[User]
}

func (u *Users) List(ctx context.Context, query url.Values) ([]*User, error) {
	return u.resource.List(ctx, query)
}

func (u *Users) Get(ctx context.Context, id int) (*User, error) {
	return u.resource.Get(ctx, id)
}

func (u *Users) Patch(ctx context.Context, id int, fields map[string]interface{}) (*User, error) {
	return u.resource.Patch(ctx, id, fields)
}

func (u *Users) Delete(ctx context.Context, id int) error {
	return u.resource.Delete(ctx, id)
}
