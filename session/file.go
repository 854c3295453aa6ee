package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// FileStore persists the session as a small JSON document at an afs URL
// (a local path, file://, mem:// or any registered scheme).
//
// Every call goes to storage: there is no in-memory cache, so a session
// written by another process is visible on the next Get.
type FileStore struct {
	mu      sync.Mutex
	URL     string
	fs      afs.Service
	options []storage.Option
}

// FileStoreOption customises a FileStore.
type FileStoreOption func(*FileStore)

// WithFileService sets the afs service used for storage.
func WithFileService(fs afs.Service) FileStoreOption {
	return func(f *FileStore) {
		f.fs = fs
	}
}

// WithStorageOptions passes options (credentials, etc.) to every afs call.
func WithStorageOptions(options ...storage.Option) FileStoreOption {
	return func(f *FileStore) {
		f.options = append(f.options, options...)
	}
}

// NewFileStore creates a Store persisted at URL.
func NewFileStore(URL string, options ...FileStoreOption) *FileStore {
	ret := &FileStore{URL: URL}
	for _, opt := range options {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret
}

func (f *FileStore) Get(ctx context.Context) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load(ctx)
}

func (f *FileStore) Set(ctx context.Context, session *Session, fields ...Field) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, err := f.load(ctx)
	if err != nil {
		return err
	}
	merge(current, session, fields)
	return f.save(ctx, current)
}

func (f *FileStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	exists, err := f.fs.Exists(ctx, f.URL, f.options...)
	if err != nil {
		return fmt.Errorf("failed to check session %v: %w", f.URL, err)
	}
	if !exists {
		return nil
	}
	if err = f.fs.Delete(ctx, f.URL, f.options...); err != nil {
		return fmt.Errorf("failed to clear session %v: %w", f.URL, err)
	}
	return nil
}

func (f *FileStore) IsAuthenticated(ctx context.Context) (bool, error) {
	session, err := f.Get(ctx)
	if err != nil {
		return false, err
	}
	return session.IsAuthenticated(), nil
}

// ---- persistence ----

func (f *FileStore) load(ctx context.Context) (*Session, error) {
	ret := &Session{}
	exists, err := f.fs.Exists(ctx, f.URL, f.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to check session %v: %w", f.URL, err)
	}
	if !exists {
		return ret, nil
	}
	data, err := f.fs.DownloadWithURL(ctx, f.URL, f.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to read session %v: %w", f.URL, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ret, nil
	}
	entries := map[Field]string{}
	if err = json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode session %v: %w", f.URL, err)
	}
	for field, value := range entries {
		ret.setValue(field, value)
	}
	return ret, nil
}

func (f *FileStore) save(ctx context.Context, session *Session) error {
	entries := map[Field]string{}
	for _, field := range Fields {
		if value := session.Value(field); value != "" {
			entries[field] = value
		}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err = f.fs.Upload(ctx, f.URL, os.FileMode(0o600), bytes.NewReader(data), f.options...); err != nil {
		return fmt.Errorf("failed to write session %v: %w", f.URL, err)
	}
	return nil
}
