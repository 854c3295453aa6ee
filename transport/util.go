package transport

import (
	"bytes"
	"io"
	"net/http"
)

// readBody drains and closes the request body so the request can be replayed.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

func clone(r *http.Request, body []byte) *http.Request {
	cloned := r.Clone(r.Context())
	if body != nil {
		cloned.Body = io.NopCloser(bytes.NewReader(body))
		cloned.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		cloned.ContentLength = int64(len(body))
	}
	return cloned
}

// buffer replaces the response body with an in-memory copy so that the
// response can still be handed to the caller after inspection.
func buffer(resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return err
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return nil
}

// discard drains and closes the response body to allow connection reuse.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
