package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrServer             = errors.New("server error")
	ErrUnexpectedResponse = errors.New("unexpected response shape")
)

// FieldError lists the messages reported for a single field, in server order.
type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// Error is a non-2xx API response.
type Error struct {
	StatusCode int
	Detail     string
	Fields     []FieldError
	Body       []byte
}

func (e *Error) Error() string {
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode)))
	if e.Detail != "" {
		builder.WriteString(": ")
		builder.WriteString(e.Detail)
	}
	for _, field := range e.Fields {
		builder.WriteString("; ")
		builder.WriteString(field.Field)
		builder.WriteString(": ")
		builder.WriteString(strings.Join(field.Messages, " "))
	}
	return builder.String()
}

// Unwrap maps the status code onto the package sentinel errors.
func (e *Error) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return ErrValidation
	case e.StatusCode >= 500:
		return ErrServer
	}
	return nil
}

// Message returns the first field-specific message, then the detail, then fallback.
func (e *Error) Message(fallback string) string {
	for _, field := range e.Fields {
		if len(field.Messages) > 0 {
			return field.Messages[0]
		}
	}
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// UserMessage selects a message suitable for display: server validation
// messages are shown verbatim, everything else maps to fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && errors.Is(apiErr, ErrValidation) {
		return apiErr.Message(fallback)
	}
	return fallback
}

func newError(statusCode int, body []byte) *Error {
	ret := &Error{StatusCode: statusCode, Body: body}
	ret.Detail, ret.Fields = parseErrorBody(body)
	return ret
}

func unexpected(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnexpectedResponse, fmt.Sprintf(format, args...))
}

// parseErrorBody reads {"detail": "...", "field": ["msg", ...], ...} keeping key order.
// The machine readable "code" entry is ignored.
func parseErrorBody(body []byte) (string, []FieldError) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	if token, err := decoder.Token(); err != nil || token != json.Delim('{') {
		return "", nil
	}
	var detail string
	var fields []FieldError
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		key, ok := token.(string)
		if !ok {
			break
		}
		var raw json.RawMessage
		if err = decoder.Decode(&raw); err != nil {
			break
		}
		if key == "code" {
			continue
		}
		messages := collectMessages(raw)
		if key == "detail" {
			if len(messages) > 0 {
				detail = messages[0]
			}
			continue
		}
		if len(messages) > 0 {
			fields = append(fields, FieldError{Field: key, Messages: messages})
		}
	}
	return detail, fields
}

// collectMessages flattens a string, a list or a nested object of messages.
func collectMessages(raw json.RawMessage) []string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return []string{text}
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		var ret []string
		for _, item := range list {
			ret = append(ret, collectMessages(item)...)
		}
		return ret
	}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err == nil {
		_, fields := parseErrorBody(raw)
		var ret []string
		for _, field := range fields {
			ret = append(ret, field.Messages...)
		}
		return ret
	}
	return nil
}
