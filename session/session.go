package session

import (
	"golang.org/x/oauth2"
)

// Field identifies a single persisted session entry.
type Field string

const (
	FieldAccess  Field = "access"
	FieldRefresh Field = "refresh"
	FieldUser    Field = "user"
)

// Fields lists all persisted entries in storage order.
var Fields = []Field{FieldAccess, FieldRefresh, FieldUser}

// Session holds client credentials. An empty string means the entry is absent.
//
// Identity is client asserted and carries no binding to the tokens; it is
// for display only and must not be used for authorization decisions.
type Session struct {
	AccessToken  string `json:"access,omitempty"`
	RefreshToken string `json:"refresh,omitempty"`
	Identity     string `json:"user,omitempty"`
}

// IsAuthenticated reports whether an access token is present. It does not
// check that the token is unexpired or otherwise valid.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.AccessToken != ""
}

// CanRefresh reports whether a refresh token is present.
func (s *Session) CanRefresh() bool {
	return s != nil && s.RefreshToken != ""
}

// Token returns the access token as a bearer oauth2 token, or nil when absent.
func (s *Session) Token() *oauth2.Token {
	if !s.IsAuthenticated() {
		return nil
	}
	return &oauth2.Token{AccessToken: s.AccessToken, TokenType: "Bearer", RefreshToken: s.RefreshToken}
}

// Value returns the value of the given field.
func (s *Session) Value(field Field) string {
	if s == nil {
		return ""
	}
	switch field {
	case FieldAccess:
		return s.AccessToken
	case FieldRefresh:
		return s.RefreshToken
	case FieldUser:
		return s.Identity
	}
	return ""
}

func (s *Session) setValue(field Field, value string) {
	switch field {
	case FieldAccess:
		s.AccessToken = value
	case FieldRefresh:
		s.RefreshToken = value
	case FieldUser:
		s.Identity = value
	}
}

// merge writes the selected fields of src into dst; all fields when none are selected.
func merge(dst, src *Session, fields []Field) {
	if len(fields) == 0 {
		fields = Fields
	}
	for _, field := range fields {
		dst.setValue(field, src.Value(field))
	}
}
