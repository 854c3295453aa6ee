package mock

import (
	"encoding/json"
	"net/http"

	"github.com/viant/portal/api"
)

const fieldRequired = "This field is required."

// defaultTokenHandler handles /auth/token/ requests
func (s *Server) defaultTokenHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	var missing []api.FieldError
	if credentials.Username == "" {
		missing = append(missing, api.FieldError{Field: "username", Messages: []string{fieldRequired}})
	}
	if credentials.Password == "" {
		missing = append(missing, api.FieldError{Field: "password", Messages: []string{fieldRequired}})
	}
	if len(missing) > 0 {
		writeFieldErrors(w, missing)
		return
	}
	anAccount, ok := s.accounts.Get(credentials.Username)
	if !ok || anAccount.password != credentials.Password || !anAccount.user.IsActive {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
		return
	}
	access, refresh, err := s.IssueTokens(credentials.Username)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": access, "refresh": refresh})
}

// defaultRefreshHandler handles /auth/token/refresh/ requests
func (s *Server) defaultRefreshHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Refresh == "" {
		writeFieldErrors(w, []api.FieldError{{Field: "refresh", Messages: []string{fieldRequired}}})
		return
	}
	username, err := s.parseJWT(request.Refresh, tokenTypeRefresh)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}
	access, err := s.createJWT(username, tokenTypeAccess, s.AccessTTL)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": access})
}

// defaultRegisterHandler handles /auth/register/client/ requests
func (s *Server) defaultRegisterHandler(w http.ResponseWriter, r *http.Request) {
	registration := &api.Registration{}
	if err := json.NewDecoder(r.Body).Decode(registration); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
		return
	}
	var problems []api.FieldError
	if registration.Username == "" {
		problems = append(problems, api.FieldError{Field: "username", Messages: []string{fieldRequired}})
	} else if _, taken := s.accounts.Get(registration.Username); taken {
		problems = append(problems, api.FieldError{Field: "username", Messages: []string{"A user with that username already exists."}})
	}
	if len(registration.Password) < 8 {
		problems = append(problems, api.FieldError{Field: "password", Messages: []string{"This password is too short. It must contain at least 8 characters."}})
	}
	if len(problems) > 0 {
		writeFieldErrors(w, problems)
		return
	}
	user := s.AddAccount(registration.Username, registration.Password)
	user.Email = registration.Email
	user.FirstName = registration.FirstName
	user.LastName = registration.LastName
	access, refresh, err := s.IssueTokens(user.Username)
	if err != nil {
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, &api.RegistrationResult{User: user, Access: access, Refresh: refresh})
}
