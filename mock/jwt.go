package mock

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// createJWT creates a signed token for username with the given type and expiry
func (s *Server) createJWT(username, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        username,
		"jti":        uuid.New().String(),
		"exp":        now.Add(expiry).Unix(),
		"iat":        now.Unix(),
		"token_type": tokenType,
		"gen":        s.generation.Load(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

// parseJWT verifies signature, expiry, type and generation and returns the subject
func (s *Server) parseJWT(raw, tokenType string) (string, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims")
	}
	if claims["token_type"] != tokenType {
		return "", fmt.Errorf("token has wrong type")
	}
	if id, _ := claims["jti"].(string); id != "" {
		if _, revoked := s.revoked.Get(id); revoked {
			return "", fmt.Errorf("token is blacklisted")
		}
	}
	if tokenType == tokenTypeAccess {
		gen, _ := claims["gen"].(float64)
		if int64(gen) < s.generation.Load() {
			return "", fmt.Errorf("token is expired")
		}
	}
	subject, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	return subject, nil
}

// revokeJWT blacklists a token by its id
func (s *Server) revokeJWT(raw string) error {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return err
	}
	claims := token.Claims.(jwt.MapClaims)
	id, _ := claims["jti"].(string)
	if id == "" {
		return fmt.Errorf("token has no id")
	}
	s.revoked.Put(id, true)
	return nil
}
