package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	var testCases = []struct {
		description string
		status      int
		body        string
		expectIs    error
		expectMsg   string
		fields      []FieldError
	}{
		{
			description: "field order preserved",
			status:      http.StatusBadRequest,
			body:        `{"phone":["Enter a valid phone number."],"email":["Enter a valid email address.","Too long."]}`,
			expectIs:    ErrValidation,
			expectMsg:   "Enter a valid phone number.",
			fields: []FieldError{
				{Field: "phone", Messages: []string{"Enter a valid phone number."}},
				{Field: "email", Messages: []string{"Enter a valid email address.", "Too long."}},
			},
		},
		{
			description: "non field errors",
			status:      http.StatusBadRequest,
			body:        `{"non_field_errors":["Passwords do not match."]}`,
			expectIs:    ErrValidation,
			expectMsg:   "Passwords do not match.",
			fields:      []FieldError{{Field: "non_field_errors", Messages: []string{"Passwords do not match."}}},
		},
		{
			description: "nested serializer",
			status:      http.StatusBadRequest,
			body:        `{"address":{"city":["This field is required."]}}`,
			expectIs:    ErrValidation,
			expectMsg:   "This field is required.",
			fields:      []FieldError{{Field: "address", Messages: []string{"This field is required."}}},
		},
		{
			description: "detail only",
			status:      http.StatusUnauthorized,
			body:        `{"detail":"Given token not valid for any token type","code":"token_not_valid"}`,
			expectIs:    ErrUnauthorized,
			expectMsg:   "Given token not valid for any token type",
		},
		{
			description: "not json",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			expectIs:    ErrServer,
			expectMsg:   "fallback",
		},
		{
			description: "not found",
			status:      http.StatusNotFound,
			body:        `{"detail":"Not found."}`,
			expectIs:    ErrNotFound,
			expectMsg:   "Not found.",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual := newError(testCase.status, []byte(testCase.body))
			assert.True(t, errors.Is(actual, testCase.expectIs))
			assert.Equal(t, testCase.fields, actual.Fields)
			assert.Equal(t, testCase.expectMsg, actual.Message("fallback"))
			assert.NotEmpty(t, actual.Error())
		})
	}
}

func TestUserMessage(t *testing.T) {
	validation := newError(http.StatusBadRequest, []byte(`{"title":["Ensure this field has no more than 80 characters."]}`))
	assert.Equal(t, "Ensure this field has no more than 80 characters.", UserMessage(validation, "Failed to save task"))
	assert.Equal(t, "Failed to save task", UserMessage(newError(http.StatusInternalServerError, nil), "Failed to save task"))
	assert.Equal(t, "Failed to save task", UserMessage(errors.New("connection refused"), "Failed to save task"))
	assert.Equal(t, "Failed to save task", UserMessage(newError(http.StatusBadRequest, []byte(`{}`)), "Failed to save task"))
}
