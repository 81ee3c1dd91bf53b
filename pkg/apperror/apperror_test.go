package apperror

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("experience", "x"), http.StatusNotFound},
		{"validation", NewValidation([]FieldError{{Param: "status", Msg: "Status is required"}}), http.StatusBadRequest},
		{"conflict", NewStaleWrite("profile", "u1"), http.StatusConflict},
		{"unauthorized", NewUnauthorized("bad token", nil), http.StatusUnauthorized},
		{"permission", NewPermissionDenied("not owner"), http.StatusForbidden},
		{"internal", NewInternal("mongo down", fmt.Errorf("boom")), http.StatusInternalServerError},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"override", NewNotFound("profile", "u1").WithStatus(http.StatusBadRequest), http.StatusBadRequest},
		{"wrapped override", fmt.Errorf("get: %w", NewNotFound("profile", "u1").WithStatus(http.StatusBadRequest)), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToHTTPStatus(tc.err))
		})
	}
}

func TestToJSON_HidesDetails(t *testing.T) {
	body := NewInternal("failed to query profile", fmt.Errorf("connection refused")).ToJSON()

	assert.Equal(t, "internal server error", body["error"])
	assert.Equal(t, "An internal server error occurred", body["message"])
	assert.NotContains(t, body, "errors")
	assert.Len(t, body, 2)
}

func TestToJSON_ListsEveryField(t *testing.T) {
	fields := []FieldError{
		{Param: "status", Msg: "Status is required"},
		{Param: "skills", Msg: "Skills is required"},
	}
	body := NewValidation(fields).ToJSON()

	assert.Equal(t, fields, body["errors"])
}
