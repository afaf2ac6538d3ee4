package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errThingNotFound = New(KindNotFound, "thing not found")

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errThingNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", errThingNotFound), http.StatusNotFound},
		{"invalid", Invalid("bad"), http.StatusBadRequest},
		{"conflict", New(KindConflict, "dup"), http.StatusConflict},
		{"unprocessable", New(KindUnprocessable, "short"), http.StatusUnprocessableEntity},
		{"forbidden", New(KindForbidden, "no"), http.StatusForbidden},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "thing not found", PublicMessage(errThingNotFound))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("mongo: connection refused")))
	assert.True(t, errors.Is(fmt.Errorf("x: %w", errThingNotFound), errThingNotFound))
}
