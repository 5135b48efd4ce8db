package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/hackathon/inventory-web/internal/errors"
	"github.com/stretchr/testify/assert"
)

type customErr struct{}

func (*customErr) Error() string { return "custom" }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "app error code", err: apperrors.InvalidCredentials(401), want: "invalid_credentials"},
		{name: "wrapped app error", err: fmt.Errorf("login: %w", apperrors.Unavailable(errors.New("dial"), "down")), want: "unavailable"},
		{name: "innermost type", err: fmt.Errorf("outer: %w", &customErr{}), want: "errors_customerr"},
		{name: "stdlib error", err: errors.New("boom"), want: "errors_errorstring"},
		{name: "context", err: context.Canceled, want: "errors_errorstring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
