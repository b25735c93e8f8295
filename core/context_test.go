package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, runIDFromContext(ctx))
	assert.Equal(t, "run-42", runIDFromContext(withRunID(ctx, "run-42")))
}

func TestSuppressProgressContext(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected bool
	}{
		{"default shows progress", context.Background(), false},
		{"suppressed", WithSuppressProgress(context.Background()), true},
		{"wrong value type", context.WithValue(context.Background(), suppressProgressKey, "yes"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shouldSuppressProgress(tt.ctx))
		})
	}
}
