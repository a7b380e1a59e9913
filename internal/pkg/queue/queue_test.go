package queue

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindNone},
		{name: "name exists", err: ErrNameExists, want: KindNameExists},
		{name: "wrapped deleted recently", err: fmt.Errorf("create orders: %w", ErrDeletedRecently), want: KindDeletedRecently},
		{name: "wrapped not found", err: fmt.Errorf("%w: %w", ErrNotFound, errors.New("api error")), want: KindNotFound},
		{name: "other", err: errors.New("connection refused"), want: KindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "DeletedRecently", KindDeletedRecently.String())
	assert.Equal(t, "Unknown", Kind(42).String())
}
