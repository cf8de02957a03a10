package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotConfigured", ErrNotConfigured},
		{"ErrMalformedMessage", ErrMalformedMessage},
		{"ErrTimestampOutOfRange", ErrTimestampOutOfRange},
		{"ErrDuplicateField", ErrDuplicateField},
		{"ErrUnknownField", ErrUnknownField},
		{"ErrFieldType", ErrFieldType},
		{"ErrFieldCardinality", ErrFieldCardinality},
		{"ErrFieldNotIndexed", ErrFieldNotIndexed},
		{"ErrSchemaMismatch", ErrSchemaMismatch},
		{"ErrIndexClosed", ErrIndexClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrTimestampOutOfRange_IsMalformed(t *testing.T) {
	assert.True(t, errors.Is(ErrTimestampOutOfRange, ErrMalformedMessage))
	assert.False(t, errors.Is(ErrMalformedMessage, ErrTimestampOutOfRange))
	assert.Equal(t, "malformed message: timestamp out of range", ErrTimestampOutOfRange.Error())
}
