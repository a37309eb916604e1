package errno

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrnoIs(t *testing.T) {
	decorated := ErrInvalidParameter.WithMessage("derivation index %d is negative", -1)
	wrapped := fmt.Errorf("create wallet: %w", decorated)

	assert.True(t, errors.Is(wrapped, ErrInvalidParameter))
	assert.False(t, errors.Is(wrapped, ErrInvalidMnemonic))
	assert.Equal(t, "derivation index -1 is negative", decorated.Error())
}

func TestErrnoWrap(t *testing.T) {
	err := ErrBroadcastFailed.Wrap(io.ErrUnexpectedEOF)

	assert.True(t, errors.Is(err, ErrBroadcastFailed))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, "Transaction broadcast failed: unexpected EOF", err.Error())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"nil", nil, OK.Code},
		{"errno", ErrMissingSigner, ErrMissingSigner.Code},
		{"wrapped errno", fmt.Errorf("send: %w", ErrInvalidSigner), ErrInvalidSigner.Code},
		{"plain", errors.New("boom"), InternalServerError.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := Decode(tt.err)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
