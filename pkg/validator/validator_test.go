package validator

import (
	"errors"
	"testing"

	"web3-core/pkg/errno"

	"github.com/stretchr/testify/assert"
)

type options struct {
	Words    int    `validate:"oneof=12 15 18 21 24"`
	Index    int    `validate:"gte=0"`
	Language string `validate:"mnemonic_language"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      options
		wantErr bool
	}{
		{"valid", options{Words: 24, Index: 3, Language: "english"}, false},
		{"default language", options{Words: 12}, false},
		{"bad words", options{Words: 13}, true},
		{"negative index", options{Words: 12, Index: -1}, true},
		{"bad language", options{Words: 12, Language: "klingon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, errno.ErrInvalidParameter))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Struct(options{Words: 11, Index: -2})
	assert.Contains(t, err.Error(), "Words must be one of [12 15 18 21 24], got 11")
	assert.Contains(t, err.Error(), "Index must be >= 0, got -2")
}
