package contract

import (
	"path/filepath"
	"testing"

	"web3-core/pkg/errno"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "Token.sol", "Token.json"), ArtifactPath("out", "Token"))
}

func TestLoader(t *testing.T) {
	loader := NewLoader("testdata")

	a, err := loader.Load("Token")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ABI)

	again, err := loader.Load("Token")
	require.NoError(t, err)
	assert.Same(t, a, again)

	tests := []struct {
		name    string
		want    error
		message string
	}{
		{"Missing", errno.ErrAbiLoad, "does not exist"},
		{"Broken", errno.ErrAbiLoad, "not a valid JSON file"},
		{"NoAbi", errno.ErrAbiShape, "ABI not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load(tt.name)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestArtifactBytecode(t *testing.T) {
	a, err := ParseArtifact([]byte(`{"abi": [], "bytecode": "6080"}`))
	require.NoError(t, err)
	bin, err := a.Bin()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80}, bin)

	a, err = ParseArtifact([]byte(`{"abi": [], "bytecode": {"object": "0x6080"}}`))
	require.NoError(t, err)
	bin, err = a.Bin()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80}, bin)

	_, err = ParseArtifact([]byte(`{"abi": null}`))
	assert.ErrorIs(t, err, errno.ErrAbiShape)
}
