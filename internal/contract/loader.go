package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"web3-core/pkg/cache"
	"web3-core/pkg/errno"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// DefaultOutPath is where Foundry writes compiled artifacts.
	DefaultOutPath = "./out"
	SolidityExt    = "sol"
)

// Artifact is a compiler output file. Only abi is required.
type Artifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode Bytecode        `json:"bytecode"`
}

// Bytecode accepts both the Foundry shape {"object": "0x.."} and a bare hex string.
type Bytecode string

func (b *Bytecode) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*b = Bytecode(obj.Object)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = Bytecode(s)
	return nil
}

// Bin decodes the creation bytecode.
func (a *Artifact) Bin() ([]byte, error) {
	code := string(a.Bytecode)
	if code == "" {
		return nil, errno.ErrAbiShape.WithMessage("artifact has no bytecode")
	}
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	return hexutil.Decode(code)
}

// ArtifactPath returns {root}/{name}.sol/{name}.json.
func ArtifactPath(root, name string) string {
	return filepath.Join(root, name+"."+SolidityExt, name+".json")
}

// Loader reads artifacts from an output directory and caches them by path.
type Loader struct {
	root  string
	cache cache.Cache[*Artifact]
}

// NewLoader returns a loader rooted at root. Parsed artifacts stay cached
// for the life of the loader.
func NewLoader(root string) *Loader {
	if root == "" {
		root = DefaultOutPath
	}
	return &Loader{
		root:  root,
		cache: cache.NewMemoryCache[*Artifact](cache.NoExpiration, 0),
	}
}

func (l *Loader) Root() string { return l.root }

// Load returns the artifact for name. A missing or malformed file is
// ErrAbiLoad, a file without an abi key is ErrAbiShape.
func (l *Loader) Load(name string) (*Artifact, error) {
	path := ArtifactPath(l.root, name)
	if a, ok := l.cache.Get(path); ok {
		return a, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errno.ErrAbiLoad.WithMessage("the file %s does not exist", path)
		}
		return nil, errno.ErrAbiLoad.WithMessage("read %s", path).Wrap(err)
	}

	a, err := ParseArtifact(data)
	if err != nil {
		var e errno.Errno
		if errors.As(err, &e) {
			return nil, e.WithMessage("%s: %s", path, e.Message)
		}
		return nil, err
	}
	l.cache.Set(path, a, cache.NoExpiration)
	return a, nil
}

// ParseArtifact decodes an artifact and checks that it carries an abi.
func ParseArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errno.ErrAbiLoad.WithMessage("not a valid JSON file").Wrap(err)
	}
	if len(a.ABI) == 0 || bytes.Equal(a.ABI, []byte("null")) {
		return nil, errno.ErrAbiShape.WithMessage("ABI not found in the JSON file")
	}
	return &a, nil
}
