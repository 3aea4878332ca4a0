package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/afteryou/internal/cryptox"
	"github.com/dmitrijs2005/afteryou/internal/filex"
)

// ErrUnsealed is returned by sinks that refuse plaintext documents.
var ErrUnsealed = errors.New("refusing to upload an unsealed export; provide a passphrase")

// Sink stores an artifact and returns where it went.
type Sink interface {
	Write(ctx context.Context, a Artifact) (string, error)
}

// FileSink writes artifacts into a local directory with mode 0600.
type FileSink struct {
	Dir string
}

func (s FileSink) Write(ctx context.Context, a Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return filex.WriteFileAtomic(s.Dir, a.Name, a.Data)
}

// OpenFile reads a sealed export from path and writes the plaintext next to
// it, without the .sealed suffix. It returns the plaintext path.
func OpenFile(path string, passphrase []byte) (string, error) {
	sealed, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	plain, err := cryptox.Open(sealed, passphrase)
	if err != nil {
		return "", err
	}

	name := strings.TrimSuffix(filepath.Base(path), ".sealed")
	if name == filepath.Base(path) {
		name += ".opened"
	}
	return filex.WriteFileAtomic(filepath.Dir(path), name, plain)
}
