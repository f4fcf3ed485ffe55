// Package blob is the object-storage collaborator: uploads land on local
// disk under a per-user path and are served back through a public URL.
package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Store struct {
	dir       string
	publicURL string
}

func NewStore(dir, publicURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Store{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Dir returns the root directory uploads are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes a blob under <userID>/<uuid><ext> and returns its public URL.
// The extension is taken from the original filename.
func (s *Store) Save(userID, filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.New().String() + ext
	userDir := filepath.Join(s.dir, userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", fmt.Errorf("create user media dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(userDir, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, userID, name), nil
}
