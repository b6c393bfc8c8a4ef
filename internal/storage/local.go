package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/fypms/backend/internal/pkg/logger"
)

// Media subdirectories under the configured root.
const (
	BucketDocuments = "documents"
	BucketTemplates = "templates"
	BucketProposals = "proposals"
	BucketAvatars   = "avatars"
)

// MediaStore persists uploaded files on local disk. Stored names are
// generated, never caller-controlled, so a key can be trusted as a relative
// path under the root.
type MediaStore interface {
	Save(bucket, originalName string, r io.Reader) (string, error)
	Open(key string) (io.ReadCloser, error)
	Exists(key string) bool
	Remove(key string) error
	Path(key string) string
}

type localMediaStore struct {
	root string
	log  *logger.Logger
}

func NewLocalMediaStore(root string, baseLog *logger.Logger) (MediaStore, error) {
	storeLog := baseLog.With("service", "MediaStore")
	for _, bucket := range []string{BucketDocuments, BucketTemplates, BucketProposals, BucketAvatars} {
		if err := os.MkdirAll(filepath.Join(root, bucket), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media dir %s: %w", bucket, err)
		}
	}
	return &localMediaStore{root: root, log: storeLog}, nil
}

func (s *localMediaStore) Save(bucket, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	key := filepath.Join(bucket, uuid.New().String()+ext)

	f, err := os.Create(filepath.Join(s.root, key))
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	s.log.Debug("media file stored", "key", key)
	return key, nil
}

func (s *localMediaStore) Open(key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, key))
}

func (s *localMediaStore) Exists(key string) bool {
	_, err := os.Stat(filepath.Join(s.root, key))
	return err == nil
}

func (s *localMediaStore) Remove(key string) error {
	return os.Remove(filepath.Join(s.root, key))
}

func (s *localMediaStore) Path(key string) string {
	return filepath.Join(s.root, key)
}
