// Package dedupe provides content-addressed duplicate detection for images
// already seen by the pipeline, backed by an on-disk key-value store.
package dedupe

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"git.mills.io/prologic/bitcask"
	log "github.com/sirupsen/logrus"
	"lukechampine.com/blake3"
)

// Store records the content hash of every result image already persisted,
// letting sink.DedupingSink skip re-persisting the same screenshot fetched
// under a different id. It wraps bitcask the way the teacher's
// internal/database package does, minus the gzip layer: dedupe keys are
// fixed-size hashes, not compressible payloads.
type Store struct {
	db *bitcask.Bitcask
}

// Open opens (or creates) a dedupe store rooted at path.
func Open(path string) (*Store, error) {
	db, err := bitcask.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dedupe: opening store at %s: %w", path, err)
	}
	log.WithField("path", path).Info("dedupe store opened")
	return &Store{db: db}, nil
}

// Close releases the store's file handles.
func (s *Store) Close() error {
	return s.db.Close()
}

// HashContent returns the hex-encoded BLAKE3 digest of encoded image bytes,
// the key Seen/Mark use. Exposed so callers can compute it once and reuse it
// across a Seen/Mark pair without hashing twice.
func HashContent(encoded []byte) string {
	sum := blake3.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}

// Seen reports whether content's hash has already been recorded.
func (s *Store) Seen(contentHash string) bool {
	return s.db.Has([]byte(contentHash))
}

// Mark records content's hash under the originating image id, so a later
// lookup can explain which id first produced this content.
func (s *Store) Mark(contentHash, imageID string) error {
	if err := s.db.Put([]byte(contentHash), []byte(imageID)); err != nil {
		return fmt.Errorf("dedupe: marking hash %s: %w", contentHash, err)
	}
	return nil
}

// FirstSeenBy returns the image id originally associated with contentHash,
// or "" if the hash is unrecorded.
func (s *Store) FirstSeenBy(contentHash string) string {
	value, err := s.db.Get([]byte(contentHash))
	if err != nil {
		return ""
	}
	return string(value)
}

// DefaultPath returns the conventional dedupe store location under baseDir.
func DefaultPath(baseDir string) string {
	return filepath.Join(baseDir, "dedupe.bitcask")
}
