package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/scavenger/screenshot-scavenger/internal/raster"
)

// DiskSource enumerates a directory of image files at construction time and
// serves them in lexical filename order. It exists for testing and for
// offline re-processing of a previously harvested directory; it is not
// thread-safe, matching every other Source implementation.
type DiskSource struct {
	dir     string
	pending []string
	id      string
	content *raster.Raster
}

// NewDiskSource scans dir for image files and returns a Source positioned at
// the first one. It fails if dir contains no readable images.
func NewDiskSource(dir string) (*DiskSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("source: reading directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tiff":
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	ds := &DiskSource{dir: dir, pending: files}
	if err := ds.loadNext(); err != nil {
		return nil, err
	}
	return ds, nil
}

func (ds *DiskSource) loadNext() error {
	if len(ds.pending) == 0 {
		return ErrNoImageAvailable
	}
	name := ds.pending[0]
	path := filepath.Join(ds.dir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Warnf("disk source: failed to read %s, skipping", path)
		ds.pending = ds.pending[1:]
		return ds.loadNext()
	}

	r, err := raster.Decode(data)
	if err != nil {
		log.WithError(err).Warnf("disk source: failed to decode %s, skipping", path)
		ds.pending = ds.pending[1:]
		return ds.loadNext()
	}

	ds.pending = ds.pending[1:]
	ds.id = name
	ds.content = r
	return nil
}

func (ds *DiskSource) Next() error {
	return ds.loadNext()
}

func (ds *DiskSource) CurrentID() string { return ds.id }

func (ds *DiskSource) CurrentContent() *raster.Raster { return ds.content }

// Shutdown is a no-op for DiskSource: there is nothing to release beyond
// what the Go runtime already owns.
func (ds *DiskSource) Shutdown() {}
