package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/filecsv"
)

// FileChannelCache stores one CSV artifact per cache key inside dir
type FileChannelCache struct {
	dir string
}

// NewFileChannelCache returns a cache rooted at dir. The directory is created on first commit.
func NewFileChannelCache(dir string) *FileChannelCache {
	return &FileChannelCache{dir: dir}
}

// Path returns the artifact location for key
func (c *FileChannelCache) Path(key string) string {
	return filepath.Join(c.dir, key+".csv")
}

// Lookup reads the artifact for key; a missing file is a miss, not an error
func (c *FileChannelCache) Lookup(ctx context.Context, key string) (model.VideoDataset, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	dataset, err := filecsv.ReadDatasetFile(c.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cached dataset %s: %w", key, err)
	}
	return dataset, true, nil
}

// Commit replaces the artifact for key with dataset
func (c *FileChannelCache) Commit(ctx context.Context, key string, dataset model.VideoDataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := filecsv.WriteDatasetFile(c.Path(key), dataset); err != nil {
		return fmt.Errorf("write cached dataset %s: %w", key, err)
	}
	return nil
}
