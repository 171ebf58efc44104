package services

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/conversate-labs/conversate/internal/core/domain"
)

// indexBuildTime returns the build timestamp of a domain's persisted
// index, taken from the docstore file's modification time. ok is false
// when no index exists.
func indexBuildTime(layout domain.Layout, dom string) (time.Time, bool) {
	info, err := os.Stat(layout.DocstorePath(dom))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// latestDocumentMod returns the newest modification time of any file
// under a domain's document directory, recursively. ok is false when
// the directory is missing or holds no files.
func latestDocumentMod(dir string) (time.Time, bool, error) {
	var latest time.Time
	var found bool

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
		found = true
		return nil
	})
	if err != nil {
		return time.Time{}, false, err
	}
	return latest, found, nil
}

// needsRebuild implements the freshness rule: an index must be rebuilt
// when it does not exist, or when any file in the domain's document
// directory was modified after the index was built. It never mutates
// anything.
func needsRebuild(layout domain.Layout, dom string) (bool, error) {
	builtAt, ok := indexBuildTime(layout, dom)
	if !ok {
		return true, nil
	}

	latest, found, err := latestDocumentMod(layout.DomainDir(dom))
	if err != nil {
		return false, err
	}
	if !found {
		// No documents at all. The existing index stays usable.
		return false, nil
	}
	return latest.After(builtAt), nil
}
