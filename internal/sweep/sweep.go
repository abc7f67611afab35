// Package sweep removes what earlier runs left behind: old daily logs
// and player sockets or half-written files in the temp directory.
package sweep

import (
	"os"
	"path/filepath"
	"time"

	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/log"
	"github.com/quietstream/quietstream/where"
	"github.com/spf13/afero"
)

const (
	LogTTL  = 30 * 24 * time.Hour
	TempTTL = 24 * time.Hour
)

var now = time.Now

// Dir deletes regular files and sockets under dir not modified within ttl.
// It returns how many were removed. A missing dir is not an error.
func Dir(dir string, ttl time.Duration) (int, error) {
	fs := filesystem.API()
	if exists, err := fs.DirExists(dir); err != nil || !exists {
		return 0, err
	}

	var removed int
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// vanished while walking
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if now().Sub(info.ModTime()) <= ttl {
			return nil
		}
		if err := fs.Remove(path); err != nil {
			log.Warnf("sweep %s: %v", path, err)
			return nil
		}
		removed++
		return nil
	})
	return removed, err
}

// CollectGarbage prunes the logs and temp directories in the background.
func CollectGarbage() {
	go func() {
		for dir, ttl := range map[string]time.Duration{
			where.Logs(): LogTTL,
			where.Temp(): TempTTL,
		} {
			n, err := Dir(dir, ttl)
			if err != nil {
				log.Warnf("sweep %s: %v", filepath.Base(dir), err)
				continue
			}
			if n > 0 {
				log.Debugf("swept %d stale files from %s", n, dir)
			}
		}
	}()
}
