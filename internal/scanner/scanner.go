// Package scanner enumerates candidate video files under a zone directory.
package scanner

import (
	"io/fs"
	"log/slog"
	"path/filepath"

	"shelf/internal/logging"
)

// Scan walks root depth-first in lexical order and returns the absolute
// paths of regular files whose extension appears in extensions. The match is
// case-sensitive. Unreadable subtrees contribute zero files rather than an
// error, so a permission problem in one corner of the tree never aborts a
// run. Each accepted path is recorded to the structured log.
func Scan(root string, extensions []string, logger *slog.Logger) []string {
	if logger == nil {
		logger = logging.NewNop()
	}
	accepted := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		accepted[ext] = struct{}{}
	}

	var paths []string
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		if _, ok := accepted[filepath.Ext(path)]; !ok {
			return nil
		}
		absolute, absErr := filepath.Abs(path)
		if absErr != nil {
			absolute = path
		}
		paths = append(paths, absolute)
		logger.Info("discovered file",
			logging.String("path", absolute),
			logging.String(logging.FieldComponent, "scanner"),
		)
		return nil
	})
	return paths
}
