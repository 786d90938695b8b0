package staging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"shelf/internal/logging"
)

// PruneResult contains the outcome of an empty-directory sweep.
type PruneResult struct {
	Removed []string
	Errors  []PruneError
}

// PruneError pairs a directory path with its removal error.
type PruneError struct {
	Path  string
	Error error
}

// PruneEmptyDirs removes directories under root that hold no files, walking
// bottom-up so a directory whose children were just removed is itself
// removable. The root is left in place. Removal failures are tolerated and
// reported, not fatal.
func PruneEmptyDirs(root string, logger *slog.Logger) PruneResult {
	if logger == nil {
		logger = logging.NewNop()
	}
	result := PruneResult{}

	root = strings.TrimSpace(root)
	if root == "" {
		return result
	}

	pruneTree(root, root, logger, &result)
	return result
}

// pruneTree recurses into dir and removes it afterwards when emptied, unless
// it is the sweep root.
func pruneTree(dir, root string, logger *slog.Logger, result *PruneResult) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, PruneError{Path: dir, Error: err})
		}
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			pruneTree(filepath.Join(dir, entry.Name()), root, logger, result)
		}
	}

	if dir == root {
		return
	}

	remaining, err := os.ReadDir(dir)
	if err != nil || len(remaining) > 0 {
		return
	}
	if err := os.Remove(dir); err != nil {
		result.Errors = append(result.Errors, PruneError{Path: dir, Error: err})
		logger.Warn("failed to remove empty staging directory",
			logging.String("path", dir),
			logging.Error(err),
		)
		return
	}
	result.Removed = append(result.Removed, dir)
	logger.Info("removed empty staging directory", logging.String("path", dir))
}
