package tsxreview

import (
	"log/slog"

	"github.com/arjunmahishi/tsxreview/cache"
	"github.com/arjunmahishi/tsxreview/config"
)

// Options configures the Check function.
type Options struct {
	// Path is the project root to scan.
	// If empty, current directory is used.
	Path string

	// Files limits the check to these files.
	// If set, Path is ignored.
	Files []string

	// Config supplies rule selection and settings.
	// If nil, config.Default() is used.
	Config *config.Config

	// Jobs is the number of parallel workers.
	// If 0, Config.Jobs or the number of CPUs is used.
	Jobs int

	// MaxBytes skips files larger than this size.
	// If 0, defaults to 2 MiB.
	MaxBytes int64

	// Cache reuses parsed units across calls. Pass the same cache to
	// repeated Check calls to skip parsing unchanged files.
	// If nil, a cache sized by Config.CacheSize lives for this call only.
	Cache *cache.Units

	// Logger receives per-file diagnostics.
	// If nil, logging is discarded.
	Logger *slog.Logger
}

// QueryOptions configures the Query function.
type QueryOptions struct {
	// Query is the tree-sitter query string to execute.
	Query string

	// Language selects the grammar: "tsx" or "typescript".
	// Defaults to "tsx".
	Language string

	// Path is the root directory to scan for files.
	// If empty, current directory is used.
	Path string

	// File is a single file to query.
	// If set, Path is ignored.
	File string

	// Jobs is the number of parallel workers.
	// If 0, defaults to number of CPUs.
	Jobs int

	// MaxBytes skips files larger than this size.
	// If 0, defaults to 2 MiB.
	MaxBytes int64
}
