package finder

import (
	"time"

	"github.com/jparise/busqueda/internal/category"
)

// Options contains the parameters of one search.
type Options struct {
	Term            string
	Category        category.Category
	Limit           int        // Maximum number of files copied
	ExcludePatterns []string   // Glob patterns for directory names to skip
	MinSize         int64      // Minimum file size in bytes (0 = no minimum)
	MaxSize         int64      // Maximum file size in bytes (0 = no maximum)
	ChangedAfter    *time.Time // Files changed after this time (nil = no filter)
	ChangedBefore   *time.Time // Files changed before this time (nil = no filter)
	Open            bool       // Show the output directory when done
}
