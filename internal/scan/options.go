package scan

import (
	"regexp"

	"github.com/michaelscutari/catifs/internal/db"
)

// ScanOptions configures the scanning behavior.
type ScanOptions struct {
	// Xdev skips directories that live on a different device than the
	// scan root. Inodes are only unique per device.
	Xdev bool

	// ExcludePatterns are regular expressions matched against real paths.
	// A matching entry is not recorded, and a matching directory is not
	// descended into.
	ExcludePatterns []*regexp.Regexp

	// CheckpointEvery is the number of insertions between commits.
	CheckpointEvery int

	// Replace overwrites previously cataloged rows instead of failing.
	Replace bool
}

// DefaultOptions returns the options that catalog every reachable entry.
func DefaultOptions() *ScanOptions {
	return &ScanOptions{
		CheckpointEvery: db.DefaultCheckpointEvery,
	}
}

// WithXdev sets cross-device behavior.
func (o *ScanOptions) WithXdev(xdev bool) *ScanOptions {
	o.Xdev = xdev
	return o
}

// WithCheckpointEvery sets the checkpoint interval.
func (o *ScanOptions) WithCheckpointEvery(n int) *ScanOptions {
	o.CheckpointEvery = n
	return o
}

// WithReplace enables replace mode.
func (o *ScanOptions) WithReplace(replace bool) *ScanOptions {
	o.Replace = replace
	return o
}

// AddExcludePattern adds a pattern to exclude.
func (o *ScanOptions) AddExcludePattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	o.ExcludePatterns = append(o.ExcludePatterns, re)
	return nil
}

// ShouldExclude checks if a path matches any exclude pattern.
func (o *ScanOptions) ShouldExclude(path string) bool {
	for _, re := range o.ExcludePatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
