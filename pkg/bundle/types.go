// File: pkg/bundle/types.go
package bundle

import (
	"fmt"
	"path/filepath"
	"time"
)

// Default values for Arguments fields left empty.
const (
	DefaultBundleName = "file_bundle"
	DefaultSrcDir     = "."
	DefaultOutDir     = "."
	DefaultDstExt     = ".txt"
	DefaultGlob       = "**"
)

// Arguments holds the configuration options for a bundle run.
type Arguments struct {
	BundleName         string   // Output file base name.
	SrcDir             string   // Directory to scan.
	OutDir             string   // Directory the bundle is written to.
	DstExt             string   // Output file extension, including the dot.
	Separator          string   // Record separator; literal `\n` escapes become newlines.
	Globs              []string // Ordered include/exclude patterns ('!' prefix excludes).
	Verbose            bool     // Log every processed file.
	Jobs               int      // Worker count; 0 means one per CPU.
	Sequential         bool     // Process files one at a time in traversal order.
	RespectIgnoreFiles bool     // Honor .gitignore files during traversal.
	SkipHidden         bool     // Skip dot-files and dot-directories.
	SkipInvalidGlobs   bool     // Drop malformed patterns with a warning instead of failing.
	MaxFileSizeKB      int      // Skip files larger than this; 0 means no limit.
}

// Normalize fills in defaults for empty fields.
func (a *Arguments) Normalize() {
	if a.BundleName == "" {
		a.BundleName = DefaultBundleName
	}
	if a.SrcDir == "" {
		a.SrcDir = DefaultSrcDir
	}
	if a.OutDir == "" {
		a.OutDir = DefaultOutDir
	}
	if a.DstExt == "" {
		a.DstExt = DefaultDstExt
	}
	if len(a.Globs) == 0 {
		a.Globs = []string{DefaultGlob}
	}
	if a.Sequential {
		a.Jobs = 1
	}
}

// OutputPath returns <OutDir>/<BundleName><DstExt>.
func (a *Arguments) OutputPath() string {
	return filepath.Join(a.OutDir, a.BundleName+a.DstExt)
}

// SelectedFile is a file chosen for the bundle.
type SelectedFile struct {
	AbsolutePath string
	RelativePath string // Slash-separated, relative to the source root.
}

// Record is one file's entry in the bundle.
type Record struct {
	Separator    string
	RelativePath string
	Content      string // Empty when the file is not valid UTF-8.
}

// Bytes renders the record as "<separator> <path>\n<content>\n".
func (r Record) Bytes() []byte {
	b := make([]byte, 0, len(r.Separator)+len(r.RelativePath)+len(r.Content)+3)
	b = append(b, r.Separator...)
	b = append(b, ' ')
	b = append(b, r.RelativePath...)
	b = append(b, '\n')
	b = append(b, r.Content...)
	b = append(b, '\n')
	return b
}

// Result summarizes a finished run.
type Result struct {
	OutputPath string
	Files      int
	Elapsed    time.Duration
}

// FileError is a recoverable failure on a single input file. The file is
// left out of the bundle and the run continues.
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
