// Package tracesource provides read-only access to Playwright trace members,
// whether the trace was saved as a directory or as a zip archive.
package tracesource

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ArchiveExt is the file extension recognized as a zipped trace.
const ArchiveExt = ".zip"

var (
	// ErrUnsupportedFormat is returned by Open when the path is neither a
	// directory nor a zip archive.
	ErrUnsupportedFormat = errors.New("unsupported trace format")

	// ErrMissingMember is returned when a requested member does not exist.
	ErrMissingMember = errors.New("missing trace member")
)

// MemberError records the member name a read failed on.
type MemberError struct {
	Member string
	Err    error
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("trace member %q: %v", e.Member, e.Err)
}

func (e *MemberError) Unwrap() error {
	return e.Err
}

func missing(name string) error {
	return &MemberError{Member: name, Err: ErrMissingMember}
}

// Kind identifies the backing of a Source.
type Kind string

const (
	KindDir Kind = "dir"
	KindZip Kind = "zip"
)

// Source is uniform access to the members of one trace. Member names are
// slash-separated and relative to the trace root, e.g. "resources/<sha1>".
type Source interface {
	// Kind reports which backing serves the source.
	Kind() Kind

	// Has reports whether the member exists. It never fails.
	Has(name string) bool

	// ReadBytes returns the whole member. A missing member yields an error
	// wrapping ErrMissingMember.
	ReadBytes(name string) ([]byte, error)

	// ReadText returns the whole member decoded as UTF-8.
	ReadText(name string) (string, error)

	// Lines iterates the member one line at a time with the line terminator
	// stripped. Each range over the returned sequence re-reads the member.
	Lines(name string) iter.Seq2[string, error]

	// Close releases any underlying handle. It is safe to call more than once.
	Close() error
}

// Open binds a Source to path: directories are read in place and files with
// the ArchiveExt extension are opened as zip archives.
func Open(p string) (Source, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, p, err)
	}

	if info.IsDir() {
		return newDirSource(p), nil
	}

	if info.Mode().IsRegular() && strings.EqualFold(filepath.Ext(p), ArchiveExt) {
		return openZipSource(p)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, p)
}

// validMember reports whether name is a clean, relative member path that
// cannot escape the trace root.
func validMember(name string) bool {
	if name == "" || strings.Contains(name, `\`) {
		return false
	}
	return fs.ValidPath(path.Clean(name)) && path.Clean(name) == name
}
