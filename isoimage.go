// Package isoimage builds and reads ISO 9660 (ECMA-119) CD-ROM filesystem
// images. Writer stages files and serializes them in one pass on Close;
// Open parses an existing image's volume descriptor and directory tree
// for lookup and extraction.
package isoimage

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bgrewell/isoimage/pkg/iso9660/descriptor"
	"github.com/bgrewell/isoimage/pkg/iso9660/info"
	"github.com/bgrewell/isoimage/pkg/iso9660/option"
	"github.com/bgrewell/isoimage/pkg/iso9660/planner"
	"github.com/bgrewell/isoimage/pkg/iso9660/reader"
	"github.com/bgrewell/isoimage/pkg/iso9660/writer"
)

// WriterOption and ReaderOption are re-exported from pkg/iso9660/option so
// callers never need to import it directly.
type (
	WriterOption = option.WriterOption
	ReaderOption = option.ReaderOption
)

var (
	WithSystemID         = option.WithSystemID
	WithVolumeID         = option.WithVolumeID
	WithVolumeSetID      = option.WithVolumeSetID
	WithPublisherID      = option.WithPublisherID
	WithPreparerID       = option.WithPreparerID
	WithApplicationID    = option.WithApplicationID
	WithCreationTime     = option.WithCreationTime
	WithWriterLogger     = option.WithWriterLogger
	WithProgress         = option.WithProgress
	WithStrictValidation = option.WithStrictValidation
	WithReaderLogger     = option.WithReaderLogger
)

// ErrorKind classifies an Error's cause.
type ErrorKind int

const (
	IoError ErrorKind = iota
	InvalidDate
	InvalidTimezone
	FileNotFound
	EntryCurrentDirectory
	EntryParentDirectory
	EntryDirectory
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidDate:
		return "InvalidDate"
	case InvalidTimezone:
		return "InvalidTimezone"
	case FileNotFound:
		return "FileNotFound"
	case EntryCurrentDirectory:
		return "EntryCurrentDirectory"
	case EntryParentDirectory:
		return "EntryParentDirectory"
	case EntryDirectory:
		return "EntryDirectory"
	default:
		return "IoError"
	}
}

// Error is the single tagged error type every public operation returns on
// failure. The underlying error is always reachable via errors.Unwrap.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("isoimage: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, reader.ErrFileNotFound):
		return &Error{Kind: FileNotFound, Err: err}
	case errors.Is(err, reader.ErrEntryIsDirectory):
		return &Error{Kind: EntryDirectory, Err: err}
	case errors.Is(err, reader.ErrEntryCurrentDirectory):
		return &Error{Kind: EntryCurrentDirectory, Err: err}
	case errors.Is(err, reader.ErrEntryParentDirectory):
		return &Error{Kind: EntryParentDirectory, Err: err}
	case strings.Contains(err.Error(), "out of range for Recording Date") || strings.Contains(err.Error(), "parse error"):
		return &Error{Kind: InvalidDate, Err: err}
	case strings.Contains(err.Error(), "out of ISO9660 bounds") || strings.Contains(err.Error(), "out of allowed range"):
		return &Error{Kind: InvalidTimezone, Err: err}
	default:
		return &Error{Kind: IoError, Err: err}
	}
}

// Writer accumulates staged files and serializes them into an ISO 9660
// image on Close.
type Writer struct {
	inner *writer.Writer
}

// NewWriter returns a Writer that will serialize into sink on Close.
func NewWriter(sink io.WriterAt, opts ...WriterOption) *Writer {
	return &Writer{inner: writer.NewWriter(sink, opts...)}
}

// AppendFile stages a file for inclusion. content is not copied; the
// caller must keep it alive until Close returns.
func (w *Writer) AppendFile(path string, content []byte, modTime time.Time) error {
	return classify(w.inner.AppendFile(path, content, modTime))
}

// Close resolves the final layout and writes the complete image to sink.
func (w *Writer) Close() error {
	return classify(w.inner.Close())
}

// Layout resolves and returns the current staged set's layout plan without
// writing anything.
func (w *Writer) Layout() (*planner.Plan, error) {
	plan, err := w.inner.Layout()
	return plan, classify(err)
}

// DebugLayout returns an introspectable view of the image written by the
// most recent Close. It is nil until Close has run.
func (w *Writer) DebugLayout() *info.ISOLayout {
	return w.inner.DebugLayout()
}

// Reader parses and exposes an ISO 9660 image's directory tree.
type Reader struct {
	inner *reader.Reader
}

// Open parses source's Primary Volume Descriptor and full directory tree.
func Open(source io.ReaderAt, opts ...ReaderOption) (*Reader, error) {
	r, err := reader.Open(source, opts...)
	if err != nil {
		return nil, classify(err)
	}
	return &Reader{inner: r}, nil
}

// Header returns the parsed Primary Volume Descriptor.
func (r *Reader) Header() descriptor.PrimaryVolumeDescriptor {
	return r.inner.PrimaryVolumeDescriptor()
}

// Entries returns every parsed entry, keyed by its absolute path.
func (r *Reader) Entries() map[string]*reader.Entry {
	entries := r.inner.Entries()
	out := make(map[string]*reader.Entry, len(entries))
	for i := range entries {
		e := entries[i]
		out[e.Path] = &e
	}
	return out
}

// ReadFile returns the full content of the file at path.
func (r *Reader) ReadFile(path string) ([]byte, error) {
	content, err := r.inner.ReadFile(path)
	return content, classify(err)
}

// ExtractAll writes every parsed entry under destDir.
func (r *Reader) ExtractAll(destDir string) error {
	return classify(r.inner.ExtractAll(destDir))
}

// Layout returns a flat (path, LBA, length) view of the parsed tree.
func (r *Reader) Layout() []reader.LayoutEntry {
	return r.inner.Layout()
}
