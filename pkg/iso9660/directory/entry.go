package directory

import "time"

// EntryKind tags the four logical directory entry variants the planner
// works with before they are lowered into on-disk DirectoryRecords.
type EntryKind int

const (
	// EntryCurrentDirectory is the "." self-reference, always first in a group.
	EntryCurrentDirectory EntryKind = iota
	// EntryParentDirectory is the ".." back-reference, always second in a group.
	EntryParentDirectory
	// EntryDirectory names a child directory; its extent is resolved in Pass 2.
	EntryDirectory
	// EntryFile names a staged file; its content is chunked into file-extent sectors.
	EntryFile
)

// Entry is the logical, pre-layout form of a directory member. Name is
// unset for the two dot variants. Content and ModTime are only meaningful
// for EntryFile.
type Entry struct {
	Kind    EntryKind
	Name    string
	Content []byte
	ModTime time.Time
}

// Identifier returns the wire-format File Identifier for this entry: the
// single-byte dot forms, a bare directory name, or a file name with the
// mandatory ";1" version suffix.
func (e Entry) Identifier() string {
	switch e.Kind {
	case EntryCurrentDirectory:
		return "\x00"
	case EntryParentDirectory:
		return "\x01"
	case EntryFile:
		return e.Name + ";1"
	default:
		return e.Name
	}
}

// IsDirectory reports whether the entry's File Flags directory bit must be set.
func (e Entry) IsDirectory() bool {
	return e.Kind != EntryFile
}
