// Package stage accumulates the files a Writer has been asked to include
// in an image, normalizing each path before it is handed to the planner.
package stage

import (
	"strings"
	"time"

	"github.com/bgrewell/isoimage/pkg/consts"
)

const maxComponentLength = 222

// File is one staged file: a normalized absolute path, borrowed content,
// and a UTC timestamp.
type File struct {
	Path    string
	Content []byte
	ModTime time.Time
}

// Stage holds the files appended so far in append order. Duplicate paths
// are accepted without deduplication; the planner treats each as a
// distinct record.
type Stage struct {
	Files []File
}

// New returns an empty Stage.
func New() *Stage {
	return &Stage{}
}

// Append normalizes path and records content (not copied — the caller
// must keep it alive until the owning Writer's Close completes) and
// modTime (converted to UTC).
func (s *Stage) Append(path string, content []byte, modTime time.Time) {
	s.Files = append(s.Files, File{
		Path:    normalizePath(path),
		Content: content,
		ModTime: modTime.UTC(),
	})
}

// normalizePath uppercases the path, filters every byte to the a-character
// set, splits on "/", truncates each component to 222 bytes, and rejoins
// with a leading slash.
func normalizePath(path string) string {
	upper := strings.ToUpper(path)
	filtered := filterToACharacters(upper)

	parts := strings.Split(filtered, "/")
	var kept []string
	for _, p := range parts {
		if p == "" {
			continue
		}
		if len(p) > maxComponentLength {
			p = p[:maxComponentLength]
		}
		kept = append(kept, p)
	}
	return "/" + strings.Join(kept, "/")
}

func filterToACharacters(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '/' || strings.ContainsRune(consts.A_CHARACTERS, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
