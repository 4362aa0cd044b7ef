// Package reader parses an ISO 9660 image from random-access storage: the
// Primary Volume Descriptor, the directory tree reached through it, and
// lazy file content reads.
package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bgrewell/isoimage/pkg/consts"
	"github.com/bgrewell/isoimage/pkg/iso9660/descriptor"
	"github.com/bgrewell/isoimage/pkg/iso9660/directory"
	"github.com/bgrewell/isoimage/pkg/iso9660/extent"
	"github.com/bgrewell/isoimage/pkg/iso9660/option"
)

const pvdLBA = consts.ISO9660_SYSTEM_AREA_SECTORS

// ErrFileNotFound is returned by ReadFile when no entry matches the path.
var ErrFileNotFound = errors.New("file not found")

// ErrEntryIsDirectory is returned by ReadFile when the path names a directory.
var ErrEntryIsDirectory = errors.New("entry is a directory")

// ErrEntryCurrentDirectory is returned by ReadFile when asked for "."
var ErrEntryCurrentDirectory = errors.New("entry is the current directory")

// ErrEntryParentDirectory is returned by ReadFile when asked for ".."
var ErrEntryParentDirectory = errors.New("entry is the parent directory")

// Entry is one resolved directory member, keyed by its full path from the
// root ("/" for the root itself, "/SUB/FILE.TXT" otherwise).
type Entry struct {
	Path   string
	Record *directory.DirectoryRecord
}

// Header summarizes the Primary Volume Descriptor's identification fields.
type Header struct {
	SystemID         string
	VolumeID         string
	VolumeSetID      string
	PublisherID      string
	PreparerID       string
	ApplicationID    string
	CreationTime     time.Time
	ModificationTime time.Time
	TotalSectors     uint32
	LogicalBlockSize uint16
}

// LayoutEntry is one row of Reader.Layout's debug view of the parsed tree.
type LayoutEntry struct {
	Path        string
	LBA         uint32
	Length      uint32
	IsDirectory bool
}

// Reader holds the fully parsed directory tree of one image. Open does all
// the work; ReadFile still does a lazy read from source for content.
type Reader struct {
	source  io.ReaderAt
	opts    *option.ReaderOptions
	pvd     *descriptor.PrimaryVolumeDescriptor
	entries map[string]*Entry
	order   []string
}

// Open parses source's Primary Volume Descriptor and full directory tree,
// returning a Reader ready for lookups.
func Open(source io.ReaderAt, opts ...option.ReaderOption) (*Reader, error) {
	r := &Reader{
		source:  source,
		opts:    option.NewReaderOptions(opts...),
		entries: make(map[string]*Entry),
	}
	if err := r.readPrimaryVolumeDescriptor(); err != nil {
		return nil, err
	}
	if err := r.walk(); err != nil {
		return nil, err
	}
	return r, nil
}

// Header returns the parsed Primary Volume Descriptor's identification
// fields.
func (r *Reader) Header() Header {
	b := r.pvd.PrimaryVolumeDescriptorBody
	return Header{
		SystemID:         b.SystemIdentifier,
		VolumeID:         b.VolumeIdentifier,
		VolumeSetID:      b.VolumeSetIdentifier,
		PublisherID:      b.PublisherIdentifier,
		PreparerID:       b.DataPreparerIdentifier,
		ApplicationID:    b.ApplicationIdentifier,
		CreationTime:     b.VolumeCreationDateAndTime,
		ModificationTime: b.VolumeModificationDateAndTime,
		TotalSectors:     b.VolumeSpaceSize,
		LogicalBlockSize: b.LogicalBlockSize,
	}
}

// PrimaryVolumeDescriptor returns a copy of the parsed Primary Volume
// Descriptor in full, for callers that need more than Header's summary.
func (r *Reader) PrimaryVolumeDescriptor() descriptor.PrimaryVolumeDescriptor {
	return *r.pvd
}

// Entries returns every parsed entry (directories and files) in the order
// they were discovered: the root first, then depth-first, with each
// directory's contents listed right after the directory itself and before
// its next sibling.
func (r *Reader) Entries() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, p := range r.order {
		out = append(out, *r.entries[p])
	}
	return out
}

// Layout returns a flat (path, LBA, length) view of the parsed tree,
// useful for debugging or comparing against an independently computed
// plan.
func (r *Reader) Layout() []LayoutEntry {
	out := make([]LayoutEntry, 0, len(r.order))
	for _, p := range r.order {
		e := r.entries[p]
		out = append(out, LayoutEntry{
			Path:        p,
			LBA:         e.Record.LocationOfExtent,
			Length:      e.Record.DataLength,
			IsDirectory: e.Record.IsDirectory(),
		})
	}
	return out
}

// ReadFile returns the full content of the file at path. The returned
// slice is sized from the directory record's Data Length field, not the
// record length, so trailing sector padding is never included.
func (r *Reader) ReadFile(path string) ([]byte, error) {
	switch lastComponent(path) {
	case ".":
		return nil, fmt.Errorf("isoimage: %w: %s", ErrEntryCurrentDirectory, path)
	case "..":
		return nil, fmt.Errorf("isoimage: %w: %s", ErrEntryParentDirectory, path)
	}

	e, ok := r.entries[normalizePath(path)]
	if !ok {
		return nil, fmt.Errorf("isoimage: %w: %s", ErrFileNotFound, path)
	}
	if e.Record.IsDirectory() {
		return nil, fmt.Errorf("isoimage: %w: %s", ErrEntryIsDirectory, path)
	}
	if e.Record.DataLength == 0 {
		return []byte{}, nil
	}
	fe := extent.FileExtent{
		FileIdentifier: e.Record.FileIdentifier,
		LocationOfFile: e.Record.LocationOfExtent,
		SizeOfFile:     e.Record.DataLength,
		Reader:         r.source,
	}
	content, err := fe.Marshal()
	if err != nil {
		return nil, fmt.Errorf("isoimage: reading file %s: %w", path, err)
	}
	return content, nil
}

// ExtractAll writes every parsed entry under destDir, recreating the
// directory structure with the on-disk default permissions GetPermissions
// reports.
func (r *Reader) ExtractAll(destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("isoimage: creating destination %s: %w", destDir, err)
	}

	paths := make([]string, 0, len(r.entries))
	for p := range r.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		e := r.entries[p]
		target := filepath.Join(destDir, filepath.FromSlash(strings.TrimPrefix(p, "/")))

		if e.Record.IsDirectory() {
			if err := os.MkdirAll(target, e.Record.GetPermissions()); err != nil {
				return fmt.Errorf("isoimage: creating directory %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("isoimage: creating parent directory for %s: %w", target, err)
		}
		content, err := r.ReadFile(p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, content, e.Record.GetPermissions()); err != nil {
			return fmt.Errorf("isoimage: writing file %s: %w", target, err)
		}
	}
	return nil
}

func (r *Reader) readPrimaryVolumeDescriptor() error {
	var sector [consts.ISO9660_SECTOR_SIZE]byte
	if _, err := r.source.ReadAt(sector[:], int64(pvdLBA)*consts.ISO9660_SECTOR_SIZE); err != nil {
		return fmt.Errorf("isoimage: reading primary volume descriptor: %w", err)
	}

	vdType := descriptor.VolumeDescriptorType(sector[0])
	stdID := string(sector[1:6])
	if r.opts.StrictPrimaryVolumeDescriptor {
		if vdType != descriptor.TYPE_PRIMARY_DESCRIPTOR {
			return fmt.Errorf("isoimage: unexpected volume descriptor type 0x%02X at LBA %d", byte(vdType), pvdLBA)
		}
		if stdID != consts.ISO9660_STD_IDENTIFIER {
			return fmt.Errorf("isoimage: unexpected standard identifier %q", stdID)
		}
	}

	pvd := &descriptor.PrimaryVolumeDescriptor{
		VolumeDescriptorHeader: descriptor.VolumeDescriptorHeader{
			VolumeDescriptorType:    vdType,
			StandardIdentifier:      stdID,
			VolumeDescriptorVersion: sector[6],
		},
	}
	if err := pvd.PrimaryVolumeDescriptorBody.Unmarshal(sector[consts.ISO9660_VOLUME_DESC_HEADER_SIZE:]); err != nil {
		return fmt.Errorf("isoimage: unmarshal primary volume descriptor body: %w", err)
	}
	r.pvd = pvd
	return nil
}

// walk performs a recursive descent over the directory tree starting at
// the root, guarding against cycles (the root's ".." pointing to itself,
// or a corrupt image) with a visited-LBA set.
func (r *Reader) walk() error {
	root := r.pvd.RootDirectoryRecord
	r.addEntry("/", root)
	return r.walkDir(root.LocationOfExtent, root.DataLength, "/", map[uint32]bool{root.LocationOfExtent: true})
}

func (r *Reader) walkDir(lba, length uint32, dirPath string, visited map[uint32]bool) error {
	sectorCount := int((length + consts.ISO9660_SECTOR_SIZE - 1) / consts.ISO9660_SECTOR_SIZE)
	if sectorCount == 0 {
		return nil
	}
	data := make([]byte, sectorCount*consts.ISO9660_SECTOR_SIZE)
	if _, err := r.source.ReadAt(data, int64(lba)*consts.ISO9660_SECTOR_SIZE); err != nil {
		return fmt.Errorf("isoimage: reading directory extent at LBA %d: %w", lba, err)
	}

	for s := 0; s < sectorCount; s++ {
		sector := data[s*consts.ISO9660_SECTOR_SIZE : (s+1)*consts.ISO9660_SECTOR_SIZE]
		offset := 0
		for offset < len(sector) {
			recLen := int(sector[offset])
			if recLen == 0 {
				break
			}
			if offset+recLen > len(sector) {
				return fmt.Errorf("isoimage: directory record at LBA %d overruns sector boundary", lba)
			}

			rec := &directory.DirectoryRecord{}
			if err := rec.Unmarshal(sector[offset : offset+recLen]); err != nil {
				return fmt.Errorf("isoimage: unmarshal directory record at LBA %d: %w", lba, err)
			}
			offset += recLen

			if rec.IsSpecial() {
				continue
			}

			childPath := joinPath(dirPath, rec.GetBestName())
			r.addEntry(childPath, rec)

			if rec.IsDirectory() {
				if visited[rec.LocationOfExtent] {
					continue
				}
				visited[rec.LocationOfExtent] = true
				if err := r.walkDir(rec.LocationOfExtent, rec.DataLength, childPath, visited); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Reader) addEntry(path string, rec *directory.DirectoryRecord) {
	r.entries[path] = &Entry{Path: path, Record: rec}
	r.order = append(r.order, path)
}

func joinPath(dir, identifier string) string {
	name := stripVersion(identifier)
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

func stripVersion(identifier string) string {
	if i := strings.IndexByte(identifier, ';'); i >= 0 {
		return identifier[:i]
	}
	return identifier
}

func lastComponent(path string) string {
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

func normalizePath(path string) string {
	p := strings.ToUpper(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
