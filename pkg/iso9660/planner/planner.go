// Package planner implements the two-pass ISO 9660 layout algorithm: Pass 1
// walks the staged files into directory sector groups and file-extent
// chunks; Pass 2 resolves every cross-reference (self, parent, child
// directory, file extent) into an absolute logical block address once the
// full sector count is known.
package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/bgrewell/isoimage/pkg/consts"
	"github.com/bgrewell/isoimage/pkg/iso9660/directory"
	"github.com/bgrewell/isoimage/pkg/iso9660/stage"
)

// ChildRef is one (name, LBA) pair recorded against a parent group_no while
// resolving its Directory(name) records. The path-table builder consumes
// these grouped by parent.
type ChildRef struct {
	Name string
	LBA  uint32
}

// GroupInfo is the Pass-2 location summary for one directory group_no.
type GroupInfo struct {
	FirstSectorIndex int
	SectorCount      int
	Depth            int
	LBA              uint32
	DataLength       uint32
}

// DirSector is one fully resolved 2048-byte directory sector: its records
// are ready to Marshal.
type DirSector struct {
	GroupNo int
	Depth   int
	Records []*directory.DirectoryRecord
}

// Plan is the planner's complete output: everything the path-table builder
// and serializer need, with every LBA and length already resolved.
type Plan struct {
	DirSectors           []DirSector
	FileSectors          [][]byte
	Groups               []GroupInfo
	PathGroups           map[int][]ChildRef
	RootLBA              uint32
	RootDataLength        uint32
	DirectorySectorCount int
	FileSectorCount      int
}

// rawRecord is an intermediate Pass-1 record: the logical entry plus
// whatever Pass 1 could already compute (file content's position in the
// global file-sectors list).
type rawRecord struct {
	entry                      directory.Entry
	provisionalFileSectorIndex int
	sectorCount                int
	dataLength                 uint32
}

type rawSector struct {
	groupNo int
	depth   int
	records []*rawRecord
}

type builder struct {
	nextGroupNo int
	fileSectors [][]byte
}

// Plan runs both passes over files and returns the resolved layout. startLBA
// is the logical block address of the first directory sector (23 in the
// default configuration: 16 system-area + 1 PVD + 1 terminator + 1 reserved
// + 2 L-table + 2 M-table). creationTime stamps directory and dot-entry
// records; file records use each staged file's own ModTime.
func Plan(files []stage.File, startLBA uint32, creationTime time.Time) (*Plan, error) {
	b := &builder{}
	rawSectors := b.buildDir(files, "", 0)

	groups := buildGroups(rawSectors)
	for g := range groups {
		groups[g].LBA = startLBA + uint32(groups[g].FirstSectorIndex)
		groups[g].DataLength = uint32(groups[g].SectorCount) * consts.ISO9660_SECTOR_SIZE
	}

	dirSectorCount := len(rawSectors)
	pathGroups := make(map[int][]ChildRef)

	dirSectors := make([]DirSector, len(rawSectors))
	stack := make([]int, 0, 8)
	childCursor := make(map[int]int)

	for i, sec := range rawSectors {
		d := sec.depth
		if len(stack) > d {
			stack = stack[:d]
		}
		if len(stack) == d {
			stack = append(stack, sec.groupNo)
		}
		currentGroup := sec.groupNo
		parentGroup := currentGroup
		if d > 0 {
			parentGroup = stack[d-1]
		}

		resolved := make([]*directory.DirectoryRecord, 0, len(sec.records))
		for _, rec := range sec.records {
			dr := &directory.DirectoryRecord{
				FileFlags:            directory.FileFlags{Directory: rec.entry.IsDirectory()},
				VolumeSequenceNumber: 1,
				FileIdentifier:       rec.entry.Identifier(),
			}

			switch rec.entry.Kind {
			case directory.EntryCurrentDirectory:
				dr.LocationOfExtent = groups[currentGroup].LBA
				dr.DataLength = groups[currentGroup].DataLength
				dr.RecordingDateAndTime = creationTime
			case directory.EntryParentDirectory:
				dr.LocationOfExtent = groups[parentGroup].LBA
				dr.DataLength = groups[parentGroup].DataLength
				dr.RecordingDateAndTime = creationTime
			case directory.EntryDirectory:
				childGroup, err := resolveChild(groups, childCursor, currentGroup, d+1)
				if err != nil {
					return nil, fmt.Errorf("resolving child directory %q of group %d: %w", rec.entry.Name, currentGroup, err)
				}
				dr.LocationOfExtent = groups[childGroup].LBA
				dr.DataLength = groups[childGroup].DataLength
				dr.RecordingDateAndTime = creationTime
				pathGroups[currentGroup] = append(pathGroups[currentGroup], ChildRef{
					Name: rec.entry.Name,
					LBA:  groups[childGroup].LBA,
				})
			case directory.EntryFile:
				dr.LocationOfExtent = startLBA + uint32(dirSectorCount) + uint32(rec.provisionalFileSectorIndex)
				dr.DataLength = rec.dataLength
				dr.RecordingDateAndTime = rec.entry.ModTime
			}

			resolved = append(resolved, dr)
		}

		dirSectors[i] = DirSector{GroupNo: currentGroup, Depth: d, Records: resolved}
	}

	rootLBA := groups[0].LBA
	rootLen := groups[0].DataLength

	return &Plan{
		DirSectors:           dirSectors,
		FileSectors:          b.fileSectors,
		Groups:               groups,
		PathGroups:           pathGroups,
		RootLBA:              rootLBA,
		RootDataLength:       rootLen,
		DirectorySectorCount: dirSectorCount,
		FileSectorCount:      len(b.fileSectors),
	}, nil
}

// resolveChild implements the O(G*D) next-group-at-depth scan: starting
// just after the last group consumed on behalf of parentGroup (or
// parentGroup itself, the first time), find the next group whose depth
// matches targetDepth.
func resolveChild(groups []GroupInfo, cursor map[int]int, parentGroup, targetDepth int) (int, error) {
	start, ok := cursor[parentGroup]
	if !ok {
		start = parentGroup
	}
	for g := start + 1; g < len(groups); g++ {
		if groups[g].Depth == targetDepth {
			cursor[parentGroup] = g
			return g, nil
		}
	}
	return 0, fmt.Errorf("no unresolved group at depth %d after group %d", targetDepth, parentGroup)
}

// buildGroups derives the Groups index from the Pass-1 sector list: for
// each group_no, the first sector index that carries it, how many
// consecutive sectors it occupies, and its depth. Sectors of a single
// group are always contiguous by construction (Pass 1 only starts a new
// sector of a different group after finishing the current one), so a
// single linear scan suffices.
func buildGroups(sectors []*rawSector) []GroupInfo {
	var groups []GroupInfo
	for i, sec := range sectors {
		if sec.groupNo == len(groups) {
			groups = append(groups, GroupInfo{FirstSectorIndex: i, Depth: sec.depth})
		}
		groups[sec.groupNo].SectorCount++
	}
	return groups
}

// buildDir is Pass 1's recursive structure walk. It assigns group numbers
// in pre-order (the group_no for a directory is fixed the moment it is
// entered, before recursing into its children), satisfying the invariant
// that group_no equals pre-order DFS index by construction.
func (b *builder) buildDir(files []stage.File, basePath string, depth int) []*rawSector {
	groupNo := b.nextGroupNo
	b.nextGroupNo++

	// fileOccurrences keeps one entry per matching staged file, in append
	// order, rather than a name-keyed map — duplicate names at the same
	// level must each keep their own content rather than the last one
	// clobbering the rest.
	var fileOccurrences []struct {
		name string
		file *stage.File
	}
	var subdirNames []string
	seenSubdir := make(map[string]bool)

	for i := range files {
		f := &files[i]
		if !strings.HasPrefix(f.Path, basePath) {
			continue
		}
		rest := strings.TrimPrefix(f.Path, basePath)
		rest = strings.TrimPrefix(rest, "/")
		if rest == "" {
			continue
		}
		parts := strings.SplitN(rest, "/", 2)
		if len(parts) == 1 {
			name := parts[0]
			fileOccurrences = append(fileOccurrences, struct {
				name string
				file *stage.File
			}{name: name, file: f})
		} else {
			name := parts[0]
			if !seenSubdir[name] {
				seenSubdir[name] = true
				subdirNames = append(subdirNames, name)
			}
		}
	}

	records := []*rawRecord{
		{entry: directory.Entry{Kind: directory.EntryCurrentDirectory}},
		{entry: directory.Entry{Kind: directory.EntryParentDirectory}},
	}
	for _, occ := range fileOccurrences {
		records = append(records, b.newFileRecord(occ.name, occ.file))
	}
	for _, name := range subdirNames {
		records = append(records, &rawRecord{entry: directory.Entry{Kind: directory.EntryDirectory, Name: name}})
	}

	result := packIntoSectors(records, groupNo, depth)

	for _, name := range subdirNames {
		childBase := basePath + "/" + name
		result = append(result, b.buildDir(files, childBase, depth+1)...)
	}
	return result
}

// newFileRecord chunks the file's content into the global file-sectors
// list and records the starting index, which Pass 2 later shifts into an
// absolute LBA.
func (b *builder) newFileRecord(name string, f *stage.File) *rawRecord {
	rec := &rawRecord{
		entry:                      directory.Entry{Kind: directory.EntryFile, Name: name, Content: f.Content, ModTime: f.ModTime},
		provisionalFileSectorIndex: len(b.fileSectors),
		dataLength:                 uint32(len(f.Content)),
	}
	for off := 0; off < len(f.Content); off += consts.ISO9660_SECTOR_SIZE {
		end := off + consts.ISO9660_SECTOR_SIZE
		if end > len(f.Content) {
			end = len(f.Content)
		}
		b.fileSectors = append(b.fileSectors, f.Content[off:end])
	}
	rec.sectorCount = len(b.fileSectors) - rec.provisionalFileSectorIndex
	return rec
}

// packIntoSectors splits records into 2048-byte sectors, never letting a
// record straddle a sector boundary.
func packIntoSectors(records []*rawRecord, groupNo, depth int) []*rawSector {
	sectors := []*rawSector{{groupNo: groupNo, depth: depth}}
	used := 0
	for _, rec := range records {
		sz := recordSize(rec.entry.Identifier())
		cur := sectors[len(sectors)-1]
		if used > 0 && used+sz > consts.ISO9660_SECTOR_SIZE {
			sectors = append(sectors, &rawSector{groupNo: groupNo, depth: depth})
			cur = sectors[len(sectors)-1]
			used = 0
		}
		cur.records = append(cur.records, rec)
		used += sz
	}
	return sectors
}

// recordSize returns the on-disk size of a directory record with the given
// identifier: the 33-byte fixed header, the identifier bytes, and one pad
// byte when the identifier length is even.
func recordSize(identifier string) int {
	n := 33 + len(identifier)
	if len(identifier)%2 == 0 {
		n++
	}
	return n
}
