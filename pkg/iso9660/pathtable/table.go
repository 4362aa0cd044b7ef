package pathtable

import (
	"github.com/bgrewell/isoimage/pkg/iso9660/planner"
)

// Build constructs the L-table from a resolved layout plan by walking
// plan.PathGroups breadth-first: the root record first (identifier 0x00,
// parent 1), then each directory's children in the order the planner
// recorded them, level by level. BuildM then derives the M-table as a
// structural big-endian copy.
func Build(plan *planner.Plan) *PathTable {
	lbaToGroup := make(map[uint32]int, len(plan.Groups))
	for g, info := range plan.Groups {
		lbaToGroup[info.LBA] = g
	}

	table := &PathTable{littleEndian: true, source: "L"}
	table.Records = append(table.Records, &PathTableRecord{
		littleEndian:          true,
		DirectoryIdentifier:   "\x00",
		LocationOfExtent:      plan.RootLBA,
		ParentDirectoryNumber: 1,
	})

	type queued struct {
		groupNo     int
		tableIndex  uint16
	}
	queue := []queued{{groupNo: 0, tableIndex: 1}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		for _, child := range plan.PathGroups[item.groupNo] {
			rec := &PathTableRecord{
				littleEndian:          true,
				DirectoryIdentifier:   child.Name,
				LocationOfExtent:      child.LBA,
				ParentDirectoryNumber: item.tableIndex,
			}
			table.Records = append(table.Records, rec)
			childGroup, ok := lbaToGroup[child.LBA]
			if !ok {
				continue
			}
			queue = append(queue, queued{groupNo: childGroup, tableIndex: uint16(len(table.Records))})
		}
	}

	return table
}

// BuildM derives the big-endian path table from an already-built L-table.
// Only the Location of Extent and Parent Directory Number fields change
// representation; identifiers are copied verbatim.
func BuildM(l *PathTable) *PathTable {
	m := &PathTable{littleEndian: false, source: "M"}
	for _, r := range l.Records {
		m.Records = append(m.Records, &PathTableRecord{
			littleEndian:                  false,
			ExtendedAttributeRecordLength: r.ExtendedAttributeRecordLength,
			LocationOfExtent:              r.LocationOfExtent,
			ParentDirectoryNumber:         r.ParentDirectoryNumber,
			DirectoryIdentifier:           r.DirectoryIdentifier,
		})
	}
	return m
}
