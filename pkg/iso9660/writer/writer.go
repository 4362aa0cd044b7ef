// Package writer serializes a staged file set into an ISO 9660 image,
// following the fixed on-disk write order: system area, volume descriptors,
// path tables, directory sectors, then file extents.
package writer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bgrewell/isoimage/pkg/consts"
	"github.com/bgrewell/isoimage/pkg/iso9660/charset"
	"github.com/bgrewell/isoimage/pkg/iso9660/descriptor"
	"github.com/bgrewell/isoimage/pkg/iso9660/directory"
	"github.com/bgrewell/isoimage/pkg/iso9660/info"
	"github.com/bgrewell/isoimage/pkg/iso9660/option"
	"github.com/bgrewell/isoimage/pkg/iso9660/pathtable"
	"github.com/bgrewell/isoimage/pkg/iso9660/planner"
	"github.com/bgrewell/isoimage/pkg/iso9660/stage"
	"github.com/bgrewell/isoimage/pkg/iso9660/systemarea"
)

const (
	pvdLBA             = consts.ISO9660_SYSTEM_AREA_SECTORS
	terminatorLBA      = pvdLBA + 1
	reservedLBA        = terminatorLBA + 1
	pathTableStartLBA  = reservedLBA + 1
	defaultDirStartLBA = pathTableStartLBA + 4 // the canonical S=23 guess used only to size the path table
)

// Writer accumulates staged files and serializes them into an image on
// Close. It is not safe for concurrent use.
type Writer struct {
	sink   io.WriterAt
	opts   *option.WriterOptions
	stage  *stage.Stage
	layout *layout
}

// layout caches everything ensureLayout derives: the resolved plan, both
// path tables, and their byte forms, so Layout and Close never do the
// two-pass size computation more than once.
type layout struct {
	plan           *planner.Plan
	lTable         *pathtable.PathTable
	mTable         *pathtable.PathTable
	pathTableBytes []byte
	ptSectors      int
	lLBA           uint32
	mLBA           uint32
	totalSectors   uint32
	debug          *info.ISOLayout
}

// NewWriter returns a Writer that will serialize into sink on Close.
func NewWriter(sink io.WriterAt, opts ...option.WriterOption) *Writer {
	return &Writer{
		sink:  sink,
		opts:  option.NewWriterOptions(opts...),
		stage: stage.New(),
	}
}

// AppendFile stages a file for inclusion. content is not copied; the
// caller must keep it alive until Close returns.
func (w *Writer) AppendFile(path string, content []byte, modTime time.Time) error {
	if path == "" {
		return fmt.Errorf("isoimage: empty file path")
	}
	w.stage.Append(path, content, modTime)
	return nil
}

// Layout resolves and returns the current staged set's layout plan without
// writing anything. Useful for inspecting the computed directory tree and
// LBAs before committing to Close.
func (w *Writer) Layout() (*planner.Plan, error) {
	l, err := w.ensureLayout()
	if err != nil {
		return nil, err
	}
	return l.plan, nil
}

// Close resolves the final layout and writes the complete image to sink.
// It does not close sink.
func (w *Writer) Close() error {
	l, err := w.ensureLayout()
	if err != nil {
		return err
	}

	done := 0
	tick := func() {
		done++
		if w.opts.Progress != nil {
			w.opts.Progress(done, int(l.totalSectors))
		}
	}

	sa := systemarea.SystemArea{}
	if err := w.writeExtent(0, consts.ISO9660_SYSTEM_AREA_SECTORS, sa.Contents[:], tick); err != nil {
		return fmt.Errorf("isoimage: writing system area: %w", err)
	}

	set := descriptor.VolumeDescriptorSet{
		Primary:    w.buildPVD(l),
		Terminator: descriptor.NewVolumeDescriptorSetTerminator(),
	}
	descriptors := []struct {
		lba uint32
		vd  descriptor.VolumeDescriptor
	}{
		{pvdLBA, set.Primary},
		{terminatorLBA, set.Terminator},
	}
	for _, d := range descriptors {
		data, err := d.vd.Marshal()
		if err != nil {
			return fmt.Errorf("isoimage: marshal %s: %w", d.vd.Type(), err)
		}
		if err := w.writeSector(d.lba, data[:]); err != nil {
			return fmt.Errorf("isoimage: writing %s: %w", d.vd.Type(), err)
		}
		tick()
	}

	if err := w.writeSector(reservedLBA, nil); err != nil {
		return fmt.Errorf("isoimage: writing reserved sector: %w", err)
	}
	tick()

	lBytes, err := l.lTable.Marshal()
	if err != nil {
		return fmt.Errorf("isoimage: marshal L path table: %w", err)
	}
	if err := w.writeExtent(l.lLBA, l.ptSectors, lBytes, tick); err != nil {
		return fmt.Errorf("isoimage: writing L path table: %w", err)
	}

	mBytes, err := l.mTable.Marshal()
	if err != nil {
		return fmt.Errorf("isoimage: marshal M path table: %w", err)
	}
	if err := w.writeExtent(l.mLBA, l.ptSectors, mBytes, tick); err != nil {
		return fmt.Errorf("isoimage: writing M path table: %w", err)
	}

	dirStartLBA := l.plan.RootLBA
	for i, sec := range l.plan.DirSectors {
		var buf []byte
		for _, rec := range sec.Records {
			b, err := rec.Marshal()
			if err != nil {
				return fmt.Errorf("isoimage: marshal directory record in sector %d: %w", i, err)
			}
			buf = append(buf, b...)
		}
		if err := w.writeExtent(dirStartLBA+uint32(i), 1, buf, tick); err != nil {
			return fmt.Errorf("isoimage: writing directory sector %d: %w", i, err)
		}
	}

	fileStartLBA := dirStartLBA + uint32(l.plan.DirectorySectorCount)
	for i, chunk := range l.plan.FileSectors {
		if err := w.writeExtent(fileStartLBA+uint32(i), 1, chunk, tick); err != nil {
			return fmt.Errorf("isoimage: writing file sector %d: %w", i, err)
		}
	}

	l.debug = w.buildDebugLayout(l)

	w.opts.Logger.Info("wrote image", "totalSectors", l.totalSectors, "directories", len(l.plan.Groups), "files", l.plan.FileSectorCount)
	return nil
}

// DebugLayout returns an introspectable view of the image written by the
// most recent Close, suitable for Print or PrettyJSON. It is nil until
// Close has run.
func (w *Writer) DebugLayout() *info.ISOLayout {
	if w.layout == nil {
		return nil
	}
	return w.layout.debug
}

func (w *Writer) buildDebugLayout(l *layout) *info.ISOLayout {
	out := info.NewISOLayout()
	out.SystemAreaOffset = 0
	out.SystemAreaLength = consts.ISO9660_SYSTEM_AREA_SECTORS * consts.ISO9660_SECTOR_SIZE

	out.AddVolumeDescriptor("Primary Volume Descriptor", int(consts.ISO9660_VOLUME_DESC_VERSION), int(pvdLBA)*consts.ISO9660_SECTOR_SIZE, consts.ISO9660_SECTOR_SIZE)
	out.AddVolumeDescriptor("Volume Descriptor Set Terminator", 1, int(terminatorLBA)*consts.ISO9660_SECTOR_SIZE, consts.ISO9660_SECTOR_SIZE)

	out.AddPathTable("L", int(l.lLBA)*consts.ISO9660_SECTOR_SIZE, len(l.pathTableBytes), "Little Endian")
	out.AddPathTable("M", int(l.mLBA)*consts.ISO9660_SECTOR_SIZE, len(l.pathTableBytes), "Big Endian")

	dirStartLBA := l.plan.RootLBA
	for i, sec := range l.plan.DirSectors {
		extentOffset := int(dirStartLBA+uint32(i)) * consts.ISO9660_SECTOR_SIZE
		recOffset := extentOffset
		for _, rec := range sec.Records {
			out.AddDirectoryRecord(rec.GetBestName(), fmt.Sprintf("directory sector %d", i), recOffset, int(rec.LocationOfExtent), int(rec.DataLength), rec.IsDirectory())
			recOffset += int(rec.LengthOfDirectoryRecord)
		}
	}

	for g, grp := range l.plan.Groups {
		out.AddDirectoryExtent(fmt.Sprintf("directory group %d", g), int(grp.LBA)*consts.ISO9660_SECTOR_SIZE, int(grp.DataLength))
	}

	return out
}

// ensureLayout runs the two-pass size computation once: a provisional plan
// at the canonical S=23 start LBA sizes the path table (its byte length
// depends only on directory count and name lengths, never on the LBA
// values it stores), then the real plan is built at the LBA the path
// table's actual sector count implies.
func (w *Writer) ensureLayout() (*layout, error) {
	if w.layout != nil {
		return w.layout, nil
	}

	provisional, err := planner.Plan(w.stage.Files, defaultDirStartLBA, w.opts.CreationTime)
	if err != nil {
		return nil, fmt.Errorf("isoimage: provisional layout: %w", err)
	}
	provisionalL := pathtable.Build(provisional)
	provisionalBytes, err := provisionalL.Marshal()
	if err != nil {
		return nil, fmt.Errorf("isoimage: marshal provisional path table: %w", err)
	}
	ptSectors := ceilSectors(len(provisionalBytes))
	if ptSectors < 2 {
		ptSectors = 2
	}
	dirStartLBA := pathTableStartLBA + 2*uint32(ptSectors)

	plan, err := planner.Plan(w.stage.Files, dirStartLBA, w.opts.CreationTime)
	if err != nil {
		return nil, fmt.Errorf("isoimage: layout: %w", err)
	}

	lTable := pathtable.Build(plan)
	mTable := pathtable.BuildM(lTable)
	lBytes, err := lTable.Marshal()
	if err != nil {
		return nil, fmt.Errorf("isoimage: marshal L path table: %w", err)
	}

	lLBA := pathTableStartLBA
	mLBA := pathTableStartLBA + uint32(ptSectors)
	totalSectors := uint32(consts.ISO9660_SYSTEM_AREA_SECTORS) + 1 + 1 + 1 +
		2*uint32(ptSectors) + uint32(plan.DirectorySectorCount) + uint32(plan.FileSectorCount)

	w.layout = &layout{
		plan:           plan,
		lTable:         lTable,
		mTable:         mTable,
		pathTableBytes: lBytes,
		ptSectors:      ptSectors,
		lLBA:           lLBA,
		mLBA:           mLBA,
		totalSectors:   totalSectors,
	}
	return w.layout, nil
}

func (w *Writer) buildPVD(l *layout) *descriptor.PrimaryVolumeDescriptor {
	root := &directory.DirectoryRecord{
		FileFlags:            directory.FileFlags{Directory: true},
		LocationOfExtent:     l.plan.RootLBA,
		DataLength:           l.plan.RootDataLength,
		RecordingDateAndTime: w.opts.CreationTime,
		VolumeSequenceNumber: 1,
		FileIdentifier:       "\x00",
	}

	return &descriptor.PrimaryVolumeDescriptor{
		VolumeDescriptorHeader: descriptor.VolumeDescriptorHeader{
			VolumeDescriptorType:    descriptor.TYPE_PRIMARY_DESCRIPTOR,
			StandardIdentifier:      consts.ISO9660_STD_IDENTIFIER,
			VolumeDescriptorVersion: consts.ISO9660_VOLUME_DESC_VERSION,
		},
		PrimaryVolumeDescriptorBody: descriptor.PrimaryVolumeDescriptorBody{
			SystemIdentifier:              filterA(w.opts.SystemID, 32),
			VolumeIdentifier:              filterD(w.opts.VolumeID, 32),
			VolumeSpaceSize:               l.totalSectors,
			VolumeSetSize:                 1,
			VolumeSequenceNumber:          1,
			LogicalBlockSize:              consts.ISO9660_SECTOR_SIZE,
			PathTableSize:                 uint32(len(l.pathTableBytes)),
			LocationOfTypeLPathTable:      l.lLBA,
			LocationOfTypeMPathTable:      l.mLBA,
			RootDirectoryRecord:           root,
			VolumeSetIdentifier:           filterD(w.opts.VolumeSetID, 128),
			PublisherIdentifier:           filterA(w.opts.PublisherID, 128),
			DataPreparerIdentifier:        filterA(w.opts.PreparerID, 128),
			ApplicationIdentifier:         filterA(w.opts.ApplicationID, 128),
			VolumeCreationDateAndTime:     w.opts.CreationTime,
			VolumeModificationDateAndTime: w.opts.CreationTime,
			VolumeEffectiveDateAndTime:    w.opts.CreationTime,
			FileStructureVersion:          1,
		},
	}
}

func filterA(s string, width int) string {
	b, _ := charset.A(s, width, false)
	return strings.TrimRight(string(b), " ")
}

func filterD(s string, width int) string {
	b, _ := charset.D(s, width, false)
	return strings.TrimRight(string(b), " ")
}

func (w *Writer) writeSector(lba uint32, data []byte) error {
	buf := make([]byte, consts.ISO9660_SECTOR_SIZE)
	copy(buf, data)
	_, err := w.sink.WriteAt(buf, int64(lba)*consts.ISO9660_SECTOR_SIZE)
	return err
}

// writeExtent writes data across sectorCount contiguous sectors starting
// at startLBA, zero-padding the final sector if data is short, and calls
// tick once per sector written.
func (w *Writer) writeExtent(startLBA uint32, sectorCount int, data []byte, tick func()) error {
	for i := 0; i < sectorCount; i++ {
		off := i * consts.ISO9660_SECTOR_SIZE
		end := off + consts.ISO9660_SECTOR_SIZE
		if end > len(data) {
			end = len(data)
		}
		var chunk []byte
		if off < len(data) {
			chunk = data[off:end]
		}
		if err := w.writeSector(startLBA+uint32(i), chunk); err != nil {
			return err
		}
		tick()
	}
	return nil
}

func ceilSectors(byteLen int) int {
	if byteLen == 0 {
		return 0
	}
	return (byteLen + consts.ISO9660_SECTOR_SIZE - 1) / consts.ISO9660_SECTOR_SIZE
}
