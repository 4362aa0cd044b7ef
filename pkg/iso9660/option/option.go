// Package option holds the functional-options surfaces for building and
// opening ISO 9660 images.
package option

import (
	"time"

	"github.com/bgrewell/isoimage/pkg/logging"
)

// WriterOptions configures a Writer. Use NewWriterOptions to obtain one
// pre-populated with defaults, then apply WriterOption values over it.
type WriterOptions struct {
	SystemID      string
	VolumeID      string
	VolumeSetID   string
	PublisherID   string
	PreparerID    string
	ApplicationID string
	CreationTime  time.Time
	Logger        *logging.Logger
	Progress      func(sectorsWritten, sectorsTotal int)
}

// WriterOption mutates a WriterOptions in place.
type WriterOption func(*WriterOptions)

// NewWriterOptions returns defaults (volume ID "ISOIMAGE", other
// identifiers empty, creation time set to now) with every opt applied in
// order.
func NewWriterOptions(opts ...WriterOption) *WriterOptions {
	o := &WriterOptions{
		VolumeID:     "ISOIMAGE",
		CreationTime: time.Now().UTC(),
		Logger:       logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func WithSystemID(id string) WriterOption {
	return func(o *WriterOptions) { o.SystemID = id }
}

func WithVolumeID(id string) WriterOption {
	return func(o *WriterOptions) { o.VolumeID = id }
}

func WithVolumeSetID(id string) WriterOption {
	return func(o *WriterOptions) { o.VolumeSetID = id }
}

func WithPublisherID(id string) WriterOption {
	return func(o *WriterOptions) { o.PublisherID = id }
}

func WithPreparerID(id string) WriterOption {
	return func(o *WriterOptions) { o.PreparerID = id }
}

func WithApplicationID(id string) WriterOption {
	return func(o *WriterOptions) { o.ApplicationID = id }
}

// WithCreationTime overrides the default of time.Now(). Image builds that
// must be byte-reproducible across runs need this.
func WithCreationTime(t time.Time) WriterOption {
	return func(o *WriterOptions) { o.CreationTime = t }
}

func WithWriterLogger(l *logging.Logger) WriterOption {
	return func(o *WriterOptions) { o.Logger = l }
}

// WithProgress registers a callback invoked after each sector write during
// Close, receiving the running total and the final sector count.
func WithProgress(fn func(sectorsWritten, sectorsTotal int)) WriterOption {
	return func(o *WriterOptions) { o.Progress = fn }
}

// ReaderOptions configures an Open call.
type ReaderOptions struct {
	StrictPrimaryVolumeDescriptor bool
	Logger                        *logging.Logger
}

// ReaderOption mutates a ReaderOptions in place.
type ReaderOption func(*ReaderOptions)

// NewReaderOptions returns defaults (strict PVD validation enabled) with
// every opt applied in order.
func NewReaderOptions(opts ...ReaderOption) *ReaderOptions {
	o := &ReaderOptions{
		StrictPrimaryVolumeDescriptor: true,
		Logger:                        logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithStrictValidation toggles rejecting images whose Primary Volume
// Descriptor type byte or standard identifier don't match ECMA-119
// exactly. Disabling it tolerates images produced by lenient writers.
func WithStrictValidation(strict bool) ReaderOption {
	return func(o *ReaderOptions) { o.StrictPrimaryVolumeDescriptor = strict }
}

func WithReaderLogger(l *logging.Logger) ReaderOption {
	return func(o *ReaderOptions) { o.Logger = l }
}
