package wavinspect

import (
	"io"
	"time"

	"go.uber.org/multierr"
)

// WavHeader aggregates everything an inspection recovered from a file.
type WavHeader struct {
	// Path is set by InspectFile and InspectFiles.
	Path string
	// DeclaredLength is the RIFF size plus 8, FileLength the actual size.
	DeclaredLength int64
	FileLength     int64

	Format *FormatInfo
	Fact   *FactInfo
	List   *ListInfo

	// Broadcast, Cart, Sampler and Cue hold the bext, cart, smpl and cue
	// chunks when present.
	Broadcast *BroadcastInfo
	Cart      *CartInfo
	Sampler   *SamplerInfo
	Cue       *CueInfo

	// Chunks lists every chunk found, in file order.
	Chunks []ChunkDescriptor

	HasData  bool
	DataSize int64

	// Warnings holds recoverable failures: undecodable chunks, an early end
	// of the chunk walk and semantic oddities.
	Warnings []error
}

// Find returns the first chunk with the given ID.
func (h *WavHeader) Find(id [4]byte) (ChunkDescriptor, bool) {
	if h == nil {
		return ChunkDescriptor{}, false
	}

	for _, c := range h.Chunks {
		if c.ID == id {
			return c, true
		}
	}

	return ChunkDescriptor{}, false
}

// Duration returns the playing time of the data chunk. Non-PCM formats
// with a fact chunk use its sample length, everything else uses the byte
// rate.
func (h *WavHeader) Duration() time.Duration {
	if h == nil || h.Format == nil || !h.HasData {
		return 0
	}

	if h.Fact != nil && h.Format.EffectiveFormatTag() != wavFormatPCM && h.Format.SampleRate > 0 {
		return time.Duration(uint64(h.Fact.SampleLength) * uint64(time.Second) / uint64(h.Format.SampleRate))
	}

	return durationFromBytes(h.DataSize, h.Format.ByteRate)
}

// SizeMismatch reports whether the declared RIFF length differs from the
// actual file length.
func (h *WavHeader) SizeMismatch() bool {
	return h != nil && h.DeclaredLength != h.FileLength
}

// Err combines all warnings into a single error, nil when there are none.
func (h *WavHeader) Err() error {
	if h == nil {
		return nil
	}

	return multierr.Combine(h.Warnings...)
}

// Inspector parses containers with a chunk registry.
type Inspector struct {
	chunks *ChunkRegistry
}

// NewInspector returns an inspector using the default chunk registry.
func NewInspector() *Inspector {
	return &Inspector{chunks: NewChunkRegistry()}
}

// Register adds a custom chunk handler. Handlers registered here run after
// the default ones, so they cannot replace the built-in chunk decoders.
func (in *Inspector) Register(handler ChunkHandler) {
	if in.chunks == nil {
		in.chunks = NewChunkRegistry()
	}

	in.chunks.Register(handler)
}

// Inspect parses the header of a WAV byte source with the default
// inspector.
func Inspect(r io.ReadSeeker) (*WavHeader, error) {
	return NewInspector().Inspect(r)
}

// InspectFile parses the header of the WAV file at path with the default
// inspector.
func InspectFile(path string) (*WavHeader, error) {
	return NewInspector().InspectFile(path)
}

// Inspect parses the header of r.
//
// An invalid envelope returns a nil header. A missing format chunk returns
// the header built so far together with an error matching
// ErrMissingFormatChunk, so the chunk table can still be reported.
// Per-chunk failures never abort the walk, they end up in
// WavHeader.Warnings.
func (in *Inspector) Inspect(r io.ReadSeeker) (*WavHeader, error) {
	c, err := Open(r)
	if err != nil {
		return nil, err
	}

	return in.inspect(c)
}

// InspectFile opens path, inspects it and closes it on every path out.
func (in *Inspector) InspectFile(path string) (*WavHeader, error) {
	c, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	h, err := in.inspect(c)
	if h != nil {
		h.Path = path
	}

	return h, err
}

func (in *Inspector) inspect(c *Container) (*WavHeader, error) {
	chunks := in.chunks
	if chunks == nil {
		chunks = NewChunkRegistry()
	}

	h := &WavHeader{
		DeclaredLength: c.TotalLength(),
		FileLength:     c.FileLength(),
		Chunks:         make([]ChunkDescriptor, 0),
	}

	for desc, err := range c.Scan().All() {
		if err != nil {
			h.Warnings = append(h.Warnings, err)
			break
		}

		h.Chunks = append(h.Chunks, desc)

		if _, err := chunks.Decode(c, desc, h); err != nil {
			h.Warnings = append(h.Warnings, err)
		}
	}

	if h.Format == nil {
		return h, missingFormatChunk()
	}

	return h, nil
}
