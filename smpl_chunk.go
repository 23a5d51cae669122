package wavinspect

import (
	"bytes"
	"fmt"

	"github.com/go-audio/riff"
)

// smpl chunk is documented here:
// https://sites.google.com/site/musicgapi/technical-documents/wav-file-format#smpl

const (
	smplHeaderSize = 36
	smplLoopSize   = 24
)

// CIDSmpl is the chunk ID of the sampler chunk.
var CIDSmpl = [4]byte{'s', 'm', 'p', 'l'}

// SamplerInfo is the decoded smpl chunk.
type SamplerInfo struct {
	Manufacturer [4]byte
	Product      [4]byte
	// SamplePeriod is the duration of one sample in nanoseconds.
	SamplePeriod      uint32
	MIDIUnityNote     uint32
	MIDIPitchFraction uint32
	SMPTEFormat       uint32
	SMPTEOffset       uint32
	NumSampleLoops    uint32
	SamplerDataSize   uint32
	// Loops holds the loops present in the chunk, which may be fewer than
	// NumSampleLoops when the chunk is short.
	Loops []SampleLoop
}

// SampleLoop is a single smpl loop.
type SampleLoop struct {
	CuePointID [4]byte
	Type       uint32
	Start      uint32
	End        uint32
	Fraction   uint32
	PlayCount  uint32
}

// DecodeSampler decodes the smpl chunk described by desc.
func DecodeSampler(c *Container, desc ChunkDescriptor) (*SamplerInfo, error) {
	if c == nil {
		return nil, errNilContainer
	}

	if desc.Size < smplHeaderSize {
		return nil, truncatedChunk(desc.ID, fmt.Errorf("%d bytes, need at least %d", desc.Size, smplHeaderSize))
	}

	// read the entire chunk in memory
	buf, err := c.readPayload(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to read the smpl chunk - %w", err)
	}

	chunk := &riff.Chunk{ID: desc.ID, Size: len(buf), R: bytes.NewReader(buf)}
	info := &SamplerInfo{}

	fields := []struct {
		name string
		dst  any
	}{
		{"manufacturer", &info.Manufacturer},
		{"product", &info.Product},
		{"sample period", &info.SamplePeriod},
		{"MIDI unity note", &info.MIDIUnityNote},
		{"MIDI pitch fraction", &info.MIDIPitchFraction},
		{"SMPTE format", &info.SMPTEFormat},
		{"SMPTE offset", &info.SMPTEOffset},
		{"number of sample loops", &info.NumSampleLoops},
		{"sampler data size", &info.SamplerDataSize},
	}

	for _, field := range fields {
		if err := chunk.ReadLE(field.dst); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", field.name, err)
		}
	}

	available := uint32((len(buf) - smplHeaderSize) / smplLoopSize)
	loops := min(info.NumSampleLoops, available)
	info.Loops = make([]SampleLoop, loops)

	for i := range info.Loops {
		if err := chunk.ReadLE(&info.Loops[i]); err != nil {
			return nil, fmt.Errorf("failed to read sample loop %d: %w", i, err)
		}
	}

	return info, nil
}
