package wavinspect

import (
	"bytes"
	"fmt"

	"github.com/go-audio/riff"
)

const (
	cueHeaderSize = 4
	cuePointSize  = 24
)

// CIDCue is the chunk ID for the cue chunk.
var CIDCue = [4]byte{'c', 'u', 'e', 0x20}

// CueInfo is the decoded cue chunk.
type CueInfo struct {
	// NumCuePoints is the declared count. Points holds those present in the
	// chunk, which may be fewer.
	NumCuePoints uint32
	Points       []CuePoint
}

// CuePoint marks a position in the data chunk.
type CuePoint struct {
	ID uint32
	// Position is the sample offset of the cue point in play order.
	Position    uint32
	DataChunkID [4]byte
	ChunkStart  uint32
	BlockStart  uint32
	// SampleOffset is relative to BlockStart.
	SampleOffset uint32
}

// DecodeCue decodes the cue chunk described by desc.
func DecodeCue(c *Container, desc ChunkDescriptor) (*CueInfo, error) {
	if c == nil {
		return nil, errNilContainer
	}

	if desc.Size < cueHeaderSize {
		return nil, truncatedChunk(desc.ID, fmt.Errorf("%d bytes, need at least %d", desc.Size, cueHeaderSize))
	}

	buf, err := c.readPayload(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to read the cue chunk - %w", err)
	}

	chunk := &riff.Chunk{ID: desc.ID, Size: len(buf), R: bytes.NewReader(buf)}
	info := &CueInfo{}

	if err := chunk.ReadLE(&info.NumCuePoints); err != nil {
		return nil, fmt.Errorf("failed to read number of cue points: %w", err)
	}

	available := uint32((len(buf) - cueHeaderSize) / cuePointSize)
	info.Points = make([]CuePoint, min(info.NumCuePoints, available))

	for i := range info.Points {
		if err := chunk.ReadLE(&info.Points[i]); err != nil {
			return nil, fmt.Errorf("failed to read cue point %d: %w", i, err)
		}
	}

	return info, nil
}
