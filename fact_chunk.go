package wavinspect

import (
	"bytes"
	"fmt"

	"github.com/go-audio/riff"
)

const factMinSize = 4

// FactInfo is the decoded fact chunk.
type FactInfo struct {
	// SampleLength is the number of samples per channel.
	SampleLength uint32
}

// DecodeFact decodes the fact chunk described by desc. Format specific
// fields after the sample length are ignored.
func DecodeFact(c *Container, desc ChunkDescriptor) (*FactInfo, error) {
	if c == nil {
		return nil, errNilContainer
	}

	if desc.Size < factMinSize {
		return nil, truncatedChunk(desc.ID, fmt.Errorf("%d bytes, need at least %d", desc.Size, factMinSize))
	}

	buf, err := c.ReadAt(desc.PayloadOffset(), factMinSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read the fact chunk - %w", err)
	}

	chunk := &riff.Chunk{ID: desc.ID, Size: len(buf), R: bytes.NewReader(buf)}
	info := &FactInfo{}

	if err := chunk.ReadLE(&info.SampleLength); err != nil {
		return nil, fmt.Errorf("failed to read sample length: %w", err)
	}

	return info, nil
}
