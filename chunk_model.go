package wavinspect

import "github.com/go-audio/riff"

var (
	// CIDFmt is the chunk ID for the fmt chunk.
	CIDFmt = riff.FmtID
	// CIDData is the chunk ID for the data chunk.
	CIDData = riff.DataFormatID
	// CIDList is the chunk ID for a LIST chunk.
	CIDList = [4]byte{'L', 'I', 'S', 'T'}
	// CIDFact is the chunk ID for the fact chunk.
	CIDFact = [4]byte{'f', 'a', 'c', 't'}
	// CIDInfo is the list type of an INFO LIST chunk.
	CIDInfo = [4]byte{'I', 'N', 'F', 'O'}
)

// chunkHeaderSize is the size of a chunk id plus its little-endian size.
const chunkHeaderSize = 8

// ChunkDescriptor locates a chunk inside a container without holding its
// payload.
type ChunkDescriptor struct {
	ID [4]byte
	// Size is the declared payload length, excluding any pad byte.
	Size uint32
	// Offset is the absolute offset of the chunk header.
	Offset int64
}

// Name returns the chunk ID as a string.
func (c ChunkDescriptor) Name() string {
	return string(c.ID[:])
}

// PayloadOffset is the absolute offset of the first payload byte.
func (c ChunkDescriptor) PayloadOffset() int64 {
	return c.Offset + chunkHeaderSize
}

// End is the offset of the next chunk header. All RIFF chunks are word
// aligned, an odd sized payload is followed by one pad byte.
func (c ChunkDescriptor) End() int64 {
	return c.PayloadOffset() + int64(c.Size) + int64(c.Size%2)
}
