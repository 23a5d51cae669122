package wavinspect

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	bextDescriptionLen         = 256
	bextOriginatorLen          = 32
	bextOriginatorReferenceLen = 32
	bextOriginationDateLen     = 10
	bextOriginationTimeLen     = 8
	bextUMIDLen                = 64
	bextReservedLen            = 190

	// bextMinSize is the size of the fields up to and including the version.
	bextMinSize = bextDescriptionLen + bextOriginatorLen + bextOriginatorReferenceLen +
		bextOriginationDateLen + bextOriginationTimeLen + 8 + 2
	// bextFixedSize is the size of the fixed part, coding history excluded.
	bextFixedSize = bextMinSize + bextUMIDLen + bextReservedLen
)

// CIDBext is the chunk ID of the Broadcast Wave Format extension chunk.
var CIDBext = [4]byte{'b', 'e', 'x', 't'}

// BroadcastInfo is the decoded bext chunk (EBU Tech 3285).
type BroadcastInfo struct {
	Description         string
	Originator          string
	OriginatorReference string
	OriginationDate     string
	OriginationTime     string
	// TimeReference is the first sample count since midnight.
	TimeReference uint64
	Version       uint16
	UMID          [64]byte
	CodingHistory string
}

// fixedReader hands out consecutive fixed width fields of buf. Fields past
// the end of buf read as zeros.
type fixedReader struct {
	buf    []byte
	offset int
}

func (r *fixedReader) take(n int) []byte {
	out := make([]byte, n)
	if r.offset < len(r.buf) {
		end := min(r.offset+n, len(r.buf))
		copy(out, r.buf[r.offset:end])
	}

	r.offset += n

	return out
}

func (r *fixedReader) text(n int) string {
	return strings.TrimRight(decodeText(r.take(n)), " ")
}

func (r *fixedReader) rest() []byte {
	if r.offset >= len(r.buf) {
		return nil
	}

	return r.buf[r.offset:]
}

// DecodeBroadcast decodes the bext chunk described by desc. Chunks written
// before version 1 may stop after the UMID; missing fields are left empty.
func DecodeBroadcast(c *Container, desc ChunkDescriptor) (*BroadcastInfo, error) {
	if c == nil {
		return nil, errNilContainer
	}

	if desc.Size < bextMinSize {
		return nil, truncatedChunk(desc.ID, fmt.Errorf("%d bytes, need at least %d", desc.Size, bextMinSize))
	}

	buf, err := c.readPayload(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to read the bext chunk - %w", err)
	}

	r := &fixedReader{buf: buf}
	bext := &BroadcastInfo{}

	bext.Description = r.text(bextDescriptionLen)
	bext.Originator = r.text(bextOriginatorLen)
	bext.OriginatorReference = r.text(bextOriginatorReferenceLen)
	bext.OriginationDate = r.text(bextOriginationDateLen)
	bext.OriginationTime = r.text(bextOriginationTimeLen)

	timeRefLow := binary.LittleEndian.Uint32(r.take(4))
	timeRefHigh := binary.LittleEndian.Uint32(r.take(4))
	bext.TimeReference = uint64(timeRefHigh)<<32 | uint64(timeRefLow)
	bext.Version = binary.LittleEndian.Uint16(r.take(2))

	copy(bext.UMID[:], r.take(bextUMIDLen))
	r.take(bextReservedLen)

	if history := r.rest(); len(history) > 0 {
		bext.CodingHistory = decodeText(bytes.TrimRight(history, "\x00"))
	}

	return bext, nil
}
