package wavinspect

import (
	"errors"
	"io"
	"iter"
)

// Scanner walks the chunk headers of a container in file order.
// A scanner is single use, call Container.Scan again to restart.
type Scanner struct {
	c      *Container
	offset int64
	limit  int64
	done   bool
}

// Scan returns a scanner positioned on the first chunk after the envelope.
// Scanning stops at the declared RIFF length or the file length, whichever
// comes first.
func (c *Container) Scan() *Scanner {
	return &Scanner{
		c:      c,
		offset: envelopeSize,
		limit:  min(c.TotalLength(), c.FileLength()),
	}
}

// Next returns the next chunk descriptor, or io.EOF once the walk is over.
// A chunk whose payload would end past the file yields an error matching
// ErrChunkOverrunsFile and ends the walk; the chunk is not returned.
func (s *Scanner) Next() (ChunkDescriptor, error) {
	if s == nil || s.c == nil || s.done {
		return ChunkDescriptor{}, io.EOF
	}

	// Fewer than 8 bytes left: trailing garbage, not a chunk.
	if s.offset+chunkHeaderSize > s.limit {
		s.done = true
		return ChunkDescriptor{}, io.EOF
	}

	id, size, err := s.c.readChunkHeader(s.offset)
	if err != nil {
		s.done = true
		return ChunkDescriptor{}, err
	}

	desc := ChunkDescriptor{ID: id, Size: size, Offset: s.offset}

	payloadEnd := desc.PayloadOffset() + int64(size)
	if payloadEnd > s.c.FileLength() {
		s.done = true
		return ChunkDescriptor{}, chunkOverrunsFile(id, payloadEnd, s.c.FileLength())
	}

	s.offset = desc.End()

	return desc, nil
}

// All returns an iterator over the remaining chunks. Iteration ends after
// the first error, which is yielded with a zero descriptor.
func (s *Scanner) All() iter.Seq2[ChunkDescriptor, error] {
	return func(yield func(ChunkDescriptor, error) bool) {
		for {
			desc, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}

			if !yield(desc, err) || err != nil {
				return
			}
		}
	}
}
