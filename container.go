package wavinspect

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/riff"
)

// envelopeSize is the size of the RIFF header: id, size and form type.
const envelopeSize = 12

// maxMetadataPayload bounds the bytes read from a metadata chunk (LIST,
// bext, cart, smpl, cue). Larger chunks are decoded from their first
// maxMetadataPayload bytes.
const maxMetadataPayload = 1 << 20

// Container gives random access to the chunks of a RIFF/WAVE byte source.
type Container struct {
	r      io.ReadSeeker
	closer io.Closer
	// parser reads ids and sizes from the current position of r.
	parser     *riff.Parser
	fileLength int64
}

// Open validates the RIFF/WAVE envelope of r.
// The source must stay open for as long as the container is used.
func Open(r io.ReadSeeker) (*Container, error) {
	if r == nil {
		return nil, errNilContainer
	}

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to find the end of the source: %w", err)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek back to the start: %w", err)
	}

	if size < envelopeSize {
		return nil, notAWaveFile(fmt.Errorf("source is only %d bytes", size))
	}

	c := &Container{
		r:          r,
		parser:     riff.New(r),
		fileLength: size,
	}

	if err := c.readEnvelope(); err != nil {
		return nil, err
	}

	return c, nil
}

// OpenFile opens the file at path and validates its envelope. The returned
// container owns the file and must be closed.
func OpenFile(path string) (*Container, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	c, err := Open(file)
	if err != nil {
		file.Close()
		return nil, err
	}

	c.closer = file

	return c, nil
}

// Close releases the underlying file when the container owns it.
func (c *Container) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}

	err := c.closer.Close()
	c.closer = nil

	return err
}

// TotalLength is the container length declared by the RIFF header, that is
// the RIFF size plus the 8 bytes of the RIFF chunk header.
func (c *Container) TotalLength() int64 {
	if c == nil {
		return 0
	}

	return int64(c.parser.Size) + 8
}

// FileLength is the actual length of the byte source.
func (c *Container) FileLength() int64 {
	if c == nil {
		return 0
	}

	return c.fileLength
}

// ReadAt reads exactly n bytes starting at offset. Reads that would go past
// the end of the source fail without touching it.
func (c *Container) ReadAt(offset int64, n int) ([]byte, error) {
	if c == nil {
		return nil, errNilContainer
	}

	if offset < 0 || n < 0 || offset+int64(n) > c.fileLength {
		return nil, fmt.Errorf("%w: %d bytes at offset %d (file length %d)", errReadPastEnd, n, offset, c.fileLength)
	}

	if _, err := c.r.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to %d: %w", offset, err)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return nil, fmt.Errorf("failed to read %d bytes at offset %d: %w", n, offset, err)
	}

	return buf, nil
}

// readPayload reads the payload of a metadata chunk, at most
// maxMetadataPayload bytes of it.
func (c *Container) readPayload(desc ChunkDescriptor) ([]byte, error) {
	return c.ReadAt(desc.PayloadOffset(), int(min(desc.Size, maxMetadataPayload)))
}

func (c *Container) readEnvelope() error {
	id, size, err := c.parser.IDnSize()
	if err != nil {
		return notAWaveFile(fmt.Errorf("failed to read chunk ID and size: %w", err))
	}

	c.parser.ID = id
	if c.parser.ID != riff.RiffID {
		return notAWaveFile(fmt.Errorf("%q - %w", id[:], riff.ErrFmtNotSupported))
	}

	c.parser.Size = size

	if _, err := io.ReadFull(c.r, c.parser.Format[:]); err != nil {
		return notAWaveFile(fmt.Errorf("failed to read format: %w", err))
	}

	if c.parser.Format != riff.WavFormatID {
		return notAWaveFile(fmt.Errorf("%q - %w", c.parser.Format[:], riff.ErrFmtNotSupported))
	}

	return nil
}

// readChunkHeader reads the 8-byte chunk header at offset.
//
// riff.Parser.IDnSize ignores a failed size read and returns size 0, so
// callers must only ask for headers that lie fully inside the file, as
// Scanner.Next does.
func (c *Container) readChunkHeader(offset int64) ([4]byte, uint32, error) {
	if _, err := c.r.Seek(offset, io.SeekStart); err != nil {
		return [4]byte{}, 0, fmt.Errorf("failed to seek to %d: %w", offset, err)
	}

	id, size, err := c.parser.IDnSize()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}

		return id, size, fmt.Errorf("error reading chunk header - %w", err)
	}

	return id, size, nil
}
