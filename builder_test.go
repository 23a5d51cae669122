package wavinspect

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

type testChunk struct {
	id   string
	data []byte
	// size overrides the declared size when non-nil.
	size *uint32
	// noPad drops the pad byte of odd sized chunks.
	noPad bool
}

func declared(n uint32) *uint32 {
	return &n
}

func (c testChunk) bytes() []byte {
	buf := bytes.NewBuffer(nil)
	buf.WriteString(c.id)

	size := uint32(len(c.data))
	if c.size != nil {
		size = *c.size
	}

	binary.Write(buf, binary.LittleEndian, size)
	buf.Write(c.data)

	if len(c.data)%2 == 1 && !c.noPad {
		buf.WriteByte(0)
	}

	return buf.Bytes()
}

// buildWav assembles a RIFF/WAVE file whose RIFF size matches its content.
func buildWav(chunks ...testChunk) []byte {
	body := bytes.NewBuffer(nil)
	body.WriteString("WAVE")

	for _, c := range chunks {
		body.Write(c.bytes())
	}

	return riffBytes(uint32(body.Len()), body.Bytes())
}

func riffBytes(riffSize uint32, body []byte) []byte {
	buf := bytes.NewBuffer(nil)
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, riffSize)
	buf.Write(body)

	return buf.Bytes()
}

func fmtPayload(f FormatInfo) []byte {
	buf := bytes.NewBuffer(nil)
	binary.Write(buf, binary.LittleEndian, f.FormatTag)
	binary.Write(buf, binary.LittleEndian, f.Channels)
	binary.Write(buf, binary.LittleEndian, f.SampleRate)
	binary.Write(buf, binary.LittleEndian, f.ByteRate)
	binary.Write(buf, binary.LittleEndian, f.BlockAlign)
	binary.Write(buf, binary.LittleEndian, f.BitsPerSample)

	if f.Extension != nil {
		binary.Write(buf, binary.LittleEndian, uint16(fmtExtensibleSize))
		binary.Write(buf, binary.LittleEndian, f.Extension.ValidBitsPerSample)
		binary.Write(buf, binary.LittleEndian, f.Extension.ChannelMask)
		buf.Write(f.Extension.SubFormat[:])
	}

	return buf.Bytes()
}

func infoEntry(tag, text string) []byte {
	return testChunk{id: tag, data: append([]byte(text), 0)}.bytes()
}

func listPayload(listType string, entries ...[]byte) []byte {
	buf := bytes.NewBuffer(nil)
	buf.WriteString(listType)

	for _, e := range entries {
		buf.Write(e)
	}

	return buf.Bytes()
}

var canonicalFormat = FormatInfo{
	FormatTag:     1,
	Channels:      1,
	SampleRate:    8000,
	ByteRate:      16000,
	BlockAlign:    2,
	BitsPerSample: 16,
}

// canonicalWav is the standard 44-byte PCM header with an empty data chunk.
func canonicalWav() []byte {
	return buildWav(
		testChunk{id: "fmt ", data: fmtPayload(canonicalFormat)},
		testChunk{id: "data"},
	)
}

func mustOpen(t *testing.T, data []byte) *Container {
	t.Helper()

	c, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	return c
}

// firstChunk opens data and returns its first chunk.
func firstChunk(t *testing.T, data []byte) (*Container, ChunkDescriptor) {
	t.Helper()

	c := mustOpen(t, data)

	desc, err := c.Scan().Next()
	if err != nil {
		t.Fatalf("scan first chunk: %v", err)
	}

	return c, desc
}

func writeTempWav(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}
