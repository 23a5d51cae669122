package wavinspect

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/multierr"
)

func chunkOffsets(h *WavHeader) map[string]int64 {
	out := make(map[string]int64, len(h.Chunks))
	for _, c := range h.Chunks {
		out[c.Name()] = c.Offset
	}

	return out
}

func TestInspectCanonicalHeader(t *testing.T) {
	h, err := Inspect(bytes.NewReader(canonicalWav()))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	if !reflect.DeepEqual(*h.Format, canonicalFormat) {
		t.Fatalf("format mismatch:\n got %+v\nwant %+v", *h.Format, canonicalFormat)
	}

	want := map[string]int64{"fmt ": 12, "data": 36}
	if got := chunkOffsets(h); !reflect.DeepEqual(got, want) || len(h.Chunks) != 2 {
		t.Fatalf("offset table: got %v want %v", got, want)
	}

	if h.Fact != nil || h.List != nil {
		t.Fatal("expected no fact or list chunk")
	}

	if len(h.Warnings) != 0 || h.Err() != nil {
		t.Fatalf("unexpected warnings: %v", h.Err())
	}

	if !h.HasData || h.DataSize != 0 || h.Duration() != 0 {
		t.Fatalf("data chunk: has %v size %d duration %s", h.HasData, h.DataSize, h.Duration())
	}

	if h.SizeMismatch() {
		t.Fatal("canonical header has no size mismatch")
	}
}

func TestInspectNotAWaveFile(t *testing.T) {
	h, err := Inspect(bytes.NewReader([]byte("RIFF\x10\x00\x00\x00AVI LIST\x00\x00\x00\x00")))
	if !errors.Is(err, ErrNotAWaveFile) {
		t.Fatalf("expected ErrNotAWaveFile, got %v", err)
	}

	if h != nil {
		t.Fatal("expected no header for a bad envelope")
	}
}

func TestInspectTruncatedFormatKeepsScanning(t *testing.T) {
	data := buildWav(
		testChunk{id: "fmt ", data: make([]byte, 10)},
		testChunk{id: "LIST", data: listPayload("INFO", infoEntry("INAM", "Title"))},
		testChunk{id: "data", data: []byte{0, 0, 0, 0}},
	)

	h, err := Inspect(bytes.NewReader(data))
	if !errors.Is(err, ErrMissingFormatChunk) {
		t.Fatalf("expected ErrMissingFormatChunk, got %v", err)
	}

	if h == nil {
		t.Fatal("expected a partial header")
	}

	if len(h.Chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %+v", h.Chunks)
	}

	if len(h.Warnings) != 1 || !errors.Is(h.Warnings[0], ErrTruncatedChunk) {
		t.Fatalf("expected one truncated chunk warning, got %v", h.Warnings)
	}

	var pe *ParseError
	if !errors.As(h.Warnings[0], &pe) || pe.ChunkID != CIDFmt {
		t.Fatalf("expected the warning to name the fmt chunk, got %v", h.Warnings[0])
	}

	if h.List == nil || len(h.List.Entries) != 1 {
		t.Fatalf("chunks after the bad fmt chunk must still decode, got %+v", h.List)
	}
}

func TestInspectMissingFormatChunk(t *testing.T) {
	h, err := Inspect(bytes.NewReader(buildWav(testChunk{id: "data", data: []byte{1, 2}})))
	if !errors.Is(err, ErrMissingFormatChunk) {
		t.Fatalf("expected ErrMissingFormatChunk, got %v", err)
	}

	if h == nil || len(h.Chunks) != 1 {
		t.Fatalf("expected the offset table, got %+v", h)
	}
}

func TestInspectChunkOverrunsFile(t *testing.T) {
	data := buildWav(
		testChunk{id: "fmt ", data: fmtPayload(canonicalFormat)},
		testChunk{id: "fact", data: binary.LittleEndian.AppendUint32(nil, 99)},
		testChunk{id: "data", data: []byte{1, 2, 3, 4}, size: declared(1 << 20)},
	)

	h, err := Inspect(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	want := map[string]int64{"fmt ": 12, "fact": 36}
	if got := chunkOffsets(h); !reflect.DeepEqual(got, want) {
		t.Fatalf("offset table: got %v want %v", got, want)
	}

	if len(h.Warnings) != 1 || !errors.Is(h.Warnings[0], ErrChunkOverrunsFile) {
		t.Fatalf("expected an overrun warning, got %v", h.Warnings)
	}

	if h.HasData {
		t.Fatal("an overrunning data chunk must not be recorded")
	}
}

func TestInspectFullHeader(t *testing.T) {
	f := FormatInfo{FormatTag: wavFormatIEEEFloat, Channels: 2, SampleRate: 48000, ByteRate: 384000, BlockAlign: 8, BitsPerSample: 32}

	data := buildWav(
		testChunk{id: "fmt ", data: fmtPayload(f)},
		testChunk{id: "fact", data: binary.LittleEndian.AppendUint32(nil, 24000)},
		testChunk{id: "LIST", data: listPayload("INFO", infoEntry("INAM", "Title"), infoEntry("IART", "Artist"))},
		testChunk{id: "data", data: make([]byte, 192000)},
	)

	h, err := Inspect(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	if h.Fact == nil || h.Fact.SampleLength != 24000 {
		t.Fatalf("fact: %+v", h.Fact)
	}

	if h.List == nil || len(h.List.Entries) != 2 || h.List.Entries[0].Text != "Title" || h.List.Entries[1].Text != "Artist" {
		t.Fatalf("list: %+v", h.List)
	}

	// 24000 samples at 48 kHz
	if h.Duration() != 500*time.Millisecond {
		t.Fatalf("duration: got %s", h.Duration())
	}

	if names := len(h.Chunks); names != 4 {
		t.Fatalf("expected 4 chunks, got %d", names)
	}
}

func TestInspectDurationFromByteRate(t *testing.T) {
	data := buildWav(
		testChunk{id: "fmt ", data: fmtPayload(canonicalFormat)},
		testChunk{id: "data", data: make([]byte, 8000)},
	)

	h, err := Inspect(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	if h.Duration() != 500*time.Millisecond {
		t.Fatalf("duration: got %s", h.Duration())
	}
}

func TestInspectDuplicatesFirstWins(t *testing.T) {
	second := canonicalFormat
	second.SampleRate = 44100

	data := buildWav(
		testChunk{id: "fmt ", data: fmtPayload(canonicalFormat)},
		testChunk{id: "fact", data: binary.LittleEndian.AppendUint32(nil, 1)},
		testChunk{id: "LIST", data: listPayload("INFO", infoEntry("INAM", "first"))},
		testChunk{id: "fmt ", data: fmtPayload(second)},
		testChunk{id: "fact", data: binary.LittleEndian.AppendUint32(nil, 2)},
		testChunk{id: "LIST", data: listPayload("INFO", infoEntry("INAM", "second"))},
		testChunk{id: "data", data: []byte{1, 2}},
		testChunk{id: "data", data: []byte{1, 2, 3, 4}},
	)

	h, err := Inspect(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	if h.Format.SampleRate != 8000 || h.Fact.SampleLength != 1 || h.List.Entries[0].Text != "first" || h.DataSize != 2 {
		t.Fatalf("expected the first occurrence of each chunk to win: %+v %+v %+v %d", h.Format, h.Fact, h.List, h.DataSize)
	}

	if len(h.Chunks) != 8 {
		t.Fatalf("every duplicate must be listed, got %d chunks", len(h.Chunks))
	}
}

func TestInspectFirstDecodableFormatWins(t *testing.T) {
	data := buildWav(
		testChunk{id: "fmt ", data: make([]byte, 10)},
		testChunk{id: "fmt ", data: fmtPayload(canonicalFormat)},
	)

	h, err := Inspect(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	if h.Format == nil || h.Format.SampleRate != 8000 {
		t.Fatalf("expected the second fmt chunk to be used, got %+v", h.Format)
	}

	if len(h.Warnings) != 1 {
		t.Fatalf("expected the first fmt chunk to be reported, got %v", h.Warnings)
	}
}

func TestInspectShortExtensibleBlockKeepsFormat(t *testing.T) {
	f := canonicalFormat
	f.FormatTag = wavFormatExtensible
	payload := binary.LittleEndian.AppendUint16(fmtPayload(f), fmtExtensibleSize)

	data := buildWav(
		testChunk{id: "fmt ", data: payload},
		testChunk{id: "data", data: []byte{0, 0}},
	)

	h, err := Inspect(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("a short extensible block must not lose the format: %v", err)
	}

	if h.Format == nil || h.Format.SampleRate != 8000 || h.Format.Extension != nil {
		t.Fatalf("expected the base fields without an extension, got %+v", h.Format)
	}

	if len(h.Warnings) != 1 || !errors.Is(h.Warnings[0], ErrTruncatedChunk) {
		t.Fatalf("expected a truncated chunk warning, got %v", h.Warnings)
	}

	if !h.HasData {
		t.Fatal("expected the data chunk after the fmt chunk")
	}
}

func TestInspectZeroBitsPerSampleWarns(t *testing.T) {
	f := FormatInfo{FormatTag: 0x0055, Channels: 2, SampleRate: 44100, ByteRate: 16000, BlockAlign: 1}

	h, err := Inspect(bytes.NewReader(buildWav(testChunk{id: "fmt ", data: fmtPayload(f)})))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	if h.Format == nil || h.Format.FormatTag != 0x0055 {
		t.Fatalf("format must still be decoded, got %+v", h.Format)
	}

	if !errors.Is(h.Err(), ErrZeroBitsPerSample) {
		t.Fatalf("expected ErrZeroBitsPerSample warning, got %v", h.Err())
	}
}

func TestInspectCollectsAllWarnings(t *testing.T) {
	data := buildWav(
		testChunk{id: "fmt ", data: fmtPayload(canonicalFormat)},
		testChunk{id: "fact", data: []byte{1}},
		testChunk{id: "LIST", data: []byte{'I'}},
	)

	h, err := Inspect(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	errs := multierr.Errors(h.Err())
	if len(errs) != 2 {
		t.Fatalf("expected 2 warnings, got %v", errs)
	}

	for _, e := range errs {
		if !errors.Is(e, ErrTruncatedChunk) {
			t.Fatalf("expected truncated chunk warnings, got %v", e)
		}
	}
}

func TestInspectSizeMismatch(t *testing.T) {
	data := canonicalWav()
	copy(data[4:8], []byte{0xFF, 0xFF, 0xFF, 0xFF})

	h, err := Inspect(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	if !h.SizeMismatch() || len(h.Chunks) != 2 {
		t.Fatalf("expected a size mismatch with 2 chunks, got %+v", h)
	}
}

type testMarkerHandler struct {
	seen []int64
}

func (h *testMarkerHandler) CanHandle(chunkID [4]byte) bool {
	return chunkID == [4]byte{'i', 'd', '3', ' '}
}

func (h *testMarkerHandler) Decode(_ *Container, desc ChunkDescriptor, _ *WavHeader) error {
	h.seen = append(h.seen, desc.Offset)
	return nil
}

func TestInspectorCustomHandler(t *testing.T) {
	data := buildWav(
		testChunk{id: "fmt ", data: fmtPayload(canonicalFormat)},
		testChunk{id: "id3 ", data: make([]byte, 4)},
	)

	handler := &testMarkerHandler{}
	in := NewInspector()
	in.Register(handler)

	if _, err := in.Inspect(bytes.NewReader(data)); err != nil {
		t.Fatalf("inspect: %v", err)
	}

	if len(handler.seen) != 1 || handler.seen[0] != 36 {
		t.Fatalf("custom handler calls: %v", handler.seen)
	}
}

func TestInspectFile(t *testing.T) {
	path := writeTempWav(t, "canonical.wav", canonicalWav())

	h, err := InspectFile(path)
	if err != nil {
		t.Fatalf("inspect file: %v", err)
	}

	if h.Path != path {
		t.Fatalf("path: got %q want %q", h.Path, path)
	}

	if _, ok := h.Find(CIDData); !ok {
		t.Fatal("expected a data chunk")
	}

	if _, ok := h.Find(CIDFact); ok {
		t.Fatal("unexpected fact chunk")
	}
}
