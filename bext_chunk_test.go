package wavinspect

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
)

func bextPayload(b BroadcastInfo, reserved bool) []byte {
	buf := bytes.NewBuffer(nil)
	writeFixedString := func(s string, n int) {
		raw := make([]byte, n)
		copy(raw, s)
		buf.Write(raw)
	}

	writeFixedString(b.Description, bextDescriptionLen)
	writeFixedString(b.Originator, bextOriginatorLen)
	writeFixedString(b.OriginatorReference, bextOriginatorReferenceLen)
	writeFixedString(b.OriginationDate, bextOriginationDateLen)
	writeFixedString(b.OriginationTime, bextOriginationTimeLen)
	binary.Write(buf, binary.LittleEndian, uint32(b.TimeReference))
	binary.Write(buf, binary.LittleEndian, uint32(b.TimeReference>>32))
	binary.Write(buf, binary.LittleEndian, b.Version)

	if !reserved {
		return buf.Bytes()
	}

	buf.Write(b.UMID[:])
	buf.Write(make([]byte, bextReservedLen))
	buf.WriteString(b.CodingHistory)

	return buf.Bytes()
}

func TestDecodeBroadcast(t *testing.T) {
	var umid [64]byte
	copy(umid[:], "UMID-0123456789")

	want := BroadcastInfo{
		Description:         "BWF description",
		Originator:          "originator",
		OriginatorReference: "ref-001",
		OriginationDate:     "2026-02-06",
		OriginationTime:     "10:11:12",
		TimeReference:       1<<32 + 1234567,
		Version:             1,
		UMID:                umid,
		CodingHistory:       "A=PCM,F=48000,W=16,M=mono,T=wav",
	}

	c, desc := firstChunk(t, buildWav(testChunk{id: "bext", data: bextPayload(want, true)}))

	got, err := DecodeBroadcast(c, desc)
	if err != nil {
		t.Fatalf("decode bext: %v", err)
	}

	if !reflect.DeepEqual(*got, want) {
		t.Fatalf("bext mismatch:\n got %+v\nwant %+v", *got, want)
	}
}

func TestDecodeBroadcastVersionZero(t *testing.T) {
	in := BroadcastInfo{Description: "padded   ", Originator: "orig"}

	c, desc := firstChunk(t, buildWav(testChunk{id: "bext", data: bextPayload(in, false)}))

	got, err := DecodeBroadcast(c, desc)
	if err != nil {
		t.Fatalf("decode bext: %v", err)
	}

	if got.Description != "padded" || got.Originator != "orig" || got.CodingHistory != "" {
		t.Fatalf("unexpected short bext: %+v", got)
	}

	if got.UMID != [64]byte{} {
		t.Fatal("expected an empty UMID")
	}
}

func TestDecodeBroadcastTruncated(t *testing.T) {
	c, desc := firstChunk(t, buildWav(testChunk{id: "bext", data: make([]byte, 100)}))

	if _, err := DecodeBroadcast(c, desc); !errors.Is(err, ErrTruncatedChunk) {
		t.Fatalf("expected ErrTruncatedChunk, got %v", err)
	}
}

func TestInspectBroadcastChunk(t *testing.T) {
	data := buildWav(
		testChunk{id: "fmt ", data: fmtPayload(canonicalFormat)},
		testChunk{id: "bext", data: bextPayload(BroadcastInfo{Description: "first"}, true)},
		testChunk{id: "bext", data: bextPayload(BroadcastInfo{Description: "second"}, true)},
		testChunk{id: "data"},
	)

	h, err := Inspect(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	if h.Broadcast == nil || h.Broadcast.Description != "first" {
		t.Fatalf("expected the first bext chunk, got %+v", h.Broadcast)
	}

	if len(h.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", h.Warnings)
	}
}
