package wavinspect

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
)

const (
	wavFormatPCM        = 0x0001
	wavFormatADPCM      = 0x0002
	wavFormatIEEEFloat  = 0x0003
	wavFormatALaw       = 0x0006
	wavFormatMuLaw      = 0x0007
	wavFormatIMAADPCM   = 0x0011
	wavFormatTrueSpeech = 0x0022
	wavFormatGSM610     = 0x0031
	wavFormatMPEG       = 0x0050
	wavFormatMPEGLayer3 = 0x0055
	wavFormatVoxware    = 0x181C
	wavFormatExtensible = 0xFFFE
)

const (
	// fmtBaseSize is the size of the fields every fmt chunk carries.
	fmtBaseSize = 16
	// fmtExtensibleSize is the size of the WAVE_FORMAT_EXTENSIBLE block that
	// follows the 2-byte extension size.
	fmtExtensibleSize = 22
)

// The last 12 bytes of every KSDATAFORMAT_SUBTYPE GUID derived from a
// format tag.
var ksSubFormatGUIDTail = [12]byte{0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

// FormatInfo is the decoded fmt chunk.
type FormatInfo struct {
	FormatTag     uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	// Extension is only set for WAVE_FORMAT_EXTENSIBLE chunks.
	Extension *FormatExtension
}

// FormatExtension stores WAVE_FORMAT_EXTENSIBLE extra fields.
type FormatExtension struct {
	ValidBitsPerSample uint16
	ChannelMask        uint32
	SubFormat          [16]byte
}

// EffectiveFormatTag returns the format tag carried by the sub-format GUID
// of extensible chunks, and FormatTag otherwise.
func (f *FormatInfo) EffectiveFormatTag() uint16 {
	if f == nil {
		return 0
	}

	if f.FormatTag == wavFormatExtensible && f.Extension != nil && f.Extension.IsTagGUID() {
		return binary.LittleEndian.Uint16(f.Extension.SubFormat[:2])
	}

	return f.FormatTag
}

// FullScale returns the largest positive sample value of integer PCM data,
// or 0 for other encodings and unsupported bit depths.
func (f *FormatInfo) FullScale() int {
	if f == nil || f.EffectiveFormatTag() != wavFormatPCM {
		return 0
	}

	return audio.IntMaxSignedValue(int(f.BitsPerSample))
}

// DynamicRange returns the theoretical dynamic range of integer PCM data in
// dB, or 0 when FullScale is 0.
func (f *FormatInfo) DynamicRange() float64 {
	fs := f.FullScale()
	if fs == 0 {
		return 0
	}

	return 20 * math.Log10(2*float64(fs)+1)
}

// IsTagGUID reports whether the sub-format GUID is a KSDATAFORMAT_SUBTYPE
// built from a plain format tag.
func (e *FormatExtension) IsTagGUID() bool {
	if e == nil {
		return false
	}

	return bytes.Equal(e.SubFormat[4:], ksSubFormatGUIDTail[:]) &&
		binary.LittleEndian.Uint16(e.SubFormat[2:4]) == 0
}

// SubFormatString formats the sub-format GUID in registry notation,
// e.g. 00000001-0000-0010-8000-00aa00389b71.
func (e *FormatExtension) SubFormatString() string {
	if e == nil {
		return ""
	}

	g := e.SubFormat

	return fmt.Sprintf("%08x-%04x-%04x-%x-%x",
		binary.LittleEndian.Uint32(g[0:4]),
		binary.LittleEndian.Uint16(g[4:6]),
		binary.LittleEndian.Uint16(g[6:8]),
		g[8:10],
		g[10:16])
}

// FormatName returns a human readable name for a format tag.
func FormatName(tag uint16) string {
	switch tag {
	case wavFormatPCM:
		return "PCM"
	case wavFormatADPCM:
		return "Microsoft ADPCM"
	case wavFormatIEEEFloat:
		return "IEEE float"
	case wavFormatALaw:
		return "A-law"
	case wavFormatMuLaw:
		return "mu-law"
	case wavFormatIMAADPCM:
		return "IMA ADPCM"
	case wavFormatTrueSpeech:
		return "TrueSpeech"
	case wavFormatGSM610:
		return "GSM 6.10"
	case wavFormatMPEG:
		return "MPEG"
	case wavFormatMPEGLayer3:
		return "MPEG Layer 3"
	case wavFormatVoxware:
		return "Voxware"
	case wavFormatExtensible:
		return "Extensible"
	default:
		return "unknown"
	}
}

// DecodeFormat decodes the fmt chunk described by desc.
//
// An extensible chunk too short for its extensible block still returns the
// base fields, with a nil Extension, together with an error matching
// ErrTruncatedChunk.
func DecodeFormat(c *Container, desc ChunkDescriptor) (*FormatInfo, error) {
	if c == nil {
		return nil, errNilContainer
	}

	if desc.Size < fmtBaseSize {
		return nil, truncatedChunk(desc.ID, fmt.Errorf("%d bytes, need at least %d", desc.Size, fmtBaseSize))
	}

	// Anything past the extensible block is ignored.
	n := min(int64(desc.Size), fmtBaseSize+2+fmtExtensibleSize)

	buf, err := c.ReadAt(desc.PayloadOffset(), int(n))
	if err != nil {
		return nil, fmt.Errorf("failed to read the fmt chunk - %w", err)
	}

	chunk := &riff.Chunk{ID: desc.ID, Size: len(buf), R: bytes.NewReader(buf)}
	info := &FormatInfo{}

	fields := []struct {
		name string
		dst  any
	}{
		{"wav format", &info.FormatTag},
		{"channels", &info.Channels},
		{"sample rate", &info.SampleRate},
		{"byte rate", &info.ByteRate},
		{"block align", &info.BlockAlign},
		{"bit depth", &info.BitsPerSample},
	}

	for _, field := range fields {
		if err := chunk.ReadLE(field.dst); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", field.name, err)
		}
	}

	if len(buf) < fmtBaseSize+2 {
		return info, nil
	}

	var extraSize uint16
	if err := chunk.ReadLE(&extraSize); err != nil {
		return nil, fmt.Errorf("failed to read fmt extension size: %w", err)
	}

	if info.FormatTag != wavFormatExtensible || extraSize < fmtExtensibleSize {
		return info, nil
	}

	if len(buf) < fmtBaseSize+2+fmtExtensibleSize {
		return info, truncatedChunk(desc.ID,
			fmt.Errorf("extensible block needs %d bytes, chunk holds %d", fmtExtensibleSize, len(buf)-fmtBaseSize-2))
	}

	ext := &FormatExtension{}

	if err := chunk.ReadLE(&ext.ValidBitsPerSample); err != nil {
		return nil, fmt.Errorf("failed to read valid bits per sample: %w", err)
	}

	if err := chunk.ReadLE(&ext.ChannelMask); err != nil {
		return nil, fmt.Errorf("failed to read channel mask: %w", err)
	}

	if err := chunk.ReadLE(&ext.SubFormat); err != nil {
		return nil, fmt.Errorf("failed to read sub format: %w", err)
	}

	info.Extension = ext

	return info, nil
}
