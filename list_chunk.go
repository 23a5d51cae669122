package wavinspect

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const listTypeSize = 4

var (
	// See http://bwfmetaedit.sourceforge.net/listinfo.html
	markerIART    = [4]byte{'I', 'A', 'R', 'T'}
	markerISFT    = [4]byte{'I', 'S', 'F', 'T'}
	markerICRD    = [4]byte{'I', 'C', 'R', 'D'}
	markerICOP    = [4]byte{'I', 'C', 'O', 'P'}
	markerIARL    = [4]byte{'I', 'A', 'R', 'L'}
	markerINAM    = [4]byte{'I', 'N', 'A', 'M'}
	markerIENG    = [4]byte{'I', 'E', 'N', 'G'}
	markerIGNR    = [4]byte{'I', 'G', 'N', 'R'}
	markerIPRD    = [4]byte{'I', 'P', 'R', 'D'}
	markerISRC    = [4]byte{'I', 'S', 'R', 'C'}
	markerISBJ    = [4]byte{'I', 'S', 'B', 'J'}
	markerICMT    = [4]byte{'I', 'C', 'M', 'T'}
	markerITRK    = [4]byte{'I', 'T', 'R', 'K'}
	markerITRKBug = [4]byte{'i', 't', 'r', 'k'}
	markerITCH    = [4]byte{'I', 'T', 'C', 'H'}
	markerIKEY    = [4]byte{'I', 'K', 'E', 'Y'}
	markerIMED    = [4]byte{'I', 'M', 'E', 'D'}

	infoLabels = map[[4]byte]string{
		markerIART:    "Artist",
		markerISFT:    "Software",
		markerICRD:    "Creation date",
		markerICOP:    "Copyright",
		markerIARL:    "Location",
		markerINAM:    "Title",
		markerIENG:    "Engineer",
		markerIGNR:    "Genre",
		markerIPRD:    "Product",
		markerISRC:    "Source",
		markerISBJ:    "Subject",
		markerICMT:    "Comments",
		markerITRK:    "Track number",
		markerITRKBug: "Track number",
		markerITCH:    "Technician",
		markerIKEY:    "Keywords",
		markerIMED:    "Medium",
	}
)

// ListInfo is the decoded LIST chunk.
type ListInfo struct {
	TypeID [4]byte
	// Entries holds INFO entries in file order. It is empty for list types
	// other than INFO.
	Entries []ListEntry
}

// ListEntry is a single INFO sub-chunk.
type ListEntry struct {
	Tag  [4]byte
	Text string
}

// TypeName returns the list type as a string.
func (l *ListInfo) TypeName() string {
	if l == nil {
		return ""
	}

	return string(l.TypeID[:])
}

// Lookup returns the text of the first entry with the given tag.
func (l *ListInfo) Lookup(tag [4]byte) (string, bool) {
	if l == nil {
		return "", false
	}

	for _, e := range l.Entries {
		if e.Tag == tag {
			return e.Text, true
		}
	}

	return "", false
}

// InfoLabel returns a readable label for well-known INFO tags and an empty
// string otherwise.
func InfoLabel(tag [4]byte) string {
	return infoLabels[tag]
}

// DecodeList decodes the LIST chunk described by desc. Only INFO lists are
// interpreted, other list types are returned with no entries. Entries past
// the first maxMetadataPayload bytes are not read.
func DecodeList(c *Container, desc ChunkDescriptor) (*ListInfo, error) {
	if c == nil {
		return nil, errNilContainer
	}

	if desc.Size < listTypeSize {
		return nil, truncatedChunk(desc.ID, fmt.Errorf("%d bytes, need at least %d", desc.Size, listTypeSize))
	}

	// read the entire chunk in memory
	buf, err := c.readPayload(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to read the LIST chunk - %w", err)
	}

	info := &ListInfo{}
	copy(info.TypeID[:], buf[:listTypeSize])

	if info.TypeID != CIDInfo {
		// TODO: support adtl subchunks
		return info, nil
	}

	info.Entries = decodeInfoEntries(buf[listTypeSize:])

	return info, nil
}

// decodeInfoEntries walks INFO sub-chunks. A sub-chunk running past the end
// of buf keeps the bytes that are there and ends the walk.
func decodeInfoEntries(buf []byte) []ListEntry {
	entries := make([]ListEntry, 0)

	for len(buf) >= chunkHeaderSize {
		var tag [4]byte
		copy(tag[:], buf[:4])
		size := uint64(binary.LittleEndian.Uint32(buf[4:8]))
		buf = buf[chunkHeaderSize:]

		n := min(size, uint64(len(buf)))
		entries = append(entries, ListEntry{Tag: tag, Text: decodeText(buf[:n])})

		if size > uint64(len(buf)) {
			break
		}

		buf = buf[min(size+size%2, uint64(len(buf))):]
	}

	return entries
}

// decodeText cuts b at the first NUL and decodes it as UTF-8, replacing
// invalid bytes with U+FFFD.
func decodeText(b []byte) string {
	s := nullTermStr(b)

	out, _, err := transform.String(unicode.UTF8.NewDecoder(), s)
	if err != nil {
		return strings.ToValidUTF8(s, "\uFFFD")
	}

	return out
}
