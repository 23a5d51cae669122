package wavinspect

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	cartVersionLen            = 4
	cartTitleLen              = 64
	cartArtistLen             = 64
	cartCutIDLen              = 64
	cartClientIDLen           = 64
	cartCategoryLen           = 64
	cartClassificationLen     = 64
	cartOutCueLen             = 64
	cartStartDateLen          = 10
	cartStartTimeLen          = 8
	cartEndDateLen            = 10
	cartEndTimeLen            = 8
	cartProducerAppIDLen      = 64
	cartProducerAppVersionLen = 64
	cartUserDefLen            = 64
	cartReservedLen           = 276
	cartPostTimers            = 8

	// cartMinSize covers the text fields from version to user definition.
	cartMinSize = cartVersionLen + cartTitleLen + cartArtistLen + cartCutIDLen +
		cartClientIDLen + cartCategoryLen + cartClassificationLen + cartOutCueLen +
		cartStartDateLen + cartStartTimeLen + cartEndDateLen + cartEndTimeLen +
		cartProducerAppIDLen + cartProducerAppVersionLen + cartUserDefLen
)

// CIDCart is the chunk ID of the AES46 cart chunk.
var CIDCart = [4]byte{'c', 'a', 'r', 't'}

// CartInfo is the decoded cart chunk used by radio automation systems.
type CartInfo struct {
	Version            string
	Title              string
	Artist             string
	CutID              string
	ClientID           string
	Category           string
	Classification     string
	OutCue             string
	StartDate          string
	StartTime          string
	EndDate            string
	EndTime            string
	ProducerAppID      string
	ProducerAppVersion string
	UserDef            string
	LevelReference     int32
	PostTimer          [cartPostTimers]CartTimer
	URL                string
	TagText            string
}

// CartTimer is a cart post timer: a four character usage code such as
// "SEC1" or "EOD " and a sample offset.
type CartTimer struct {
	Usage [4]byte
	Value uint32
}

// DecodeCart decodes the cart chunk described by desc. Numeric fields,
// the URL and the tag text are optional.
func DecodeCart(c *Container, desc ChunkDescriptor) (*CartInfo, error) {
	if c == nil {
		return nil, errNilContainer
	}

	if desc.Size < cartMinSize {
		return nil, truncatedChunk(desc.ID, fmt.Errorf("%d bytes, need at least %d", desc.Size, cartMinSize))
	}

	buf, err := c.readPayload(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to read the cart chunk - %w", err)
	}

	r := &fixedReader{buf: buf}
	cart := &CartInfo{}

	cart.Version = r.text(cartVersionLen)
	cart.Title = r.text(cartTitleLen)
	cart.Artist = r.text(cartArtistLen)
	cart.CutID = r.text(cartCutIDLen)
	cart.ClientID = r.text(cartClientIDLen)
	cart.Category = r.text(cartCategoryLen)
	cart.Classification = r.text(cartClassificationLen)
	cart.OutCue = r.text(cartOutCueLen)
	cart.StartDate = r.text(cartStartDateLen)
	cart.StartTime = r.text(cartStartTimeLen)
	cart.EndDate = r.text(cartEndDateLen)
	cart.EndTime = r.text(cartEndTimeLen)
	cart.ProducerAppID = r.text(cartProducerAppIDLen)
	cart.ProducerAppVersion = r.text(cartProducerAppVersionLen)
	cart.UserDef = r.text(cartUserDefLen)
	cart.LevelReference = int32(binary.LittleEndian.Uint32(r.take(4)))

	for i := range cart.PostTimer {
		copy(cart.PostTimer[i].Usage[:], r.take(4))
		cart.PostTimer[i].Value = binary.LittleEndian.Uint32(r.take(4))
	}

	r.take(cartReservedLen)

	if extra := r.rest(); len(extra) > 0 {
		if idx := bytes.IndexByte(extra, 0); idx >= 0 {
			cart.URL = decodeText(extra[:idx])
			cart.TagText = decodeText(bytes.TrimRight(extra[idx+1:], "\x00"))
		} else {
			cart.URL = decodeText(extra)
		}
	}

	return cart, nil
}
