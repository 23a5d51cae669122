package wavinspect

import (
	"fmt"

	"go.uber.org/multierr"
)

// ChunkHandler decodes one kind of chunk into a WavHeader.
// Handlers are shared by concurrent inspections and must not keep state.
type ChunkHandler interface {
	CanHandle(chunkID [4]byte) bool
	Decode(c *Container, desc ChunkDescriptor, h *WavHeader) error
}

// ChunkRegistry resolves chunks to handlers.
type ChunkRegistry struct {
	handlers []ChunkHandler
}

// NewChunkRegistry returns a registry holding the handlers of every chunk
// this package decodes: fmt, fact, LIST, data, bext, cart, smpl and cue.
func NewChunkRegistry() *ChunkRegistry {
	return &ChunkRegistry{
		handlers: []ChunkHandler{
			&fmtChunkHandler{},
			&factChunkHandler{},
			&listChunkHandler{},
			&dataChunkHandler{},
			&bextChunkHandler{},
			&cartChunkHandler{},
			&smplChunkHandler{},
			&cueChunkHandler{},
		},
	}
}

// Register appends a handler to the registry.
func (r *ChunkRegistry) Register(handler ChunkHandler) {
	if r == nil || handler == nil {
		return
	}

	r.handlers = append(r.handlers, handler)
}

// Decode dispatches a chunk to the first matching handler.
func (r *ChunkRegistry) Decode(c *Container, desc ChunkDescriptor, h *WavHeader) (bool, error) {
	if r == nil || h == nil {
		return false, nil
	}

	for _, handler := range r.handlers {
		if handler.CanHandle(desc.ID) {
			err := handler.Decode(c, desc, h)
			if err != nil {
				return true, fmt.Errorf("chunk handler decode failed: %w", err)
			}

			return true, nil
		}
	}

	return false, nil
}

// Each optional chunk is decoded once: the first occurrence that decodes
// wins and later duplicates are only listed.

type fmtChunkHandler struct{}

func (fmtChunkHandler) CanHandle(chunkID [4]byte) bool {
	return chunkID == CIDFmt
}

func (fmtChunkHandler) Decode(c *Container, desc ChunkDescriptor, h *WavHeader) error {
	if h.Format != nil {
		return nil
	}

	info, err := DecodeFormat(c, desc)
	if info == nil {
		return err
	}

	h.Format = info

	if info.BitsPerSample == 0 {
		err = multierr.Append(err, ErrZeroBitsPerSample)
	}

	return err
}

type factChunkHandler struct{}

func (factChunkHandler) CanHandle(chunkID [4]byte) bool {
	return chunkID == CIDFact
}

func (factChunkHandler) Decode(c *Container, desc ChunkDescriptor, h *WavHeader) error {
	if h.Fact != nil {
		return nil
	}

	info, err := DecodeFact(c, desc)
	if err != nil {
		return err
	}

	h.Fact = info

	return nil
}

type listChunkHandler struct{}

func (listChunkHandler) CanHandle(chunkID [4]byte) bool {
	return chunkID == CIDList
}

func (listChunkHandler) Decode(c *Container, desc ChunkDescriptor, h *WavHeader) error {
	if h.List != nil {
		return nil
	}

	info, err := DecodeList(c, desc)
	if err != nil {
		return err
	}

	h.List = info

	return nil
}

type dataChunkHandler struct{}

func (dataChunkHandler) CanHandle(chunkID [4]byte) bool {
	return chunkID == CIDData
}

// Decode records the size of the first data chunk; samples are never read.
func (dataChunkHandler) Decode(_ *Container, desc ChunkDescriptor, h *WavHeader) error {
	if h.HasData {
		return nil
	}

	h.HasData = true
	h.DataSize = int64(desc.Size)

	return nil
}

type bextChunkHandler struct{}

func (bextChunkHandler) CanHandle(chunkID [4]byte) bool {
	return chunkID == CIDBext
}

func (bextChunkHandler) Decode(c *Container, desc ChunkDescriptor, h *WavHeader) error {
	if h.Broadcast != nil {
		return nil
	}

	info, err := DecodeBroadcast(c, desc)
	if err != nil {
		return err
	}

	h.Broadcast = info

	return nil
}

type smplChunkHandler struct{}

func (smplChunkHandler) CanHandle(chunkID [4]byte) bool {
	return chunkID == CIDSmpl
}

func (smplChunkHandler) Decode(c *Container, desc ChunkDescriptor, h *WavHeader) error {
	if h.Sampler != nil {
		return nil
	}

	info, err := DecodeSampler(c, desc)
	if err != nil {
		return err
	}

	h.Sampler = info

	return nil
}

type cueChunkHandler struct{}

func (cueChunkHandler) CanHandle(chunkID [4]byte) bool {
	return chunkID == CIDCue
}

func (cueChunkHandler) Decode(c *Container, desc ChunkDescriptor, h *WavHeader) error {
	if h.Cue != nil {
		return nil
	}

	info, err := DecodeCue(c, desc)
	if err != nil {
		return err
	}

	h.Cue = info

	return nil
}

type cartChunkHandler struct{}

func (cartChunkHandler) CanHandle(chunkID [4]byte) bool {
	return chunkID == CIDCart
}

func (cartChunkHandler) Decode(c *Container, desc ChunkDescriptor, h *WavHeader) error {
	if h.Cart != nil {
		return nil
	}

	info, err := DecodeCart(c, desc)
	if err != nil {
		return err
	}

	h.Cart = info

	return nil
}
