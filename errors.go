package wavinspect

import (
	"errors"
	"fmt"
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// KindNotAWaveFile means the RIFF/WAVE envelope is missing or invalid.
	KindNotAWaveFile ErrorKind = iota + 1
	// KindMissingFormatChunk means no usable fmt chunk was found.
	KindMissingFormatChunk
	// KindTruncatedChunk means a chunk is smaller than its layout requires.
	KindTruncatedChunk
	// KindChunkOverrunsFile means a chunk declares more bytes than the file holds.
	KindChunkOverrunsFile
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotAWaveFile:
		return "not a wave file"
	case KindMissingFormatChunk:
		return "missing format chunk"
	case KindTruncatedChunk:
		return "truncated chunk"
	case KindChunkOverrunsFile:
		return "chunk overruns file"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

var (
	// ErrNotAWaveFile matches any ParseError of kind KindNotAWaveFile.
	ErrNotAWaveFile = &ParseError{Kind: KindNotAWaveFile}
	// ErrMissingFormatChunk matches any ParseError of kind KindMissingFormatChunk.
	ErrMissingFormatChunk = &ParseError{Kind: KindMissingFormatChunk}
	// ErrTruncatedChunk matches any ParseError of kind KindTruncatedChunk.
	ErrTruncatedChunk = &ParseError{Kind: KindTruncatedChunk}
	// ErrChunkOverrunsFile matches any ParseError of kind KindChunkOverrunsFile.
	ErrChunkOverrunsFile = &ParseError{Kind: KindChunkOverrunsFile}

	// ErrZeroBitsPerSample flags a fmt chunk declaring 0 bits per sample.
	// It is a warning, some compressed formats legitimately encode 0.
	ErrZeroBitsPerSample = errors.New("fmt chunk declares 0 bits per sample")

	errNilContainer = errors.New("nil container")
	errReadPastEnd  = errors.New("read past end of file")
)

// ParseError describes a RIFF/WAVE parse failure.
type ParseError struct {
	Kind ErrorKind
	// ChunkID is set for chunk level failures.
	ChunkID [4]byte
	// DeclaredEnd and FileLength are set for KindChunkOverrunsFile.
	DeclaredEnd int64
	FileLength  int64
	// Err is the underlying cause, if any.
	Err error
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindTruncatedChunk:
		if e.Err != nil {
			return fmt.Sprintf("%q: %s: %v", string(e.ChunkID[:]), e.Kind, e.Err)
		}

		return fmt.Sprintf("%q: %s", string(e.ChunkID[:]), e.Kind)
	case KindChunkOverrunsFile:
		return fmt.Sprintf("%q: %s (declared end %d, file length %d)",
			string(e.ChunkID[:]), e.Kind, e.DeclaredEnd, e.FileLength)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}

	return e.Kind.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ParseError of the same kind, which lets
// the exported sentinels match any instance of their kind.
func (e *ParseError) Is(target error) bool {
	pe, ok := target.(*ParseError)
	if !ok || pe == nil {
		return false
	}

	return pe.Kind == e.Kind
}

func notAWaveFile(err error) error {
	return &ParseError{Kind: KindNotAWaveFile, Err: err}
}

func missingFormatChunk() error {
	return &ParseError{Kind: KindMissingFormatChunk}
}

func truncatedChunk(id [4]byte, err error) error {
	return &ParseError{Kind: KindTruncatedChunk, ChunkID: id, Err: err}
}

func chunkOverrunsFile(id [4]byte, declaredEnd, fileLength int64) error {
	return &ParseError{
		Kind:        KindChunkOverrunsFile,
		ChunkID:     id,
		DeclaredEnd: declaredEnd,
		FileLength:  fileLength,
	}
}
