// Package wavinspect reads the header metadata of RIFF/WAVE files.
//
// The package validates the RIFF/WAVE envelope, walks the chunk sequence
// and decodes the fmt, fact and LIST/INFO chunks, plus the bext, cart, smpl
// and cue chunks when a file carries them. Audio samples are never
// read: every chunk is located by offset and only the bytes a decoder needs
// are fetched.
//
// The building blocks are exposed on their own:
//
//   - Open / OpenFile validate the envelope and return a Container
//   - Container.Scan walks chunk headers lazily
//   - DecodeFormat, DecodeFact, DecodeList, DecodeBroadcast, DecodeCart,
//     DecodeSampler and DecodeCue decode single chunks
//
// Inspect and InspectFile combine them into a WavHeader. Envelope failures
// are fatal; anything wrong with an individual chunk is recorded in
// WavHeader.Warnings so the chunk table is always available once the
// envelope is valid.
package wavinspect
