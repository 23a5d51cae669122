package wavinspect

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestInspectFilesKeepsOrder(t *testing.T) {
	canonical := writeTempWav(t, "a.wav", canonicalWav())
	missing := filepath.Join(t.TempDir(), "missing.wav")
	text := writeTempWav(t, "text.wav", []byte("not a riff file at all"))
	noFmt := writeTempWav(t, "nofmt.wav", buildWav(testChunk{id: "data", data: []byte{1, 2}}))

	paths := []string{canonical, missing, text, noFmt, canonical}

	for _, workers := range []int{0, 1, 3} {
		results := InspectFiles(context.Background(), paths, workers)
		if len(results) != len(paths) {
			t.Fatalf("workers=%d: expected %d results, got %d", workers, len(paths), len(results))
		}

		for i, r := range results {
			if r.Path != paths[i] {
				t.Fatalf("workers=%d: result %d path %q, want %q", workers, i, r.Path, paths[i])
			}
		}

		if results[0].Err != nil || results[0].Header == nil || results[0].Header.Path != canonical {
			t.Fatalf("workers=%d: canonical result %+v", workers, results[0])
		}

		if !errors.Is(results[1].Err, fs.ErrNotExist) {
			t.Fatalf("workers=%d: expected fs.ErrNotExist, got %v", workers, results[1].Err)
		}

		if !errors.Is(results[2].Err, ErrNotAWaveFile) || results[2].Header != nil {
			t.Fatalf("workers=%d: expected ErrNotAWaveFile, got %+v", workers, results[2])
		}

		if !errors.Is(results[3].Err, ErrMissingFormatChunk) || results[3].Header == nil {
			t.Fatalf("workers=%d: expected a partial header with ErrMissingFormatChunk, got %+v", workers, results[3])
		}

		if results[4].Err != nil {
			t.Fatalf("workers=%d: repeated path: %v", workers, results[4].Err)
		}
	}
}

func TestInspectFilesCancelled(t *testing.T) {
	path := writeTempWav(t, "a.wav", canonicalWav())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := InspectFiles(ctx, []string{path, path}, 1)

	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) || r.Header != nil {
			t.Fatalf("result %d: expected context.Canceled, got %+v", i, r)
		}

		if r.Path != path {
			t.Fatalf("result %d: path %q", i, r.Path)
		}
	}
}

func TestInspectFilesEmpty(t *testing.T) {
	if results := InspectFiles(context.Background(), nil, 4); len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
}
