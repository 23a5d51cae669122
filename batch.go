package wavinspect

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of inspecting one file.
type Result struct {
	Path   string
	Header *WavHeader
	Err    error
}

// InspectFiles inspects paths in parallel, each worker owning its own file
// handle. Results are returned in the order of paths. workers <= 0 means no
// limit. Files not started before ctx is done report ctx.Err().
func (in *Inspector) InspectFiles(ctx context.Context, paths []string, workers int) []Result {
	results := make([]Result, len(paths))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, path := range paths {
		g.Go(func() error {
			results[i].Path = path

			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			results[i].Header, results[i].Err = in.InspectFile(path)

			return nil
		})
	}

	// Workers never return errors, failures are reported per result.
	_ = g.Wait()

	return results
}

// InspectFiles inspects paths in parallel with the default inspector.
func InspectFiles(ctx context.Context, paths []string, workers int) []Result {
	return NewInspector().InspectFiles(ctx, paths, workers)
}
