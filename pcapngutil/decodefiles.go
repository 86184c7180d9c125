// Package pcapngutil provides small conveniences layered on top of the
// root Capture type: notably, decoding several files concurrently.
package pcapngutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/sofiworker/pcapng"
)

// FileResult is one file's outcome from DecodeFiles.
type FileResult struct {
	Path    string
	Packets int
	Err     error // the fatal error that ended decoding, if any
}

// DecodeFiles opens and decodes each of paths independently and
// concurrently, calling fn for every packet decoded from any file.
// fn must be safe for concurrent use, since it is invoked from
// multiple goroutines (one per file) with no ordering between files.
// A per-file error (from opening the file or a fatal decode error)
// stops that file's decoding but does not affect the others. The
// returned error is always nil: every per-file failure, including
// cancellation of ctx, is reported in the returned []FileResult.
func DecodeFiles(ctx context.Context, paths []string, opts []pcapng.Option, fn func(path string, pkt *pcapng.Packet)) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = decodeOne(ctx, path, opts, fn)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func decodeOne(ctx context.Context, path string, opts []pcapng.Option, fn func(string, *pcapng.Packet)) FileResult {
	f, err := os.Open(path)
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("pcapngutil: open %s: %w", path, err)}
	}
	defer f.Close()

	capture := pcapng.New(f, opts...)
	result := FileResult{Path: path}
	for {
		if ctx.Err() != nil {
			result.Err = ctx.Err()
			return result
		}
		pkt, err := capture.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return result
			}
			if pcapng.IsFatal(err) {
				result.Err = err
				return result
			}
			continue // Tier 2: skip the block and keep iterating
		}
		fn(path, pkt)
		result.Packets++
	}
}
