package main

import (
	"context"
	"io"
	"os"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"
)

// newProgress renders on stderr unless quiet is set or output is machine
// readable.
func newProgress(quiet bool) *mpb.Progress {
	var out io.Writer = os.Stderr
	if flags.JSON || quiet {
		out = io.Discard
	}
	return mpb.New(mpb.WithWidth(40), mpb.WithOutput(out))
}

func addBar(p *mpb.Progress, label string, total int) *mpb.Bar {
	return p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(label, decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d/%d", decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}, decor.WCSyncSpace),
		),
	)
}

// eachFile calls fn for every path, at most --jobs at a time, advancing a
// progress bar. The first error is returned after all calls finished.
func eachFile(ctx context.Context, label string, paths []string, fn func(ctx context.Context, i int, path string) error) error {
	p := newProgress(len(paths) < 2)
	bar := addBar(p, label, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(flags.Jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			defer bar.Increment()
			return fn(ctx, i, path)
		})
	}
	err := g.Wait()
	if err != nil {
		bar.Abort(false)
	}
	p.Wait()
	return err
}
