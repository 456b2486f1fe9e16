package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tech-kind/pix/internal/bitmap"
	"github.com/tech-kind/pix/pipeline"
	"github.com/tech-kind/pix/workerpool"
	"golang.org/x/sync/errgroup"
)

func newRunCmd(opts *options) *cobra.Command {
	var (
		outDir string
		ext    string
		jobs   int
	)
	cmd := &cobra.Command{
		Use:   "run <pipeline.toml|pipeline.yaml> <input>...",
		Short: "Run a pipeline file over one or more images",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := pipeline.LoadFile(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				opts.workers = cfg.Workers
			}
			p, err := pipeline.Build(cfg, opts.logger)
			if err != nil {
				return err
			}
			format, err := bitmap.FormatOf("out." + strings.TrimPrefix(ext, "."))
			if err != nil {
				return err
			} else if !format.Encodable() {
				return fmt.Errorf("%w: cannot encode %s", bitmap.ErrUnsupportedFormat, format)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			pool := opts.newPool()
			defer pool.Close()
			start := time.Now()
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(jobs, 1))
			for _, in := range args[1:] {
				out := outputPath(outDir, in, p.Name(), ext)
				g.Go(func() error {
					return processFile(ctx, opts, pool, p, in, out)
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			opts.logger.WithFields(logrus.Fields{
				"pipeline": p.Name(),
				"images":   len(args) - 1,
				"elapsed":  time.Since(start),
			}).Info("pipeline finished")
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&outDir, "out", "o", ".", "output directory")
	fs.StringVar(&ext, "ext", "png", "output file format extension")
	fs.IntVarP(&jobs, "jobs", "j", 2, "images processed concurrently")
	return cmd
}

// outputPath names the result of running pipeline name over in.
func outputPath(dir, in, name, ext string) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	if name != "" {
		base += "_" + name
	}
	return filepath.Join(dir, base+"."+strings.TrimPrefix(ext, "."))
}

func processFile(ctx context.Context, opts *options, pool *workerpool.Pool, p *pipeline.Pipeline, in, out string) error {
	loader := opts.loader()
	src, err := loader.Load(in)
	if err != nil {
		return err
	}
	start := time.Now()
	dst, err := p.Run(ctx, pool, src)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	opts.logger.WithFields(logrus.Fields{
		"input":   in,
		"output":  out,
		"elapsed": time.Since(start),
	}).Info("image processed")
	return loader.Save(pool, out, dst)
}
