// Command pixproc applies pixel filters and filter pipelines to image files.
//
//	pixproc list
//	pixproc apply sobel in.png edges.png --set axis=y --set kernel_width=5
//	pixproc run pipeline.toml a.jpg b.png --out processed/
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tech-kind/pix/internal/bitmap"
	"github.com/tech-kind/pix/workerpool"
)

const version = "0.3.0"

type options struct {
	debug   bool
	workers int
	quality int

	logger *logrus.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "pixproc",
		Short:        "Apply pixel filters to image files",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = initLogger(opts.debug, cmd.ErrOrStderr())
			opts.logger.WithFields(logrus.Fields{
				"version":    version,
				"debug_mode": opts.debug,
				"command":    cmd.Name(),
			}).Debug("starting pixproc")
		},
	}
	addGlobalFlags(root.PersistentFlags(), opts)
	root.AddCommand(newListCmd(), newApplyCmd(opts), newRunCmd(opts))
	return root
}

func addGlobalFlags(fs *pflag.FlagSet, opts *options) {
	fs.BoolVar(&opts.debug, "debug", false, "enable debug mode with verbose text logging")
	fs.IntVarP(&opts.workers, "workers", "w", 0, "worker pool size, 0 selects GOMAXPROCS")
	fs.IntVar(&opts.quality, "quality", 0, "JPEG quality 1..100, 0 selects the encoder default")
}

// initLogger initializes the logger with appropriate level.
func initLogger(debugMode bool, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger
}

func (o *options) newPool() *workerpool.Pool {
	n := o.workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	o.logger.WithField("workers", n).Debug("starting worker pool")
	return workerpool.New(n)
}

func (o *options) loader() *bitmap.Loader {
	return bitmap.NewLoader(o.logger, bitmap.EncodeOptions{JPEGQuality: o.quality})
}
