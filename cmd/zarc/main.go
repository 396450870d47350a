package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/zarclabs/zarc/pkg/archive"
	"github.com/zarclabs/zarc/pkg/zlog"
)

// appName is the canonical name of the application used for logging.
const appName = "zarc"

// version holds the application's version string.
// It's a `var` so it can be set at compile time using ldflags.
// Example: go build -ldflags="-X main.version=1.0.0"
var version = "dev"

// options holds the raw flag values before validation.
type options struct {
	compress   bool
	decompress bool
	format     string
	level      int
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   appName + " [flags] input output",
		Short: "A multi-format compression and decompression tool",
		Long: appName + ` compresses a single file or a directory tree into gzip, xz,
bz2, zip or tar (plus a documented "zst" byte-copy placeholder), and
decompresses archives back based on their filename suffix.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if !opts.compress && !opts.decompress {
				// No operation requested; RunE prints usage and exits 0.
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.compress, "compress", "c", false, "compress the input file or directory")
	cmd.Flags().BoolVarP(&opts.decompress, "decompress", "d", false, "decompress the input file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "gz", "compression format: gz, xz, bz2, zip, tar or zst")
	cmd.Flags().IntVarP(&opts.level, "level", "l", int(archive.DefaultLevel), "compression level (1-9)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose (debug) output")
	cmd.MarkFlagsMutuallyExclusive("compress", "decompress")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	zlog.SetVerbose(opts.verbose)

	if !opts.compress && !opts.decompress {
		return cmd.Help()
	}

	// Reject bad flag values before any component logic runs.
	format, err := archive.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	level, err := archive.ParseLevel(opts.level)
	if err != nil {
		return err
	}

	zlog.Debug("starting "+appName, "version", version, "pid", os.Getpid())

	ctx := cmd.Context()
	input, output := args[0], args[1]

	if opts.compress {
		if info, err := os.Stat(input); err == nil && info.IsDir() {
			return archive.CompressDir(ctx, input, output, format)
		}
		// A missing input is reported by the compressor's own validation.
		return archive.CompressFile(ctx, input, output, format, level)
	}
	return archive.Decompress(ctx, input, output)
}

func main() {
	// Cancel the context when an interrupt signal is received. The operations
	// check it at their loop boundaries and abort without rolling back.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			zlog.Error("operation cancelled by interrupt")
		} else {
			zlog.Error(fmt.Sprintf("%s exited with error", appName), "error", err)
		}
		os.Exit(1)
	}
}
