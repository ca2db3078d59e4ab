// Package cli implements the qrit command line.
//
// A single root command parses the flags, resolves them into a config.Opts,
// reads the source and writes the rendered QR code to its target. Usage
// problems are reported as *UsageError so the caller can print usage and
// pick an exit status with ExitCode.
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"qrit/internal/config"
	"qrit/internal/format"
	"qrit/internal/qr"
	"qrit/internal/source"
)

const appName = "qrit"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the values shown by --version. main calls it with values
// injected via -ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Streams are the standard streams a run reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// UsageError is a command line that could not be turned into a configuration.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

func usageError(err error) error {
	return &UsageError{Err: err}
}

// ExitCode maps an error returned by Execute to a process exit status: 2 for
// usage errors, the errno of a failed stdin read, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var uerr *UsageError
	if errors.As(err, &uerr) {
		return 2
	}
	var rerr *source.ReadError
	if errors.As(err, &rerr) && rerr.Op == source.OpReadStdin {
		var errno syscall.Errno
		if errors.As(rerr, &errno) && errno != 0 {
			return int(errno)
		}
	}
	return 1
}

// Execute runs qrit with args. Usage errors are printed with the usage text to
// s.Err; other failures are logged there.
func Execute(ctx context.Context, args []string, s Streams) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(s.In)
	root.SetOut(s.Out)
	root.SetErr(s.Err)

	cmd, err := root.ExecuteContextC(ctx)
	if cmd == nil {
		cmd = root
	}
	var uerr *UsageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(s.Err, "Error: %v\n%s", err, cmd.UsageString())
	}
	return err
}

type rootOpts struct {
	format   formatValue
	output   string
	text     string
	file     string
	level    string
	scale    int
	verbose  bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := rootOpts{level: "m", scale: 8, logLevel: "info"}

	root := &cobra.Command{
		Use:   appName,
		Short: "Encode text as a QR code",
		Long: `qrit encodes text as a QR code and prints it to the terminal or writes it as an image.

The text comes from --text, from the file named by --file, or from a line read on standard input.
Without --format the format is taken from the --output extension; without either the code is
printed to the terminal (or written to a.png for --file).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// cobra checks flag groups after the pre-run hooks; check them
			// here so a conflict surfaces as a usage error.
			if err := cmd.ValidateFlagGroups(); err != nil {
				return usageError(err)
			}
			return nil
		},
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	fs := root.Flags()
	fs.VarP(&opts.format, "format", "f", "output format: "+strings.Join(format.Names(), ", "))
	fs.StringVarP(&opts.output, "output", "o", "", "output file")
	fs.StringVarP(&opts.text, "text", "T", "", "the string to convert to a QR code (conflicts with --file)")
	fs.StringVarP(&opts.file, "file", "F", "", "the input file (conflicts with --text)")
	root.MarkFlagsMutuallyExclusive("text", "file")
	fs.StringVarP(&opts.level, "level", "l", opts.level, "error correction level: l, m, q, h")
	fs.IntVarP(&opts.scale, "scale", "s", opts.scale, "pixels per module for image formats")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	fs.StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level: debug, info, warn, error")

	_ = root.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return format.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = root.RegisterFlagCompletionFunc("level", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"l", "m", "q", "h"}, cobra.ShellCompDirectiveNoFileComp
	})

	return root
}

func (o *rootOpts) raw(cmd *cobra.Command) config.Raw {
	fs := cmd.Flags()
	return config.Raw{
		Format: o.format.f,
		Output: optional(fs, "output", o.output),
		Text:   optional(fs, "text", o.text),
		File:   optional(fs, "file", o.file),
	}
}

func (o *rootOpts) run(cmd *cobra.Command) error {
	level, err := qr.ParseLevel(o.level)
	if err != nil {
		return usageError(err)
	}
	if o.scale < 1 || o.scale > qr.MaxScale {
		return usageError(fmt.Errorf("invalid scale: %d (must be between 1 and %d)", o.scale, qr.MaxScale))
	}

	logger, err := newLogger(cmd.ErrOrStderr(), o.logLevel, o.verbose)
	if err != nil {
		return usageError(err)
	}
	ctx := withLogger(cmd.Context(), logger)

	opts, err := config.New(o.raw(cmd))
	if err != nil {
		return usageError(err)
	}
	logger.Debug("Source", "source", opts.Source)
	logger.Debug("Output format", "format", opts.Format)
	logger.Debug("Output target", "target", opts.Target)

	err = write(ctx, opts, cmd.InOrStdin(), cmd.OutOrStdout(), qr.WithLevel(level), qr.WithScale(o.scale))
	if err != nil {
		logger.Error("Failed", "err", err)
	}
	return err
}

// write materializes the source and renders it to the target. File targets are
// only created once rendering has succeeded.
func write(ctx context.Context, opts config.Opts, in io.Reader, out io.Writer, ropts ...qr.Option) error {
	logger := loggerFromContext(ctx)

	data, err := opts.Source.Bytes(in, out)
	if err != nil {
		return err
	}
	logger.Debugf("Read %d bytes", len(data))

	if opts.Target.IsStdout() {
		return qr.Write(out, opts.Format, data, ropts...)
	}

	var buf bytes.Buffer
	if err := qr.Write(&buf, opts.Format, data, ropts...); err != nil {
		return err
	}
	if err := os.WriteFile(opts.Target.Path(), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("Wrote QR code", "path", opts.Target.Path(), "format", opts.Format)
	return nil
}
