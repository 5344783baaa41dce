package cli

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"coop/app"
	"coop/hal"
	"coop/hal/window"
	"coop/internal/buildinfo"
	"coop/internal/config"
)

func newRunCmd() *cobra.Command {
	var (
		manifestPath string
		panicPNG     string
		showWindow   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Boot the kernel and run every app to completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := config.DefaultManifest()
			if manifestPath != "" {
				var err error
				if m, err = config.Load(manifestPath); err != nil {
					return err
				}
			}

			// Manifest log settings apply unless overridden on the command line.
			flags := cmd.Flags()
			if !flags.Changed("log-level") && !flagDebug && m.LogLevel != "" {
				flagLogLevel = m.LogLevel
			}
			if !flags.Changed("log-format") && m.LogFormat != "" {
				flagLogFormat = m.LogFormat
			}
			logger = newLogger(cmd, flagLogLevel, flagLogFormat)

			h := hal.NewHost(hal.HostConfig{Out: cmd.OutOrStdout()})
			sys, err := app.New(h, m, logger)
			if err != nil {
				return err
			}

			boot := func(ctx context.Context) error {
				r, runErr := sys.Run(ctx)
				printReport(cmd.ErrOrStderr(), r)

				if runErr != nil && errors.Is(runErr, app.ErrKernelHalted) && panicPNG != "" {
					if err := writePNG(panicPNG, sys.Framebuffer()); err != nil {
						logger.Error("write halt screen", "path", panicPNG, "err", err)
					} else {
						logger.Info("halt screen written", "path", panicPNG)
					}
				}
				return runErr
			}

			if showWindow {
				return window.Run(cmd.Context(), sys.Framebuffer(), "coop ("+buildinfo.Short()+")", boot)
			}
			return boot(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Boot manifest (YAML); defaults to the built-in image")
	cmd.Flags().StringVar(&panicPNG, "panic-png", "", "Write the halt screen to this PNG file on a kernel fault")
	cmd.Flags().BoolVar(&showWindow, "window", false, "Show the framebuffer in a desktop window (needs cgo)")
	return cmd
}

func printReport(w io.Writer, r app.Report) {
	if len(r.Tasks) == 0 {
		return
	}
	fmt.Fprintf(w, "boot %s halted after %s ms: %v\n", r.BootID, humanize.Comma(int64(r.UptimeMS)), r.Halt.Err)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tSYSCALLS\tBREAKDOWN")
	for _, t := range r.Tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%v\n", t.ID, t.Name, t.Status, humanize.Comma(int64(t.Counts.Total())), t.Counts.Nonzero())
	}
	tw.Flush()
}

func writePNG(path string, fb hal.Framebuffer) error {
	if fb == nil {
		return hal.ErrNotImplemented
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, hal.Snapshot(fb)); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
