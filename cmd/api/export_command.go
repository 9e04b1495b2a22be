package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"urlexport/internal/diagnostics"
	"urlexport/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var out string
	var verbose bool

	cmd := &cobra.Command{
		Use:       "export content|media",
		Short:     "Build an export offline and write the CSV to a file",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(export.KindContent), string(export.KindMedia)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := export.Kind(args[0])
			log := ctx.logger().WithFields(logrus.Fields{
				"run_id": uuid.NewString(),
				"kind":   kind,
			})

			rt, err := ctx.buildRuntime(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer rt.Close()

			diag := diagnostics.NewBuffer(rt.diagSink, log)
			var res *export.Result
			if kind == export.KindMedia {
				res, err = rt.exports.ExportMedia(cmd.Context(), diag)
			} else {
				res, err = rt.exports.ExportContent(cmd.Context(), diag)
			}
			if verbose {
				for _, line := range diag.Lines() {
					fmt.Fprintln(cmd.ErrOrStderr(), line)
				}
			}
			if err != nil {
				return fmt.Errorf("%s export failed: %w", kind, err)
			}

			if out == "" {
				out = res.Filename()
			}
			if err := deliver(res, out, cmd.OutOrStdout()); err != nil {
				return err
			}

			summary := [][2]string{
				{"File", out},
				{"Rows", strconv.Itoa(res.Rows)},
				{"Size", export.FormatSize(res.Size(), 2)},
				{"Outcome", res.Outcome.String()},
				{"Duration", res.Duration.Round(time.Millisecond).String()},
			}
			if len(res.Skipped) > 0 {
				summary = append(summary, [2]string{"Skipped types", strings.Join(res.Skipped, ", ")})
			}
			if res.Truncated {
				summary = append(summary, [2]string{"Truncated", "row limit reached"})
			}
			fmt.Fprintln(cmd.ErrOrStderr(), renderSummary(summary))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", `Output file ("-" for stdout, default is the download filename)`)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the diagnostic log to stderr")
	return cmd
}

// deliver copies the finished export to path, or to stdout for "-". The scratch file is always removed.
func deliver(res *export.Result, path string, stdout io.Writer) error {
	dl, err := res.Open(nil)
	if err != nil {
		return err
	}
	defer dl.Close()

	if path == "-" {
		if _, err := io.Copy(stdout, dl); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if _, err := io.Copy(f, dl); err != nil {
		_ = f.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}
