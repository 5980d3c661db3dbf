package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"likescan/adapters/excel"
	"likescan/adapters/grid"
	"likescan/app"
	"likescan/internal"
	"likescan/internal/config"
	"likescan/internal/report"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "likescan",
		Short: "Evaluate profile likelihood scans: best fit and sigma intervals",
	}

	rootCmd.AddCommand(
		newEval1DCmd(),
		newEval2DCmd(),
		newBatchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newEvaluator() (*app.Evaluator, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return app.NewEvaluator(cfg.Evaluation, internal.DefaultLogger), cfg, nil
}

func newEval1DCmd() *cobra.Command {
	var bestFit float64
	var bestFitSet bool
	var asJSON bool
	var xlsxOut string

	cmd := &cobra.Command{
		Use:   "eval1d [scan-file]",
		Short: "Evaluate a 1D scan from an xlsx or csv file",
		Long: `Evaluate a one-parameter likelihood scan.

The file needs a header row and two columns: parameter value, dnll2.
Empty dnll2 cells mark failed fits.

Example: likescan eval1d scan_kl.xlsx --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bestFitSet = cmd.Flags().Changed("best-fit")

			evaluator, _, err := newEvaluator()
			if err != nil {
				return err
			}
			s, err := excel.NewScanReader(args[0]).Read1D()
			if err != nil {
				return err
			}
			if err := s.Validate(); err != nil {
				return fmt.Errorf("invalid scan file %s: %w", args[0], err)
			}

			opts := app.Options1D{}
			if bestFitSet {
				opts.BestFit = &bestFit
			}
			eval, err := evaluator.Evaluate1D(cmd.Context(), s, opts)
			if err != nil {
				return err
			}

			if xlsxOut != "" {
				w := excel.NewReportWriter()
				if err := w.Add1D(eval.Result); err != nil {
					return err
				}
				if err := w.Save(xlsxOut); err != nil {
					return err
				}
			}
			return print1D(eval, asJSON)
		},
	}

	cmd.Flags().Float64Var(&bestFit, "best-fit", 0, "Externally computed best fit value (skips the minimum search)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON instead of markdown")
	cmd.Flags().StringVar(&xlsxOut, "xlsx-out", "", "Also write the result to an Excel report")

	return cmd
}

func newEval2DCmd() *cobra.Command {
	var bestFitX, bestFitY float64
	var asJSON, logZ bool
	var xlsxOut string

	cmd := &cobra.Command{
		Use:   "eval2d [scan-file]",
		Short: "Evaluate a 2D scan from an xlsx or csv file",
		Long: `Evaluate a two-parameter likelihood scan.

The file needs a header row and three columns: x, y, dnll2.
Empty dnll2 cells mark failed fits and are repaired from their grid
neighbors when possible.

Example: likescan eval2d scan_kl_kt.csv --xlsx-out result.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			evaluator, cfg, err := newEvaluator()
			if err != nil {
				return err
			}
			s, err := excel.NewScanReader(args[0]).Read2D()
			if err != nil {
				return err
			}
			if err := s.Validate(); err != nil {
				return fmt.Errorf("invalid scan file %s: %w", args[0], err)
			}

			opts := app.Options2D{}
			if cmd.Flags().Changed("best-fit-x") {
				opts.BestFitX = &bestFitX
			}
			if cmd.Flags().Changed("best-fit-y") {
				opts.BestFitY = &bestFitY
			}
			eval, err := evaluator.Evaluate2D(cmd.Context(), s, opts)
			if err != nil {
				return err
			}

			if xlsxOut != "" {
				w := excel.NewReportWriter()
				if err := w.Add2D(eval.Result); err != nil {
					return err
				}
				// the dumped grid is a render product: with --log-z the
				// non-positive cells are clamped for a log z axis, while
				// the evaluation itself always sees the raw grid
				dump := eval.Grid
				if logZ {
					dump, err = grid.Reconstructor{
						RepairMissing: cfg.Evaluation.RepairMissing,
						LogScale:      true,
						LogFloor:      cfg.Evaluation.LogFloor,
					}.Reconstruct(s)
					if err != nil {
						return err
					}
				}
				name := fmt.Sprintf("%s_%s", s.ParameterX, s.ParameterY)
				if err := w.AddGrid(name, dump); err != nil {
					return err
				}
				if err := w.Save(xlsxOut); err != nil {
					return err
				}
			}
			return print2D(eval, asJSON)
		},
	}

	cmd.Flags().Float64Var(&bestFitX, "best-fit-x", 0, "Externally computed best fit x (needs --best-fit-y to skip the search)")
	cmd.Flags().Float64Var(&bestFitY, "best-fit-y", 0, "Externally computed best fit y")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON instead of markdown")
	cmd.Flags().BoolVar(&logZ, "log-z", false, "Clamp non-positive cells in the dumped grid for a log z axis (SCAN_LOG_FLOOR)")
	cmd.Flags().StringVar(&xlsxOut, "xlsx-out", "", "Also write the result to an Excel report")

	return cmd
}

func newBatchCmd() *cobra.Command {
	var workers int
	var xlsxOut string

	cmd := &cobra.Command{
		Use:   "batch [scan-files...]",
		Short: "Evaluate many 1D scan files concurrently",
		Long: `Evaluate several one-parameter scan files in parallel. A failing
scan is reported but never aborts the rest of the batch.

Example: likescan batch scans/*.xlsx --workers 4 --xlsx-out results.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			evaluator, _, err := newEvaluator()
			if err != nil {
				return err
			}
			return runBatch(cmd.Context(), evaluator, args, workers, xlsxOut)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent evaluations (0 = number of CPUs)")
	cmd.Flags().StringVar(&xlsxOut, "xlsx-out", "", "Write all results into one Excel report")

	return cmd
}

func runBatch(ctx context.Context, evaluator *app.Evaluator, files []string, workers int, xlsxOut string) error {
	items := make([]app.Batch1DItem, 0, len(files))
	for _, file := range files {
		s, err := excel.NewScanReader(file).Read1D()
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", file, err)
			continue
		}
		items = append(items, app.Batch1DItem{
			Name: strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)),
			Scan: s,
		})
	}
	if len(items) == 0 {
		return fmt.Errorf("no readable scan files")
	}

	outcomes := app.NewBatchEvaluator(evaluator, workers).Run1D(ctx, items)

	var writer *excel.ReportWriter
	if xlsxOut != "" {
		writer = excel.NewReportWriter()
	}

	failed := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", out.Name, out.Err)
			continue
		}
		fmt.Print(report.Markdown1D(out.Evaluation.Result))
		if writer != nil {
			if err := writer.Add1D(out.Evaluation.Result); err != nil {
				return err
			}
		}
	}
	if writer != nil {
		if err := writer.Save(xlsxOut); err != nil {
			return err
		}
	}
	fmt.Printf("\n%d/%d scans evaluated\n", len(outcomes)-failed, len(outcomes))
	return nil
}

func print1D(eval *app.Evaluation1D, asJSON bool) error {
	if asJSON {
		return printJSON(eval.Result)
	}
	fmt.Print(report.Markdown1D(eval.Result))
	return nil
}

func print2D(eval *app.Evaluation2D, asJSON bool) error {
	if asJSON {
		return printJSON(eval.Result)
	}
	fmt.Print(report.Markdown2D(eval.Result))
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
