package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/globecover/pkg/cover"
	"github.com/matzehuels/globecover/pkg/stats"
)

type statsFlags struct {
	equatorialCount int
	order           int
	tolerance       float64
	json            bool
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var flags statsFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Measure how evenly the covering spreads over the sphere",
		Long: `Bin the covering into equal-area HEALPix pixels and report the per-pixel
point counts. A uniform covering hits every pixel with a similar count.

Without --order the deepest order with at least eight points per pixel is used.`,
		Example: `  globecover stats
  globecover stats -n 120 --order 3
  globecover stats --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("equatorial-count") {
				flags.equatorialCount = c.Config.EquatorialCount
			}
			return c.runStats(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}
	cmd.Flags().IntVarP(&flags.equatorialCount, "equatorial-count", "n", cover.DefaultEquatorialCount, "points on the equator")
	cmd.Flags().IntVar(&flags.order, "order", -1, fmt.Sprintf("HEALPix order, 0 to %d (default: suggested)", stats.MaxOrder))
	cmd.Flags().Float64Var(&flags.tolerance, "tolerance", 2, "max/min pixel count ratio accepted as uniform")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the report as JSON")
	return cmd
}

func (c *CLI) runStats(ctx context.Context, out io.Writer, flags statsFlags) error {
	prog := newProgress(loggerFromContext(ctx))

	pts, err := cover.Generate(flags.equatorialCount)
	if err != nil {
		return err
	}
	order := flags.order
	if order < 0 {
		order = stats.SuggestOrder(len(pts))
	}
	report, err := stats.Uniformity(pts, order)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Binned %d points into %d pixels", report.Points, report.Pixels))

	if flags.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reportJSON(report))
	}

	fmt.Fprintln(out, StyleTitle.Render(fmt.Sprintf("Covering n=%d", flags.equatorialCount)))
	printKeyValue(out, "points", strconv.Itoa(report.Points))
	printKeyValue(out, "order", strconv.Itoa(report.Order))
	printKeyValue(out, "pixels", strconv.Itoa(report.Pixels))
	printKeyValue(out, "empty", strconv.Itoa(report.Empty))
	printKeyValue(out, "min / max", fmt.Sprintf("%d / %d", report.Min, report.Max))
	printKeyValue(out, "mean", strconv.FormatFloat(report.Mean, 'f', 2, 64))
	printKeyValue(out, "stddev", strconv.FormatFloat(report.StdDev, 'f', 2, 64))
	printKeyValue(out, "ratio", formatRatio(report.Ratio))
	printNewline(out)

	if report.Uniform(flags.tolerance) {
		printSuccess(out, "Uniform within %.2fx", flags.tolerance)
	} else {
		printWarning(out, "Not uniform within %.2fx", flags.tolerance)
		if report.Empty > 0 {
			printNextStep(out, "Try a coarser pixelization", fmt.Sprintf("globecover stats -n %d --order %d", flags.equatorialCount, max(order-1, 0)))
		}
	}
	return nil
}

// reportJSON replaces an infinite ratio, which encoding/json rejects.
func reportJSON(r stats.Report) any {
	type alias stats.Report
	if math.IsInf(r.Ratio, 0) {
		return struct {
			alias
			Ratio *float64 `json:"ratio"`
		}{alias: alias(r)}
	}
	return r
}

func formatRatio(r float64) string {
	if math.IsInf(r, 0) {
		return "∞"
	}
	return strconv.FormatFloat(r, 'f', 3, 64)
}
