package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/globecover/pkg/cover"
	"github.com/matzehuels/globecover/pkg/errors"
	"github.com/matzehuels/globecover/pkg/pipeline"
)

// coverFlags are shared by every command that starts from a covering.
type coverFlags struct {
	equatorialCount int
	output          string
	noCache         bool
	refresh         bool
}

func (f *coverFlags) register(cmd *cobra.Command, outputHelp string) {
	cmd.Flags().IntVarP(&f.equatorialCount, "equatorial-count", "n", cover.DefaultEquatorialCount, "points on the equator")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", outputHelp)
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached artifacts")
}

// resolve fills unset flags from the config file. An explicit count is
// validated here because the pipeline reads 0 as "use the default".
func (f *coverFlags) resolve(cmd *cobra.Command, c *CLI) error {
	if !cmd.Flags().Changed("equatorial-count") {
		f.equatorialCount = c.Config.EquatorialCount
	}
	return errors.ValidateEquatorialCount(f.equatorialCount)
}

// coverCommand creates the cover command.
func (c *CLI) coverCommand() *cobra.Command {
	var flags coverFlags

	cmd := &cobra.Command{
		Use:   "cover",
		Short: "Write the sphere covering as a lat,lon CSV",
		Long: `Generate the near-uniform covering for an equatorial point count and write it
as a headerless "lat,lon" CSV in degrees, rounded to four decimals.

The covering for n=500 has 159146 points. Use -o - to write to stdout.`,
		Example: `  globecover cover
  globecover cover -n 120 -o sphere_cover.csv
  globecover cover -n 8 -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.resolve(cmd, c); err != nil {
				return err
			}
			return c.runCover(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}
	flags.register(cmd, "output file (default <output_dir>/"+coverFileName+", - for stdout)")
	return cmd
}

func (c *CLI) runCover(ctx context.Context, out io.Writer, flags coverFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := pipeline.Options{EquatorialCount: flags.equatorialCount, Refresh: flags.refresh}

	if flags.output == "-" {
		res, err := runner.Cover(ctx, opts)
		if err != nil {
			return err
		}
		_, err = out.Write(res.CSV)
		return err
	}

	spinner := newSpinner(ctx, c.errOut, fmt.Sprintf("Covering sphere with n=%d...", flags.equatorialCount))
	spinner.Start()
	prog := newProgress(loggerFromContext(ctx))

	res, hit, err := runner.CoverWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError(out, "Covering failed")
		return err
	}

	path := c.outputPath(flags.output, coverFileName)
	if err := writeArtifact(path, res.CSV); err != nil {
		spinner.StopWithError(out, "Write failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Covered sphere with %d points", len(res.Points)))

	printSuccess(out, "Covering generated")
	printStats(out, stageStat{label: "points", count: len(res.Points), cached: hit})
	printFile(out, path)
	return nil
}
