package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	gio "github.com/matzehuels/globecover/pkg/io"
	"github.com/matzehuels/globecover/pkg/pipeline"
	"github.com/matzehuels/globecover/pkg/terrain"
)

type classifyFlags struct {
	coverFlags
	texture   string
	coverFile string
}

// classifyCommand creates the classify command.
func (c *CLI) classifyCommand() *cobra.Command {
	var flags classifyFlags

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Colour every covering point from a terrain texture",
		Long: `Look up every covering point in an equirectangular terrain texture and write
"lat,lon,color" rows. Texture colours are snapped to the terrain palette
(white, blue, turquoise, green, beige); white below 60° latitude becomes beige.

By default the covering is generated (or read from the cache). Pass --cover
to classify an existing cover CSV instead.`,
		Example: `  globecover classify --texture input/texture.png
  globecover classify --texture earth.tiff --cover sphere_cover.csv -o terrain.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.resolve(cmd, c); err != nil {
				return err
			}
			if flags.texture == "" {
				flags.texture = c.Config.Texture
			}
			return c.runClassify(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}
	flags.register(cmd, "output file (default <output_dir>/"+terrainFileName+", - for stdout)")
	cmd.Flags().StringVarP(&flags.texture, "texture", "t", "", "equirectangular terrain texture (PNG, JPEG, GIF, BMP, TIFF, WebP)")
	cmd.Flags().StringVar(&flags.coverFile, "cover", "", "classify this cover CSV instead of generating one")
	return cmd
}

func (c *CLI) runClassify(ctx context.Context, out io.Writer, flags classifyFlags) error {
	spinner := newSpinner(ctx, c.errOut, "Classifying terrain...")
	if flags.output != "-" {
		spinner.Start()
	}
	prog := newProgress(loggerFromContext(ctx))

	res, stats, err := c.classify(ctx, spinner, flags)
	if err != nil {
		spinner.StopWithError(out, "Classification failed")
		return err
	}

	if flags.output == "-" {
		spinner.Stop()
		_, err = out.Write(res.CSV)
		return err
	}

	path := c.outputPath(flags.output, terrainFileName)
	if err := writeArtifact(path, res.CSV); err != nil {
		spinner.StopWithError(out, "Write failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Classified %d points", len(res.Samples)))

	printSuccess(out, "Terrain classified")
	printStats(out, stats...)
	printFile(out, path)
	printNextStep(out, "Build the globe", "globecover build --texture "+flags.texture)
	return nil
}

// classify returns the terrain artifact, cached unless it was computed from
// a user-supplied cover file.
func (c *CLI) classify(ctx context.Context, spinner *Spinner, flags classifyFlags) (*pipeline.TerrainOutput, []stageStat, error) {
	if flags.coverFile != "" {
		pts, err := gio.ImportCoverCSV(flags.coverFile)
		if err != nil {
			return nil, nil, err
		}
		classifier, err := terrain.Load(flags.texture)
		if err != nil {
			return nil, nil, err
		}
		spinner.Update(fmt.Sprintf("Classifying %d points...", len(pts)))
		res, err := pipeline.ClassifyPoints(ctx, classifier, pts)
		if err != nil {
			return nil, nil, err
		}
		return res, []stageStat{{label: "samples", count: len(res.Samples)}}, nil
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return nil, nil, err
	}
	defer runner.Close()

	opts := pipeline.Options{
		EquatorialCount: flags.equatorialCount,
		Texture:         flags.texture,
		Refresh:         flags.refresh,
		Logger:          loggerFromContext(ctx),
	}
	if err := opts.ValidateForClassify(); err != nil {
		return nil, nil, err
	}

	spinner.Update(fmt.Sprintf("Covering sphere with n=%d...", opts.EquatorialCount))
	cov, coverHit, err := runner.CoverWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	spinner.Update(fmt.Sprintf("Classifying %d points...", len(cov.Points)))
	res, hit, err := runner.ClassifyWithCacheInfo(ctx, cov, opts)
	if err != nil {
		return nil, nil, err
	}
	return res, []stageStat{
		{label: "points", count: len(cov.Points), cached: coverHit},
		{label: "samples", count: len(res.Samples), cached: hit},
	}, nil
}
