package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/globecover/pkg/errors"
	gio "github.com/matzehuels/globecover/pkg/io"
	"github.com/matzehuels/globecover/pkg/pipeline"
)

type buildFlags struct {
	coverFlags
	texture     string
	spots       string
	terrainFile string
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the globe payload (cover, classify, project)",
		Long: `Run the whole pipeline: generate the covering, classify it against the
texture and project every sample onto the slightly oblate globe. Poles and
five reference latitudes are added as marker points.

Writes ` + globeFileName + ` and, with --spots, ` + spotsFileName + ` into the output
directory. Each stage is cached; only stages whose inputs changed are recomputed.
Pass --terrain to build from an existing terrain CSV without a texture.`,
		Example: `  globecover build --texture input/texture.png --spots input/special_spots.csv
  globecover build --terrain terrain.csv -o site/data
  globecover build -n 200 --texture earth.png -o - > xyz_points.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.resolve(cmd, c); err != nil {
				return err
			}
			if flags.texture == "" {
				flags.texture = c.Config.Texture
			}
			if flags.spots == "" {
				flags.spots = c.Config.Spots
			}
			return c.runBuild(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}
	flags.register(cmd, "output directory (default <output_dir>, - writes the payload to stdout)")
	cmd.Flags().StringVarP(&flags.texture, "texture", "t", "", "equirectangular terrain texture")
	cmd.Flags().StringVarP(&flags.spots, "spots", "s", "", "places CSV (Place Name,Latitude,Longitude,Note)")
	cmd.Flags().StringVar(&flags.terrainFile, "terrain", "", "build from this terrain CSV instead of classifying")
	return cmd
}

func (c *CLI) runBuild(ctx context.Context, out io.Writer, flags buildFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := pipeline.Options{
		EquatorialCount: flags.equatorialCount,
		Texture:         flags.texture,
		Spots:           flags.spots,
		Refresh:         flags.refresh,
		Logger:          loggerFromContext(ctx),
	}

	spinner := newSpinner(ctx, c.errOut, "Building globe...")
	if flags.output != "-" {
		spinner.Start()
	}
	prog := newProgress(opts.Logger)

	var (
		glb   *pipeline.GlobeOutput
		stats []stageStat
	)
	if flags.terrainFile != "" {
		glb, stats, err = buildFromTerrain(ctx, runner, flags.terrainFile, opts)
	} else {
		var res *pipeline.Result
		res, err = runner.Execute(ctx, opts)
		if err == nil {
			glb = res.Globe
			stats = []stageStat{
				{label: "points", count: res.Stats.Points, cached: res.CacheInfo.CoverHit},
				{label: "samples", count: res.Stats.Samples, cached: res.CacheInfo.ClassifyHit},
				{label: "globe points", count: res.Stats.GlobePoints, cached: res.CacheInfo.BuildHit},
			}
		}
	}
	if err != nil {
		spinner.StopWithError(out, "Build failed")
		return err
	}

	if flags.output == "-" {
		spinner.Stop()
		_, err = out.Write(glb.Payload)
		return err
	}

	dir := flags.output
	if dir == "" {
		dir = c.Config.OutputDir
	}
	files := []string{filepath.Join(dir, globeFileName)}
	if err := writeArtifact(files[0], glb.Payload); err != nil {
		spinner.StopWithError(out, "Write failed")
		return err
	}
	if glb.Spots != nil {
		files = append(files, filepath.Join(dir, spotsFileName))
		if err := writeArtifact(files[1], glb.Spots); err != nil {
			spinner.StopWithError(out, "Write failed")
			return err
		}
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Built globe with %d points", glb.Points))

	printSuccess(out, "Globe built")
	printStats(out, stats...)
	if glb.Spots != nil {
		printDetail(out, "%d places", glb.SpotCount)
	}
	for _, f := range files {
		printFile(out, f)
	}
	return nil
}

// buildFromTerrain runs only the build stage on a terrain CSV file. The
// payload is still cached, keyed by the file's contents.
func buildFromTerrain(ctx context.Context, runner *pipeline.Runner, path string, opts pipeline.Options) (*pipeline.GlobeOutput, []stageStat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "terrain file not found: %s", path)
		}
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	samples, err := gio.ReadTerrainCSV(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	glb, hit, err := runner.BuildWithCacheInfo(ctx, &pipeline.TerrainOutput{Samples: samples, CSV: data}, opts)
	if err != nil {
		return nil, nil, err
	}
	return glb, []stageStat{
		{label: "samples", count: len(samples)},
		{label: "globe points", count: glb.Points, cached: hit},
	}, nil
}
