package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/globecover/pkg/cover"
)

type rungsFlags struct {
	equatorialCount int
	interactive     bool
	json            bool
}

// rungsCommand creates the rungs command.
func (c *CLI) rungsCommand() *cobra.Command {
	var flags rungsFlags

	cmd := &cobra.Command{
		Use:   "rungs",
		Short: "Show the latitude rung schedule of a covering",
		Long: `Print every rung of the covering: its latitude, point count, azimuthal
spacing and the longitude of its first point. Rungs above the equator are
mirrored to the south, so each contributes twice its point count.`,
		Example: `  globecover rungs -n 20
  globecover rungs -i
  globecover rungs -n 8 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("equatorial-count") {
				flags.equatorialCount = c.Config.EquatorialCount
			}
			return c.runRungs(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), flags)
		},
	}
	cmd.Flags().IntVarP(&flags.equatorialCount, "equatorial-count", "n", cover.DefaultEquatorialCount, "points on the equator")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "browse rungs interactively")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the schedule as JSON")
	cmd.MarkFlagsMutuallyExclusive("interactive", "json")
	return cmd
}

func (c *CLI) runRungs(ctx context.Context, in io.Reader, out io.Writer, flags rungsFlags) error {
	rungs, err := cover.Plan(flags.equatorialCount)
	if err != nil {
		return err
	}
	total, err := cover.Total(flags.equatorialCount)
	if err != nil {
		return err
	}

	switch {
	case flags.json:
		if rungs == nil {
			rungs = []cover.Rung{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rungs)

	case flags.interactive:
		p := tea.NewProgram(NewRungListModel(flags.equatorialCount, rungs),
			tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
		finalModel, err := p.Run()
		if err != nil {
			return err
		}
		fm, ok := finalModel.(RungListModel)
		if !ok || fm.Selected == nil {
			printDetail(out, "No selection made")
			return nil
		}
		printRung(out, *fm.Selected)
		return nil
	}

	if len(rungs) == 0 {
		printInfo(out, "n=%d has no rungs; the covering is the two poles", flags.equatorialCount)
		return nil
	}
	fmt.Fprintln(out, rungTable(rungs, -1).Render())
	printDetail(out, "%d rungs · %d points including poles", len(rungs), total)
	return nil
}

// printRung prints one rung and the azimuths of its first points.
func printRung(out io.Writer, r cover.Rung) {
	fmt.Fprintln(out, StyleTitle.Render(fmt.Sprintf("Rung %d", r.Index)))
	printKeyValue(out, "latitude", "±"+formatAngle(r.Elevation)+"°")
	printKeyValue(out, "points", fmt.Sprintf("%d (%d with mirrors)", r.Count, rungTotal(r)))
	printKeyValue(out, "spacing", formatAngle(r.Step)+"°")
	printKeyValue(out, "start", formatAngle(r.Start)+"°")

	shown := min(r.Count, 5)
	for i := 0; i < shown; i++ {
		az := cover.Normalize(float64(r.Step*float64(i)) + r.Start)
		printDetail(out, "lon %s°", formatAngle(az))
	}
	if r.Count > shown {
		printDetail(out, "… %d more", r.Count-shown)
	}
}
