package track

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/ohler55/ojg/oj"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/racesim/log"
	"github.com/mpapenbr/racesim/pkg/model"
	"github.com/mpapenbr/racesim/pkg/track"
)

var (
	trackFile string
	format    string
)

func NewTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "commands to inspect tracks",
	}
	cmd.AddCommand(newInfoCmd())
	return cmd
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "shows the properties of a track",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMapInfo(trackFile)
			if err != nil {
				log.Error("could not load track", log.ErrorField(err))
				return err
			}
			return printInfo(cmd.OutOrStdout(), m, format)
		},
	}
	cmd.Flags().StringVarP(&trackFile,
		"track",
		"t",
		"",
		"track definition file (json), default is the built-in oval")
	cmd.Flags().StringVar(&format,
		"format",
		"text",
		"output format (text, json)")
	return cmd
}

func loadMapInfo(file string) (*track.MapInfo, error) {
	if file == "" {
		return track.Oval(), nil
	}
	info, err := track.LoadFile(file)
	if err != nil {
		return nil, err
	}
	return track.Build(info)
}

type materialShare struct {
	material model.Material
	percent  decimal.Decimal
}

// materialShares returns the share of each material in percent, ordered by
// material.
func materialShares(m *track.MapInfo) []materialShare {
	counts := m.MaterialCounts()
	total := lo.Sum(lo.Values(counts))
	keys := lo.Keys(counts)
	slices.Sort(keys)
	return lo.Map(keys, func(k model.Material, _ int) materialShare {
		return materialShare{
			material: k,
			percent: decimal.NewFromInt(int64(counts[k])).
				Mul(decimal.NewFromInt(100)).
				Div(decimal.NewFromInt(int64(total))).
				Round(1),
		}
	})
}

func printInfo(w io.Writer, m *track.MapInfo, format string) error {
	width, height := m.Size()
	length := decimal.NewFromFloat(m.Length()).Round(2)
	shares := materialShares(m)
	switch format {
	case "json":
		materials := map[string]any{}
		for _, s := range shares {
			materials[s.material.String()] = s.percent.InexactFloat64()
		}
		_, err := fmt.Fprintln(w, oj.JSON(map[string]any{
			"name":      m.Name,
			"laps":      m.TotalLaps,
			"width":     width,
			"height":    height,
			"length":    length.InexactFloat64(),
			"sections":  m.Sections(),
			"roadWidth": m.RoadWidth(),
			"materials": materials,
		}, &oj.Options{Sort: true}))
		return err
	case "text":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Name:\t%s\n", m.Name)
		fmt.Fprintf(tw, "Laps:\t%d\n", m.TotalLaps)
		fmt.Fprintf(tw, "Size:\t%gx%g\n", width, height)
		fmt.Fprintf(tw, "Length:\t%s\n", length.StringFixed(2))
		fmt.Fprintf(tw, "Sections:\t%d\n", m.Sections())
		fmt.Fprintf(tw, "Road width:\t%g\n", m.RoadWidth())
		for _, s := range shares {
			fmt.Fprintf(tw, "%s:\t%s%%\n", s.material, s.percent.StringFixed(1))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
