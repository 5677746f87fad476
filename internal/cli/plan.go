package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-marathon-planner/internal/cache"
	"github.com/iliyamo/cinema-marathon-planner/internal/model"
	"github.com/iliyamo/cinema-marathon-planner/internal/planner"
)

// planOptions mirrors the generation request body for offline runs.
type planOptions struct {
	Mode        planner.Mode
	Flexibility model.Flexibility
	Preferences model.Preferences
}

func init() {
	cmd := &cobra.Command{
		Use:   "plan [movies.json]",
		Short: "Generate itineraries from a JSON list of movies",
		Long:  "Reads an array of movies with their showtimes (from a file, or stdin when omitted) and prints the ranked itineraries as JSON.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runPlanCmd,
	}
	cmd.Flags().StringP("mode", "m", string(planner.ModeScored), "scored or feasibility")
	cmd.Flags().Int("late", model.DefaultAllowLateEntry, "Minutes of late entry allowed")
	cmd.Flags().Int("early", model.DefaultAllowEarlyExit, "Minutes of early exit allowed")
	cmd.Flags().Int("break", model.DefaultBreakTime, "Minutes between movies")
	cmd.Flags().String("start", "", "Preferred start time (HH:MM)")
	cmd.Flags().Bool("avoid-late-night", true, "Penalize plans ending after 22:00")
	cmd.Flags().Bool("prefer-matinee", true, "Favor plans starting before 14:00")

	RootCmd.AddCommand(cmd)
}

func runPlanCmd(cmd *cobra.Command, args []string) {
	in := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			exitErr("open movies", err)
		}
		defer f.Close()
		in = f
	}

	mode, _ := cmd.Flags().GetString("mode")
	late, _ := cmd.Flags().GetInt("late")
	early, _ := cmd.Flags().GetInt("early")
	brk, _ := cmd.Flags().GetInt("break")
	start, _ := cmd.Flags().GetString("start")
	avoid, _ := cmd.Flags().GetBool("avoid-late-night")
	matinee, _ := cmd.Flags().GetBool("prefer-matinee")

	opts := planOptions{
		Mode:        planner.Mode(mode),
		Flexibility: model.Flexibility{AllowLateEntry: late, AllowEarlyExit: early, BreakTime: brk},
		Preferences: model.Preferences{PreferredStartTime: start, AvoidLateNight: avoid, PreferMatinee: matinee},
	}
	if err := runPlan(cmd.Context(), in, cmd.OutOrStdout(), opts); err != nil {
		exitErr("plan", err)
	}
}

// runPlan decodes movies from in, generates with an in-memory cache and
// writes the indented result to out.
func runPlan(ctx context.Context, in io.Reader, out io.Writer, opts planOptions) error {
	var movies []model.Movie
	if err := json.NewDecoder(in).Decode(&movies); err != nil {
		return fmt.Errorf("decode movies: %w", err)
	}

	store := cache.NewMemoryStore(time.Minute)
	defer store.Close()
	p := planner.New(planner.DefaultConfig(), store, newLogger())

	flex := opts.Flexibility
	res, err := p.Generate(ctx, planner.Request{
		Movies:      movies,
		Flexibility: &flex,
		Preferences: opts.Preferences,
		Mode:        opts.Mode,
	})
	if err != nil {
		return err
	}

	bs, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(bs))
	return err
}
