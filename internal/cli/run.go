package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hedge-gym/internal/render"
	"hedge-gym/internal/runner"
	"hedge-gym/internal/store"
	"hedge-gym/pkg/utils"
)

func newRunCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run hedging episodes with a built-in policy",
		Long: `Run one or more episodes to their horizon with a built-in policy
(zero, random, or delta) and print per-episode summaries.

Episodes can be persisted to the episode database (--save) and their
per-step series exported for plotting (--render).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			episodes, _ := cmd.Flags().GetInt("episodes")
			seed, _ := cmd.Flags().GetInt64("seed")
			workers, _ := cmd.Flags().GetInt("workers")
			policyName, _ := cmd.Flags().GetString("policy")
			doRender, _ := cmd.Flags().GetBool("render")
			save, _ := cmd.Flags().GetBool("save")

			var st store.EpisodeStore = store.NewNoopStore()
			if save {
				sqlStore, err := store.NewSQLiteStore(app.Config.Output.Database)
				if err != nil {
					return fmt.Errorf("opening episode database: %w", err)
				}
				defer sqlStore.Close()
				st = sqlStore
			}

			var renderer *render.Renderer
			if doRender {
				var err error
				renderer, err = render.NewRenderer(app.Config.Output.PlotsDir)
				if err != nil {
					return err
				}
			}

			r := runner.New(app.Config.Parameters(), app.Logger, st, renderer)
			summaries, err := r.Run(cmd.Context(), runner.Options{
				Episodes: episodes,
				Seed:     seed,
				Workers:  workers,
				Policy:   policyName,
				Render:   doRender,
			})
			if err != nil {
				return err
			}

			out := NewOutput(cmd)
			if out.IsJSON() {
				return out.JSON(summaries)
			}
			printSummaries(out, summaries)
			return nil
		},
	}

	cmd.Flags().Int("episodes", app.Config.Run.Episodes, "number of episodes to run")
	cmd.Flags().Int64("seed", app.Config.Run.Seed, "base random seed")
	cmd.Flags().Int("workers", app.Config.Run.Workers, "concurrent workers (one episode each)")
	cmd.Flags().String("policy", app.Config.Run.Policy, "policy: zero, random, delta")
	cmd.Flags().Bool("render", false, "export per-step series for plotting")
	cmd.Flags().Bool("save", false, "save episodes to the database")

	return cmd
}

func printSummaries(out *Output, summaries []runner.Summary) {
	out.Printf("%-8s %-12s %-6s %12s %12s %12s %12s\n",
		"EPISODE", "SEED", "STEPS", "REWARD", "COST", "PROFIT", "FINAL PX")
	rewards := make([]float64, len(summaries))
	for i, s := range summaries {
		rewards[i] = s.TotalReward
		out.Printf("%-8d %-12d %-6d %12s %12.4f %12s %12.2f\n",
			s.Episode, s.Seed, s.Steps,
			utils.FormatSigned(s.TotalReward), s.TotalCost,
			utils.FormatSigned(s.TotalProfit), s.FinalPrice)
	}
	if len(summaries) > 1 {
		out.Printf("\nmean reward %s  stddev %.4f\n",
			utils.FormatSigned(utils.Mean(rewards)), utils.StdDev(rewards))
	}
}
