package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"hedge-gym/internal/render"
	"hedge-gym/internal/store"
)

func newEpisodesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "episodes",
		Short: "Inspect saved episodes",
	}

	cmd.AddCommand(newEpisodesListCmd(app))
	cmd.AddCommand(newEpisodesExportCmd(app))
	return cmd
}

func newEpisodesListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved episodes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			policyName, _ := cmd.Flags().GetString("policy")

			st, err := store.NewSQLiteStore(app.Config.Output.Database)
			if err != nil {
				return fmt.Errorf("opening episode database: %w", err)
			}
			defer st.Close()

			records, err := st.ListEpisodes(cmd.Context(), store.EpisodeFilter{
				Policy: policyName,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			out := NewOutput(cmd)
			if out.IsJSON() {
				return out.JSON(records)
			}
			if len(records) == 0 {
				out.Println("no saved episodes")
				return nil
			}
			out.Printf("%-6s %-20s %-8s %-12s %-6s %12s %12s\n",
				"ID", "CREATED", "POLICY", "SEED", "STEPS", "REWARD", "COST")
			for _, r := range records {
				out.Printf("%-6d %-20s %-8s %-12d %-6d %12.4f %12.4f\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"),
					r.Policy, r.Seed, r.Steps, r.TotalReward, r.TotalCost)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "maximum episodes to list")
	cmd.Flags().String("policy", "", "filter by policy name")
	return cmd
}

func newEpisodesExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <id>",
		Short: "Export a saved episode's series for plotting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid episode id %q", args[0])
			}

			st, err := store.NewSQLiteStore(app.Config.Output.Database)
			if err != nil {
				return fmt.Errorf("opening episode database: %w", err)
			}
			defer st.Close()

			record, err := st.GetEpisode(cmd.Context(), id)
			if err != nil {
				return err
			}

			renderer, err := render.NewRenderer(app.Config.Output.PlotsDir)
			if err != nil {
				return err
			}
			if err := renderer.Render(record.Series); err != nil {
				return err
			}

			NewOutput(cmd).Printf("episode %d exported to %s\n", id, app.Config.Output.PlotsDir)
			return nil
		},
	}
}
