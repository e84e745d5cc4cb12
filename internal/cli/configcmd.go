package cli

import (
	"github.com/spf13/cobra"

	"hedge-gym/internal/config"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cmd)
			if out.IsJSON() {
				return out.JSON(app.Config)
			}

			p := app.Config.Parameters()
			out.Println("environment:")
			out.Printf("  tick_size          %g\n", p.TickSize)
			out.Printf("  option_size        %d\n", p.OptionSize)
			out.Printf("  horizon            %d\n", p.Horizon)
			out.Printf("  s0                 %g\n", p.S0)
			out.Printf("  sigma              %g\n", p.Sigma)
			out.Printf("  kappa              %g\n", p.Kappa)
			out.Printf("  penalty_weight     %g\n", p.PenaltyWeight)
			out.Printf("  max_penalty        %g\n", p.MaxPenalty)
			out.Printf("  min_price          %g\n", p.MinPrice)
			out.Printf("  max_price          %g\n", p.MaxPrice)
			out.Printf("  action_normalizer  %g\n", p.ActionNormalizer)
			out.Println("run:")
			out.Printf("  episodes  %d\n", app.Config.Run.Episodes)
			out.Printf("  seed      %d\n", app.Config.Run.Seed)
			out.Printf("  workers   %d\n", app.Config.Run.Workers)
			out.Printf("  policy    %s\n", app.Config.Run.Policy)
			out.Println("output:")
			out.Printf("  plots_dir  %s\n", app.Config.Output.PlotsDir)
			out.Printf("  database   %s\n", app.Config.Output.Database)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration directory",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(config.DefaultConfigDir())
		},
	})

	return cmd
}
