package cli

import (
	"context"
	"log"

	"github.com/spf13/cobra"
)

// NewResetCmd restores the initial dashboard and clears the history without starting the server.
func NewResetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the initial dashboard and clear history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cmd.Context(), *configPath)
		},
	}
}

func runReset(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	rt, err := openRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	service, err := rt.buildService(ctx)
	if err != nil {
		return err
	}
	state, err := service.Reset(ctx)
	if err != nil {
		return err
	}
	log.Printf("INFO: [CLI] reset complete: %d pilares, %d badges", len(state.Pilars), len(state.Badges))
	return nil
}
