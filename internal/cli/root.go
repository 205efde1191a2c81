package cli

import (
	"fmt"
	"os"

	"github.com/healthease/portal/internal/cli/commands"
	"github.com/healthease/portal/internal/config"
	"github.com/healthease/portal/internal/logger"
	"github.com/spf13/cobra"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "healthease",
	Short: "HealthEase - sign in to your healthcare portal",
	Long: `HealthEase CLI - sign in to your HealthEase portal from the terminal.

Configure a portal with 'healthease init', then run 'healthease login'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		logger.Init(env.Logging.Level, env.Logging.Format)
		cmd.SetContext(config.WithContext(cmd.Context(), env))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "healthease version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewOpenCmd())
	rootCmd.AddCommand(commands.NewSelectPortalCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
