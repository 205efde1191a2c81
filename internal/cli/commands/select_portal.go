package commands

import (
	"fmt"

	"github.com/healthease/portal/internal/cli/config"
	"github.com/healthease/portal/internal/cli/portalselect"
	"github.com/healthease/portal/internal/cli/userconfig"
	"github.com/spf13/cobra"
)

// NewSelectPortalCmd creates the select-portal command
func NewSelectPortalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select-portal [url-or-alias]",
		Short: "Select the portal to use for commands",
		Long: `Select the portal to use for commands.

If no param is provided, an interactive prompt will be shown.

Examples:
  $ healthease select-portal                                 # Interactive selection
  $ healthease select-portal https://portal.healthease.io   # Select by URL
  $ healthease select-portal staging                         # Select by alias`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var urlOrAlias string
			if len(args) > 0 {
				urlOrAlias = args[0]
			}
			return runSelectPortal(cmd, urlOrAlias)
		},
	}

	return cmd
}

func runSelectPortal(cmd *cobra.Command, urlOrAlias string) error {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return fmt.Errorf("failed to load config: %w\nRun 'healthease init <portal-url>' to create a configuration file", err)
	}

	var portal *config.Portal
	if urlOrAlias != "" {
		portal, err = cfg.GetPortalByURLOrAlias(urlOrAlias)
	} else {
		portal, err = portalselect.Prompt(cfg)
	}
	if err != nil {
		return err
	}

	if err := userconfig.SetSelectedPortal(portal.URL); err != nil {
		return fmt.Errorf("failed to save selected portal: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Selected portal: %s (%s)\n", portal.Alias, portal.URL)
	return nil
}
