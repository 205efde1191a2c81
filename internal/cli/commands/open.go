package commands

import (
	"fmt"
	"strings"

	"github.com/healthease/portal/internal/cli/navigator"
	"github.com/healthease/portal/internal/loginflow"
	"github.com/spf13/cobra"
)

// NewOpenCmd creates the open command for the pages linked from the login form
func NewOpenCmd() *cobra.Command {
	var portalFlag string
	var printOnly bool

	cmd := &cobra.Command{
		Use:       "open <" + strings.Join(loginflow.LinkNames(), "|") + ">",
		Short:     "Open a portal page in your browser",
		Args:      cobra.ExactArgs(1),
		ValidArgs: loginflow.LinkNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			route, err := loginflow.ParseLink(args[0])
			if err != nil {
				return err
			}

			env, err := loadEnv(cmd.Context())
			if err != nil {
				return err
			}
			if portalFlag == "" {
				portalFlag = env.Portal
			}

			portal, err := getSelectedPortal(portalFlag)
			if err != nil {
				return err
			}

			nav := navigator.New(portal.URL, cmd.OutOrStdout(), navigator.WithBrowser(!printOnly))
			if err := nav.Navigate(cmd.Context(), loginflow.Navigation{Route: route}); err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&portalFlag, "portal", "", "Portal URL or alias (or set HEALTHEASE_PORTAL)")
	cmd.Flags().BoolVar(&printOnly, "print", false, "Only print the URL")

	return cmd
}
