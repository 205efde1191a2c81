package commands

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/healthease/portal/internal/cli/config"
	"github.com/spf13/cobra"
)

type initOptions struct {
	alias  string
	apiURL string
	out    io.Writer
}

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init <portal-url>",
		Short: "Add a HealthEase portal to ./healthease.yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.out = cmd.OutOrStdout()
			return runInit(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.alias, "alias", "", "Portal alias (default: production for the first portal)")
	cmd.Flags().StringVar(&opts.apiURL, "api-url", "", "API base URL if not served under <portal-url>/api")

	return cmd
}

func runInit(portalURL string, opts *initOptions) error {
	if opts.out == nil {
		opts.out = os.Stdout
	}

	parsed, err := url.Parse(portalURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid portal URL '%s', expected something like https://portal.example.com", portalURL)
	}

	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(currentDir, config.ConfigFileName)

	var cfg *config.Config
	isNewConfig := false

	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		fmt.Fprintf(opts.out, "Found existing %s\n", config.ConfigFileName)
	} else {
		cfg = &config.Config{}
		isNewConfig = true
	}

	alias := opts.alias
	if alias == "" {
		if len(cfg.Portals) == 0 {
			alias = "production"
		} else {
			alias = fmt.Sprintf("portal-%d", len(cfg.Portals)+1)
		}
	}

	if !cfg.AddPortal(config.Portal{Alias: alias, URL: portalURL, APIURL: opts.apiURL}) {
		fmt.Fprintf(opts.out, "Portal %s already exists in %s\n", portalURL, config.ConfigFileName)
		return nil
	}

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	if isNewConfig {
		fmt.Fprintf(opts.out, "✓ Created ./%s with portal %s (%s)\n", config.ConfigFileName, portalURL, alias)
	} else {
		fmt.Fprintf(opts.out, "✓ Added portal %s (%s) to ./%s\n", portalURL, alias, config.ConfigFileName)
	}

	fmt.Fprintln(opts.out, "\nNext steps:")
	fmt.Fprintln(opts.out, "  Run 'healthease login' to sign in")

	return nil
}
