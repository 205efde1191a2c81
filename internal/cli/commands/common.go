package commands

import (
	"context"
	"fmt"

	"github.com/healthease/portal/internal/cli/config"
	"github.com/healthease/portal/internal/cli/portalselect"
	envconfig "github.com/healthease/portal/internal/config"
	"github.com/healthease/portal/internal/storage"
)

// getSelectedPortal loads the config and returns the portal to talk to.
// This is common logic used by most commands.
func getSelectedPortal(urlOrAlias string) (*config.Portal, error) {
	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'healthease init <portal-url>' to create a configuration file", err)
	}

	portal, err := portalselect.ResolvePortal(cfg, urlOrAlias)
	if err != nil {
		return nil, err
	}

	if portal.URL == "" {
		return nil, fmt.Errorf("portal URL is empty. Please edit %s and add a valid URL", config.ConfigFileName)
	}

	return portal, nil
}

// openStorage opens local storage at the configured or default path
func openStorage(env *envconfig.Config) (*storage.Store, error) {
	path := env.Storage.Path
	if path == "" {
		defaultPath, err := storage.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	store, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local storage: %w", err)
	}
	return store, nil
}

// loadEnv returns the environment config the root command loaded, reading
// it only when the command runs without the root (tests, direct calls)
func loadEnv(ctx context.Context) (*envconfig.Config, error) {
	if env, ok := envconfig.FromContext(ctx); ok {
		return env, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return envconfig.Load(ctx)
}
