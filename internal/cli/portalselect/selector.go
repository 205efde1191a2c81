package portalselect

import (
	"fmt"

	"github.com/healthease/portal/internal/cli/config"
	"github.com/healthease/portal/internal/cli/userconfig"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
)

// Prompt asks the user to pick a portal. Tests replace it.
var Prompt = PromptPortalSelection

// ResolvePortal determines which portal to use based on the following priority:
// 1. If urlOrAlias is provided (flag or HEALTHEASE_PORTAL), use that portal
// 2. If user has a selected portal in their local config, use that
// 3. If only one portal in project config, use that
// 4. Otherwise, prompt user to select a portal interactively
func ResolvePortal(projectConfig *config.Config, urlOrAlias string) (*config.Portal, error) {
	if urlOrAlias != "" {
		return projectConfig.GetPortalByURLOrAlias(urlOrAlias)
	}

	selectedURL, err := userconfig.GetSelectedPortal()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	if selectedURL != "" {
		portal, err := projectConfig.GetPortalByURL(selectedURL)
		if err == nil {
			return portal, nil
		}
		// Selected portal no longer exists in project config, clear it and continue
		_ = userconfig.ClearSelectedPortal()
	}

	if len(projectConfig.Portals) == 0 {
		return nil, fmt.Errorf("no portals configured in %s", config.ConfigFileName)
	}

	var portal *config.Portal
	if len(projectConfig.Portals) == 1 {
		portal = &projectConfig.Portals[0]
	} else {
		portal, err = Prompt(projectConfig)
		if err != nil {
			return nil, err
		}
	}

	if err := userconfig.SetSelectedPortal(portal.URL); err != nil {
		// Don't fail if we can't save, just continue
		log.Warn().Err(err).Msg("Failed to save selected portal")
	}

	return portal, nil
}

// PromptPortalSelection shows an interactive prompt for the user to select a portal
func PromptPortalSelection(projectConfig *config.Config) (*config.Portal, error) {
	if len(projectConfig.Portals) == 0 {
		return nil, fmt.Errorf("no portals configured in %s", config.ConfigFileName)
	}

	type portalOption struct {
		Label  string
		Portal *config.Portal
	}

	options := make([]portalOption, len(projectConfig.Portals))
	for i := range projectConfig.Portals {
		portal := &projectConfig.Portals[i]
		options[i] = portalOption{
			Label:  fmt.Sprintf("%s (%s)", portal.Alias, portal.URL),
			Portal: portal,
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Select a portal",
		Items:     options,
		Templates: templates,
		Size:      10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("portal selection cancelled: %w", err)
	}

	return options[index].Portal, nil
}
