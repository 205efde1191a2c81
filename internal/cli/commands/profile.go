package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/healthease/portal/internal/loginflow"
	"github.com/spf13/cobra"
)

// profileStore is the part of local storage whoami and logout need
type profileStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Remove(ctx context.Context, keys ...string) error
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the role and status cached by the last login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfileStore(cmd, func(store profileStore) error {
				return runWhoami(cmd.Context(), store, cmd.OutOrStdout())
			})
		},
	}
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the role and status cached by the last login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfileStore(cmd, func(store profileStore) error {
				return runLogout(cmd.Context(), store, cmd.OutOrStdout())
			})
		},
	}
}

func withProfileStore(cmd *cobra.Command, fn func(profileStore) error) error {
	env, err := loadEnv(cmd.Context())
	if err != nil {
		return err
	}

	store, err := openStorage(env)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store)
}

func runWhoami(ctx context.Context, store profileStore, out io.Writer) error {
	role, hasRole, err := store.Get(ctx, loginflow.StorageKeyRole)
	if err != nil {
		return err
	}
	status, hasStatus, err := store.Get(ctx, loginflow.StorageKeyStatus)
	if err != nil {
		return err
	}

	if !hasRole && !hasStatus {
		fmt.Fprintln(out, "No cached profile. Run 'healthease login' first.")
		return nil
	}

	if hasRole {
		fmt.Fprintf(out, "Role:      %s\n", role)
	}
	if hasStatus {
		fmt.Fprintf(out, "Status:    %s\n", status)
	}
	fmt.Fprintf(out, "Dashboard: %s\n", loginflow.RouteForRole(role))

	return nil
}

func runLogout(ctx context.Context, store profileStore, out io.Writer) error {
	if err := store.Remove(ctx, loginflow.StorageKeyRole, loginflow.StorageKeyStatus); err != nil {
		return err
	}
	fmt.Fprintln(out, "✓ Cleared cached profile")
	return nil
}
