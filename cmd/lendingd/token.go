package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-lending-go/config"
	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/httpapi"
)

func newTokenCommand(a *app) *cobra.Command {
	var (
		patronID string
		role     string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed identity token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.JWTSecret == "" {
				return fmt.Errorf("%w: JWT_SECRET is required to issue tokens", config.ErrInvalidConfig)
			}

			switch httpapi.Role(role) {
			case httpapi.RolePatron, httpapi.RoleLibrarian:
			default:
				return fmt.Errorf("%w: unknown role %q", config.ErrInvalidConfig, role)
			}

			identity := httpapi.Identity{PatronID: core.PatronIDString(patronID), Role: httpapi.Role(role)}

			token, err := httpapi.IssueToken([]byte(a.cfg.JWTSecret), identity, ttl, time.Now())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)

			return err
		},
	}

	cmd.Flags().StringVar(&patronID, "patron", "", "patron id the token identifies")
	cmd.Flags().StringVar(&role, "role", string(httpapi.RolePatron), "patron or librarian")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("patron")

	return cmd
}
