package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"urlexport/internal/auth"
)

func newTokenCommand(ctx *commandContext) *cobra.Command {
	var user string
	var caps []string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin session token",
		Long:  "Mint a signed session token. Send it as the session cookie or as an Authorization: Bearer header.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := auth.NewManager(ctx.ensureConfig().Auth)
			if err != nil {
				return err
			}
			token, err := m.IssueSession(user, caps)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "admin", "User login to embed in the token")
	cmd.Flags().StringSliceVar(&caps, "caps", []string{auth.CapManageOptions}, "Capabilities granted to the session")
	return cmd
}
