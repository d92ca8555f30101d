package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/folio/internal/keys"
)

// newTokenCmd manages the API token kept in the system keyring. serve reads
// it when auth.keyring is set and auth.token is empty.
func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "token",
		Short:       "Manage the API token in the system keyring",
		Annotations: map[string]string{noAppAnnotation: "true"},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			if !keys.KeyringAvailable() {
				return errors.New("no system keyring available; set auth.token in the config instead")
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [token]",
		Short: "Store a token, generating one when none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok := ""
			if len(args) == 1 {
				tok = args[0]
			} else {
				var err error
				if tok, err = keys.NewToken(); err != nil {
					return err
				}
			}
			if err := tokenStore().Put(keys.TokenID, tok); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := tokenStore().Get(keys.TokenID)
			if errors.Is(err, keys.ErrKeyNotFound) {
				return errors.New("no token in the keyring; run `folio-cli token set`")
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tokenStore().Delete(keys.TokenID); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Token removed")
			return nil
		},
	})

	return cmd
}

func tokenStore() keys.Store {
	return &keys.KeyringStore{}
}
