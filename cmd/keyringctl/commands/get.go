package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
)

// NewGetCommand prints the password for a service/user pair.
func NewGetCommand(opts *Options) *cobra.Command {
	var uuid string

	cmd := &cobra.Command{
		Use:   "get <service> <user>",
		Short: "Print a password",
		Long: `Retrieve the password for a service/user pair and print it to stdout.

Only the raw value is printed, making it suitable for scripting:

  export DB_PASSWORD=$(keyringctl get my-service alice)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, user := args[0], args[1]

			store, err := opts.OpenStore()
			if err != nil {
				return err
			}
			// read-only command, nothing to save

			entry, err := entryFor(store, service, user, uuid)
			if err != nil {
				return err
			}
			password, err := entry.GetPassword()
			if err != nil {
				var ambiguous *keyring.AmbiguousError
				if errors.As(err, &ambiguous) {
					reportAmbiguity(opts.Logger, ambiguous)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), password)
			return nil
		},
	}

	cmd.Flags().StringVar(&uuid, "uuid", "", "Pin the operation to one record UUID")
	return cmd
}
