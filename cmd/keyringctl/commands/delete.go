package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
)

// NewDeleteCommand removes the record for a service/user pair.
func NewDeleteCommand(opts *Options) *cobra.Command {
	var uuid string

	cmd := &cobra.Command{
		Use:   "delete <service> <user>",
		Short: "Delete a credential",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, user := args[0], args[1]

			store, err := opts.OpenStore()
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					opts.Logger.Error("saving store: %v", err)
				}
			}()

			entry, err := entryFor(store, service, user, uuid)
			if err != nil {
				return err
			}
			if err := entry.DeleteCredential(); err != nil {
				var ambiguous *keyring.AmbiguousError
				if errors.As(err, &ambiguous) {
					reportAmbiguity(opts.Logger, ambiguous)
				}
				return err
			}
			opts.Logger.Info("deleted credential for %s/%s", service, user)
			return nil
		},
	}

	cmd.Flags().StringVar(&uuid, "uuid", "", "Pin the operation to one record UUID")
	return cmd
}
