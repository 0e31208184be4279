package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
)

// NewSetCommand stores a password for a service/user pair.
func NewSetCommand(opts *Options) *cobra.Command {
	var (
		uuid   string
		create string
	)

	cmd := &cobra.Command{
		Use:   "set <service> <user>",
		Short: "Store a password",
		Long: `Store a password for a service/user pair.

The password is read from stdin, so it never appears in shell history or
process listings:

  # Store interactively or from a pipe
  keyringctl set my-service alice < password.txt

  # Deliberately create an additional record for the pair
  keyringctl set my-service alice --create "second client"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, user := args[0], args[1]

			reader := bufio.NewReader(cmd.InOrStdin())
			password, err := reader.ReadString('\n')
			if err != nil && password == "" {
				return fmt.Errorf("reading password from stdin: %w", err)
			}
			password = strings.TrimRight(password, "\r\n")

			store, err := opts.OpenStore()
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					opts.Logger.Error("saving store: %v", err)
				}
			}()

			var entry *keyring.Entry
			if create != "" {
				entry, err = store.Build(service, user, map[string]string{"create": create})
			} else {
				entry, err = entryFor(store, service, user, uuid)
			}
			if err != nil {
				return err
			}

			if err := entry.SetPassword(password); err != nil {
				var ambiguous *keyring.AmbiguousError
				if errors.As(err, &ambiguous) {
					reportAmbiguity(opts.Logger, ambiguous)
				}
				return err
			}
			opts.Logger.Info("password set for %s/%s", service, user)
			return nil
		},
	}

	cmd.Flags().StringVar(&uuid, "uuid", "", "Pin the operation to one record UUID")
	cmd.Flags().StringVar(&create, "create", "", "Force-create a new record with this comment")
	return cmd
}
