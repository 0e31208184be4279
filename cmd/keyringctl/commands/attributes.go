package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
)

// NewAttributesCommand shows or updates a record's attributes.
func NewAttributesCommand(opts *Options) *cobra.Command {
	var (
		uuid    string
		updates []string
	)

	cmd := &cobra.Command{
		Use:   "attributes <service> <user>",
		Short: "Show or update credential attributes",
		Long: `Show the attributes of the record for a service/user pair, or update
mutable ones with --set:

  keyringctl attributes my-service alice
  keyringctl attributes my-service alice --set comment="rotated by ops"`,
		Args: cobra.ExactArgs(2),
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

			if len(updates) > 0 {
				attrs := make(map[string]string, len(updates))
				for _, update := range updates {
					key, value, found := strings.Cut(update, "=")
					if !found {
						return fmt.Errorf("bad --set value %q, want key=value", update)
					}
					attrs[key] = value
				}
				if err := entry.UpdateAttributes(attrs); err != nil {
					var ambiguous *keyring.AmbiguousError
					if errors.As(err, &ambiguous) {
						reportAmbiguity(opts.Logger, ambiguous)
					}
					return err
				}
			}

			attrs, err := entry.GetAttributes()
			if err != nil {
				var ambiguous *keyring.AmbiguousError
				if errors.As(err, &ambiguous) {
					reportAmbiguity(opts.Logger, ambiguous)
				}
				return err
			}
			keys := make([]string, 0, len(attrs))
			for key := range attrs {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, attrs[key])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&uuid, "uuid", "", "Pin the operation to one record UUID")
	cmd.Flags().StringArrayVar(&updates, "set", nil, "Update an attribute (key=value, repeatable)")
	return cmd
}
