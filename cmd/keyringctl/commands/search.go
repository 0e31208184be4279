package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
)

// NewSearchCommand finds records matching field patterns.
func NewSearchCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <key=pattern>...",
		Short: "Search for credentials",
		Long: `Find records whose fields match the given regular expressions.
Recognized keys: service, user, comment, uuid. Patterns are conjunctive.

  keyringctl search service='^prod-' user=alice`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := make(map[string]string, len(args))
			for _, arg := range args {
				key, pattern, found := strings.Cut(arg, "=")
				if !found {
					return fmt.Errorf("bad search term %q, want key=pattern", arg)
				}
				spec[key] = pattern
			}

			store, err := opts.OpenStore()
			if err != nil {
				return err
			}

			results, err := store.Search(spec)
			if err != nil {
				return err
			}
			printEntries(cmd, results)
			opts.Logger.Debug("search matched %d records", len(results))
			return nil
		},
	}
	return cmd
}

// NewListCommand prints every record in the store.
func NewListCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.OpenStore()
			if err != nil {
				return err
			}
			results, err := store.Search(map[string]string{})
			if err != nil {
				return err
			}
			printEntries(cmd, results)
			return nil
		},
	}
	return cmd
}

func printEntries(cmd *cobra.Command, entries []*keyring.Entry) {
	for _, entry := range entries {
		service, user, _ := entry.Specifiers()
		attrs, err := entry.GetAttributes()
		if err != nil {
			continue // deleted between scan and read
		}
		line := fmt.Sprintf("%s\t%s\tuuid=%s", service, user, attrs["uuid"])
		if comment, ok := attrs["comment"]; ok {
			line += "\tcomment=" + comment
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}
