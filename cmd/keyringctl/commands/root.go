// Package commands implements the keyringctl subcommands. keyringctl is a
// small inspection and editing tool for sample-store backing files; it is
// also a worked example of driving the keyring API end to end.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/open-source-cooperative/keyring-core/internal/logging"
	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
	"github.com/open-source-cooperative/keyring-core/pkg/sample"
)

// Options carries the global flags shared by all subcommands.
type Options struct {
	File    string
	Debug   bool
	NoColor bool
	Logger  *logging.Logger
}

// DefaultFile returns the standard backing file location.
func DefaultFile() string {
	return filepath.Join(xdg.DataHome, "keyringctl", "store.yaml")
}

// OpenStore opens the configured backing file as a sample store. The parent
// directory is created if needed. Callers must close the returned store to
// persist their changes.
func (o *Options) OpenStore() (*sample.Store, error) {
	if err := os.MkdirAll(filepath.Dir(o.File), 0o700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	store, err := sample.NewWithBacking(o.File)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", o.File, err)
	}
	o.Logger.Debug("opened store %s (%s)", o.File, store.ID())
	return store, nil
}

// NewRootCommand builds the keyringctl command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "keyringctl",
		Short: "Inspect and edit keyring sample-store files",
		Long: `keyringctl operates on the file-backed sample credential store.

Credentials are addressed by a service name and a username. When several
records exist for one pair (ambiguity), commands report the candidate
record UUIDs; use --uuid to pin a command to one of them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.Logger = logging.New(opts.Debug, opts.NoColor)
			keyring.SetDebug(opts.Debug)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.File, "file", DefaultFile(), "Backing file path")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		NewSetCommand(opts),
		NewGetCommand(opts),
		NewDeleteCommand(opts),
		NewAttributesCommand(opts),
		NewSearchCommand(opts),
		NewListCommand(opts),
	)

	return rootCmd
}

// entryFor resolves service/user to an entry, honoring a uuid pin. With a
// uuid, the entry is the wrapper found by an exact-uuid search; without
// one, it is a plain specifier.
func entryFor(store *sample.Store, service, user, uuid string) (*keyring.Entry, error) {
	if uuid == "" {
		return store.Build(service, user, nil)
	}
	results, err := store.Search(map[string]string{
		"service": "^" + regexp.QuoteMeta(service) + "$",
		"user":    "^" + regexp.QuoteMeta(user) + "$",
		"uuid":    "^" + regexp.QuoteMeta(uuid) + "$",
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, keyring.ErrNoEntry
	}
	return results[0], nil
}

// reportAmbiguity prints the disambiguation set from an AmbiguousError so
// the user can re-run with --uuid.
func reportAmbiguity(logger *logging.Logger, ambiguous *keyring.AmbiguousError) {
	logger.Warn("%d records match; re-run with --uuid to pick one:", len(ambiguous.Entries))
	for _, entry := range ambiguous.Entries {
		attrs, err := entry.GetAttributes()
		if err != nil {
			continue
		}
		line := "  uuid=" + attrs["uuid"]
		if comment, ok := attrs["comment"]; ok {
			line += " comment=" + comment
		}
		if created, ok := attrs["creation_time"]; ok {
			line += " created=" + created
		}
		logger.Info("%s", line)
	}
}
