// Root command for the quill CLI.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quill/internal/paths"
	"github.com/mesh-intelligence/quill/pkg/types"
)

// version is stamped by the build (mage build); the default marks dev builds.
var version = "0.3.0-dev"

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagVerbose   bool
)

// cfg holds the configuration loaded by PersistentPreRunE so all
// subcommands can use it.
var cfg types.Config

// log is the process logger, configured from --verbose.
var log zerolog.Logger

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Quill is a personal worldbuilding companion",
	Long: `Quill mirrors your worldbuilding projects (characters, worlds, writings,
timeline eras and events, catalogue) from the quill entity service, keeps an
offline snapshot, and edits entities through confirmed server round-trips.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = newLogger(flagVerbose)

		// The stub service and version need no configuration.
		if cmd.Name() == "stub" || cmd.Name() == "version" {
			return nil
		}

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		loaded, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory for the offline snapshot (default: $(CWD)/.quill-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newProjectsCmd())
	rootCmd.AddCommand(newEraCmd())
	rootCmd.AddCommand(newEventCmd())
	rootCmd.AddCommand(newCharacterCmd())
	rootCmd.AddCommand(newWorldCmd())
	rootCmd.AddCommand(newWritingCmd())
	rootCmd.AddCommand(newItemCmd())
	rootCmd.AddCommand(newStubCmd())
}

// newLogger builds the process logger. Debug level only with --verbose;
// otherwise warnings and up, so command output stays clean.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// resolveConfigDir returns the configuration directory following the
// precedence flag > QUILL_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDataDir returns the data directory following the precedence
// flag > config value > QUILL_DATA_DIR env > CWD default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, cfg.DataDir)
}
