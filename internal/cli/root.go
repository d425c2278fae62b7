// Package cli implements the ivory command-line interface.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/ivory/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
}

var (
	flags rootFlags

	// settings is the configuration loaded before each command runs.
	settings *viper.Viper
)

// NewRootCmd creates the top-level "ivory" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ivory",
		Short: "An in-memory typed-column table store",
		Long:  "Ivory keeps small tables of typed columns keyed by a text ID,\nsorted on demand and persisted as checksummed snapshots.",
		// Errors are printed once by Execute with the matching exit code.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .ivory-db)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newCreateCmd())
	root.AddCommand(newDropCmd())
	root.AddCommand(newTablesCmd())
	root.AddCommand(newColumnCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newFindCmd())
	root.AddCommand(newSortCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newExportCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ivory: %s\n", err)
		os.Exit(exitCode(err))
	}
}

// setup loads the configuration and installs the logger for every command
// except version.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := resolveConfigDir()
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	settings = v

	level := flags.logLevel
	if level == "" {
		level = v.GetString(cfgKeyLogLevel)
	}
	logger, err := newLogger(cmd.ErrOrStderr(), level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	slog.Debug("config loaded", "config_dir", configDir, "backend", v.GetString(cfgKeyBackend))
	return nil
}

// exitError carries an explicit exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// sysError marks err as an environment failure rather than a usage mistake.
func sysError(err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: exitSysError, err: err}
}

// exitCode maps an error returned by a command to a process exit code.
// Storage failures and corrupt snapshots are system errors. Other unmarked
// errors are usage errors; this covers cobra's own argument checks as well
// as every validation error from the store.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, types.ErrStorage) || errors.Is(err, types.ErrCorruptSnapshot) {
		return exitSysError
	}
	return exitUserError
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
