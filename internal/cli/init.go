package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ivory/internal/paths"
)

func newInitCmd() *cobra.Command {
	var user bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize ivory storage",
		Long: "Create the configuration and data directories, then attach the storage\n" +
			"backend once. With --user the data directory is the per-user platform\n" +
			"location and is saved to config.yaml.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, user)
		},
	}
	cmd.Flags().BoolVar(&user, "user", false, "store data in the per-user data directory")
	return cmd
}

func runInit(cmd *cobra.Command, user bool) (err error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return sysError(err)
	}
	if user && flags.dataDir == "" && settings.GetString(cfgKeyDataDir) == "" {
		dir, err := paths.DefaultDataDir()
		if err != nil {
			return sysError(fmt.Errorf("resolve user data dir: %w", err))
		}
		settings.Set(cfgKeyDataDir, dir)
		if err := settings.WriteConfig(); err != nil {
			return sysError(fmt.Errorf("write config: %w", err))
		}
	}

	backend, cfg, err := attachBackend()
	if err != nil {
		return err
	}
	defer detach(backend, &err)

	if flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), map[string]string{
			"config_dir": configDir,
			"data_dir":   cfg.DataDir,
			"backend":    cfg.Backend,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Ivory initialized (backend %s, data %s)\n", cfg.Backend, cfg.DataDir)
	return nil
}
