package main

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/erazemk/itemize/internal/config"
	"github.com/erazemk/itemize/internal/demo"
	"github.com/erazemk/itemize/internal/inventory"
	"github.com/erazemk/itemize/internal/prefs"
)

// Global flag values.
var (
	flagConfigDir string
	flagJSON      bool
)

// Set by PersistentPreRunE for the running command.
var (
	cfg      *config.Config
	injector *do.RootScope
	closeLog func()
)

var rootCmd = &cobra.Command{
	Use:           "itemize",
	Short:         "Itemize keeps track of the things you own",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg, err = config.Decode(v)
		if err != nil {
			return err
		}

		closeLog, err = setupLogger(cfg.LogLevel(), cfg.Log.File)
		if err != nil {
			return err
		}

		injector = newContainer(cfg)

		if cfg.Demo.SeedOnStart && cmd.Annotations[annotationNoSeed] == "" {
			if _, err := demoManager().EnsureSeeded(cmd.Context()); err != nil {
				return err
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return shutdown()
	},
}

// annotationNoSeed marks commands that must not seed demo data first.
const annotationNoSeed = "itemize/no-seed"

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/itemize)")
	flags.String("data-dir", "", "data directory (default: $XDG_DATA_HOME/itemize)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usagef("%v", err)
	})

	rootCmd.AddCommand(listCmd, showCmd, addCmd, editCmd, rmCmd, favCmd, findCmd, qtyCmd)
	rootCmd.AddCommand(categoryCmd, tagCmd, imageCmd, demoCmd, prefsCmd)
}

// loadConfig reads config.yaml and binds the flags that override it.
// Precedence: flag > ITEMIZE_* env > config.yaml > default.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	configDir := flagConfigDir
	if configDir == "" {
		dir, err := config.DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	v, err := config.New(configDir)
	if err != nil {
		return nil, err
	}

	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag(config.KeyDataDir, flags.Lookup("data-dir")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level")); err != nil {
		return nil, err
	}
	return v, nil
}

// shutdown releases everything the container created and closes the log.
func shutdown() error {
	if injector != nil {
		if report := injector.Shutdown(); report != nil && !report.Succeed {
			return report
		}
		injector = nil
	}
	if closeLog != nil {
		closeLog()
		closeLog = nil
	}
	return nil
}

func inventoryService() *inventory.Service {
	return do.MustInvoke[*inventory.Service](injector)
}

func demoManager() *demo.Manager {
	return do.MustInvoke[*demo.Manager](injector)
}

func preferences() *prefs.Prefs {
	return do.MustInvoke[*prefs.Prefs](injector)
}
