// Package cmd implements the thinwrap command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config keys shared by flags, the config file and THINWRAP_* variables.
const (
	keyManifest = "manifest"
	keyTarget   = "target"
	keyPackage  = "package"
	keyWorkers  = "workers"
	keyFeatures = "features"
	keyVerbose  = "verbose"
)

// app carries the state shared by all subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
	log     *zap.Logger
}

// Execute runs the root command with signal handling.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	root := NewRootCommand()
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

// NewRootCommand builds the thinwrap command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), log: zap.NewNop()}
	root := &cobra.Command{
		Use:   "thinwrap",
		Short: "Generate ownership wrappers for foreign handles",
		Long: `thinwrap reads a manifest of foreign handle kinds and generates a Go package
with one named ownership wrapper per kind.

Defaults for every flag can be set in .thinwrap.yaml or with THINWRAP_*
environment variables, e.g. THINWRAP_MANIFEST=gfx/manifest.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./.thinwrap.yaml)")
	flags.StringP(keyManifest, "m", "thinwrap.yaml", "manifest file")
	flags.BoolP(keyVerbose, "v", false, "verbose logging")
	_ = a.v.BindPFlag(keyManifest, flags.Lookup(keyManifest))
	_ = a.v.BindPFlag(keyVerbose, flags.Lookup(keyVerbose))

	root.AddCommand(a.genCommand(), a.checkCommand())
	return root
}

// init reads the config file and environment and builds the logger.
func (a *app) init() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigName(".thinwrap")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("thinwrap")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	var err error
	if a.v.GetBool(keyVerbose) {
		a.log, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.Encoding = "console"
		a.log, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug("using config file", zap.String("file", used))
	}
	return nil
}
