package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lifegrid/internal/app"
	"lifegrid/internal/logging"
)

// env is shared by every subcommand once the root has parsed its flags.
type env struct {
	cfg        *app.Config
	v          *viper.Viper
	configFile string
	logger     *logrus.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{cfg: app.NewConfig(), v: viper.New()}

	root := &cobra.Command{
		Use:           "life",
		Short:         "Incremental multi-threaded Game of Life on a torus",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := e.load(cmd); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
				return err
			}
			return nil
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		return err
	})
	flags := root.PersistentFlags()
	e.cfg.Bind(flags)
	flags.StringVar(&e.configFile, "config", "", "YAML config file")

	root.AddCommand(newGUICmd(e), newRunCmd(e), newBenchCmd(e), newServeCmd(e))
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return runGUI(cmd.Context(), e)
	}
	return wrapErrors(root, e)
}

// load layers flags over LIFE_* environment variables over the config file
// and builds the logger.
func (e *env) load(cmd *cobra.Command) error {
	v := e.v
	v.SetEnvPrefix("LIFE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if e.configFile != "" {
		v.SetConfigFile(e.configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", e.configFile, err)
		}
	}
	e.cfg.Load(v)

	logger, err := logging.New(e.cfg.LogLevel, e.cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	e.logger = logger
	if used := v.ConfigFileUsed(); used != "" {
		logger.WithField("file", used).Debug("loaded config file")
	}
	return nil
}

// wrapErrors logs a failing command's error before cobra returns it.
func wrapErrors(root *cobra.Command, e *env) *cobra.Command {
	for _, cmd := range append(root.Commands(), root) {
		run := cmd.RunE
		if run == nil {
			continue
		}
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			if err == nil || errors.Is(err, errInterrupted) {
				return nil
			}
			e.logger.WithError(err).Error(cmd.Name() + " failed")
			return err
		}
	}
	return root
}

// errInterrupted marks a run stopped by a signal rather than a failure.
var errInterrupted = errors.New("interrupted")
