package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type rootCmdConfig struct {
	verbose    bool
	configFile string
	v          *viper.Viper
}

// exitError carries the exit code the process must end with.
type exitError struct {
	code int
	err  error
}

func (ee *exitError) Error() string {
	return ee.err.Error()
}

func (ee *exitError) Unwrap() error {
	return ee.err
}

func exitWith(code int, err error) error {
	return &exitError{code, err}
}

func main() {
	if err := cliParser().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{v: viper.New()}
	rootCmd := &cobra.Command{
		Use:   "canopy",
		Short: "canopy is a tool to grow classification trees",
		Long:  `A tool to grow classification trees that split continuous features into intervals, and to measure how well they classify your data`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log the progress of the tree growth")
	rootCmd.PersistentFlags().StringVar(&(config.configFile), "config", "", "path to a configuration file with values for the flags (YAML, JSON or TOML)")
	rootCmd.AddCommand(versionCmd(), growCmd(config))
	return rootCmd
}

/*
load binds the flags of the command being run to the viper instance of the
configuration, so that values are taken from the flags, then from CANOPY_
prefixed environment variables, then from the configuration file.
*/
func (rcc *rootCmdConfig) load(cmd *cobra.Command) error {
	v := rcc.v
	v.SetEnvPrefix("canopy")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return exitWith(1, err)
	}
	if rcc.configFile != "" {
		v.SetConfigFile(rcc.configFile)
		if err := v.ReadInConfig(); err != nil {
			return exitWith(1, fmt.Errorf("reading configuration file %s: %v", rcc.configFile, err))
		}
	}
	rcc.verbose = v.GetBool("verbose")
	return nil
}
