package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// cli holds state shared by the subcommands. The app is created once the
// persistent flags are parsed.
type cli struct {
	v   *viper.Viper
	app *App
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DETGEOM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// rootCommand creates the detgeom command tree.
func rootCommand() *cobra.Command {
	c := &cli{v: newViper()}

	rootCmd := &cobra.Command{
		Use:           "detgeom",
		Short:         "Detector geometry descriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	c.bind(rootCmd.PersistentFlags())

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger, err := c.logger(cmd)
		if err != nil {
			return err
		}
		c.app = NewApp(logger)
		return nil
	}

	rootCmd.AddCommand(
		describeCommand(c),
		insideCommand(c),
		sampleCommand(c),
	)
	return rootCmd
}

// bind makes every flag in fs readable through viper, with DETGEOM_*
// environment variables as fallback.
func (c *cli) bind(fs *pflag.FlagSet) {
	if err := c.v.BindPFlags(fs); err != nil {
		panic(fmt.Sprintf("binding flags: %v", err))
	}
}

func (c *cli) logger(cmd *cobra.Command) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if c.v.GetBool("debug") {
		opts.Level = slog.LevelDebug
	}
	w := cmd.ErrOrStderr()
	switch format := c.v.GetString("log-format"); format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
