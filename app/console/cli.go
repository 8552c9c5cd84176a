// Package console is the command-line entry point: it boots the
// application with a service profile and runs one of its commands.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/km-arc/go-injector/app/providers"
	"github.com/km-arc/go-injector/framework/app"
	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/logging"
)

// CLI holds the root command and the flags shared by every subcommand.
type CLI struct {
	rootCmd *cobra.Command

	envFiles []string
	profile  string
	quiet    bool
}

type command interface {
	registerFlags() *cobra.Command
	run(cli *CLI, cmd *cobra.Command, args []string) error
}

// New builds the command tree. Running the root command without a
// subcommand runs the release and debug demos back to back.
func New() *CLI {
	c := &CLI{}
	c.rootCmd = &cobra.Command{
		Use:           "injector",
		Short:         "injector demonstrates lifetime-scoped dependency injection",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (&releaseCmd{}).run(c, cmd, args); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Repeat("-", 30))
			return (&debugCmd{}).run(c, cmd, args)
		},
	}
	flags := c.rootCmd.PersistentFlags()
	flags.StringSliceVar(&c.envFiles, "env-file", nil, "env files to load (default .env)")
	flags.StringVar(&c.profile, "profile", "", "service profile: release | debug (overrides CONTAINER_PROFILE)")
	flags.BoolVarP(&c.quiet, "quiet", "q", false, "discard framework logs")

	c.addCmd(&releaseCmd{})
	c.addCmd(&debugCmd{})
	c.addCmd(&graphCmd{})
	c.addCmd(&serveCmd{})
	return c
}

// Exec runs the command line in os.Args.
func (c *CLI) Exec() error {
	return c.rootCmd.Execute()
}

// Command exposes the root command, e.g. to set args and output in tests.
func (c *CLI) Command() *cobra.Command { return c.rootCmd }

func (c *CLI) addCmd(cmd command) {
	cobraCmd := cmd.registerFlags()
	cobraCmd.RunE = func(innerCmd *cobra.Command, args []string) error {
		return cmd.run(c, innerCmd, args)
	}
	c.rootCmd.AddCommand(cobraCmd)
}

func (c *CLI) config() (*config.Config, error) {
	cfg, err := config.Load(c.envFiles...)
	if err != nil {
		return nil, err
	}
	if c.profile != "" {
		cfg.Container.Profile = c.profile
	}
	return cfg, nil
}

// boot builds an application wired for cfg's profile. Service output goes
// to out.
func (c *CLI) boot(cfg *config.Config, out io.Writer, extra ...container.ServiceProvider) (*app.Application, error) {
	log := zap.NewNop()
	if !c.quiet {
		var err error
		if log, err = logging.New(cfg); err != nil {
			return nil, err
		}
	}

	application, err := app.NewWith(cfg, log)
	if err != nil {
		return nil, err
	}
	profile, err := providers.ForProfile(cfg, out)
	if err != nil {
		return nil, err
	}
	for _, p := range append(profile, extra...) {
		if err := application.Register(p); err != nil {
			return nil, err
		}
	}
	return application, application.Boot()
}
