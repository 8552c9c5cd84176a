package console

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-injector/app/providers"
	"github.com/km-arc/go-injector/app/services"
	"github.com/km-arc/go-injector/framework/container"
)

// ── release ──────────────────────────────────────────────────────────────────

type releaseCmd struct {
	appName    string
	connection string
}

func (c *releaseCmd) registerFlags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Resolve the production wiring across two scopes and check lifetimes",
	}
	cmd.Flags().StringVar(&c.appName, "app-name", "", "override APP_NAME")
	cmd.Flags().StringVar(&c.connection, "connection", "", "override DB_CONNECTION")
	return cmd
}

func (c *releaseCmd) run(cli *CLI, cmd *cobra.Command, args []string) error {
	cfg, err := cli.config()
	if err != nil {
		return err
	}
	cfg.Container.Profile = providers.ProfileRelease
	if c.appName != "" {
		cfg.App.Name = c.appName
	}
	if c.connection != "" {
		cfg.DB.ConnectionString = c.connection
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n--- CONFIGURATION 1: RELEASE (PROD) ---")
	application, err := cli.boot(cfg, out)
	if err != nil {
		return err
	}

	var svc1 *services.BackendService
	fmt.Fprintln(out, "\n[Scope 1 Start]")
	err = application.Scope(func(r *container.Resolver) error {
		a, err := backend(r)
		if err != nil {
			return err
		}
		b, err := backend(r)
		if err != nil {
			return err
		}
		a.Run()
		fmt.Fprintf(out, "Check Singleton Logger: %t\n", a.Logger == b.Logger)
		fmt.Fprintf(out, "Check Scoped DB:      %t\n", a.DB == b.DB)
		fmt.Fprintf(out, "Check PerRequest App: %t\n", a == b)
		svc1 = a
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\n[Scope 2 Start]")
	return application.Scope(func(r *container.Resolver) error {
		svc3, err := backend(r)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Check Scoped DB (Diff Scopes): %t\n", svc1.DB == svc3.DB)
		return nil
	})
}

func backend(r container.Resolvable) (*services.BackendService, error) {
	svc, err := container.Make[services.AppService](r)
	if err != nil {
		return nil, err
	}
	b, ok := svc.(*services.BackendService)
	if !ok {
		return nil, fmt.Errorf("%w: app service is %T", container.ErrTypeMismatch, svc)
	}
	return b, nil
}

// ── debug ────────────────────────────────────────────────────────────────────

type debugCmd struct{}

func (c *debugCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "Run the test wiring: factory logger, in-memory database, test service",
	}
}

func (c *debugCmd) run(cli *CLI, cmd *cobra.Command, args []string) error {
	cfg, err := cli.config()
	if err != nil {
		return err
	}
	cfg.Container.Profile = providers.ProfileDebug

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n--- CONFIGURATION 2: DEBUG (TEST) ---")
	application, err := cli.boot(cfg, out)
	if err != nil {
		return err
	}
	svc, err := container.Make[services.AppService](application)
	if err != nil {
		return err
	}
	svc.Run()
	return nil
}

// ── graph ────────────────────────────────────────────────────────────────────

type graphCmd struct{}

func (c *graphCmd) registerFlags() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the registrations of the selected profile in dependency order",
	}
}

func (c *graphCmd) run(cli *CLI, cmd *cobra.Command, args []string) error {
	cfg, err := cli.config()
	if err != nil {
		return err
	}
	application, err := cli.boot(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	g := application.Graph()
	order, err := g.TopologicalSort()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, key := range order {
		recipe, err := application.Recipe(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-10s %-12s %s", recipe.Lifetime(), recipe.Kind(), key)
		if deps := g.Dependencies(key); len(deps) > 0 {
			fmt.Fprintf(out, " <- %s", strings.Join(deps, ", "))
		}
		fmt.Fprintln(out)
	}
	return nil
}

// ── serve ────────────────────────────────────────────────────────────────────

type serveCmd struct {
	port string
}

func (c *serveCmd) registerFlags() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve HTTP with one container scope per request",
	}
	cmd.Flags().StringVar(&c.port, "port", "", "override APP_PORT")
	return cmd
}

func (c *serveCmd) run(cli *CLI, cmd *cobra.Command, args []string) error {
	cfg, err := cli.config()
	if err != nil {
		return err
	}
	if c.port != "" {
		cfg.HTTP.Port = c.port
	}
	application, err := cli.boot(cfg, cmd.OutOrStdout(), &providers.RouteServiceProvider{})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx)
}
