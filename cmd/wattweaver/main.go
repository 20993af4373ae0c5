// WattWeaver CLI - Renewable Energy Mix Optimization
//
// Usage:
//   wattweaver simulate --region Jodhpur --cost-weight 0.5
//   wattweaver sensitivity --region Chennai --method "3 Month Prediction"
//   wattweaver forecast --region Delhi
//   wattweaver serve
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	apiserver "wattweaver/api"
	"wattweaver/internal/allocation"
	"wattweaver/internal/auth"
	"wattweaver/internal/export"
	"wattweaver/internal/forecast"
	"wattweaver/internal/history"
	"wattweaver/internal/region"
	"wattweaver/internal/sensitivity"
	"wattweaver/pkg/api"
	"wattweaver/pkg/platform"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	platform.InitLogger()

	app := &cli.App{
		Name:    "wattweaver",
		Usage:   "Renewable energy mix simulation and allocation optimization",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			simulateCommand(),
			sensitivityCommand(),
			forecastCommand(),
			regionsCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "region",
			Value:   "Jodhpur",
			Usage:   "Region name (unknown regions use the default profile)",
			EnvVars: []string{"WATTWEAVER_REGION"},
		},
		&cli.StringFlag{
			Name:    "method",
			Value:   "24 Hour Forecast",
			Usage:   "Forecasting method",
			EnvVars: []string{"WATTWEAVER_METHOD"},
		},
		&cli.StringFlag{
			Name:  "focus",
			Value: "solar,wind,hydro",
			Usage: "Comma-separated energy focus sources",
		},
		&cli.Float64Flag{
			Name:  "cost-weight",
			Value: 0.5,
			Usage: "Cost weight in [0,1]; emission weight is 1 minus this",
		},
		&cli.BoolFlag{
			Name:  "time-varying-carbon",
			Usage: "Use hour-of-day carbon intensity multipliers",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Emit JSON instead of text",
		},
	}
}

func configFrom(c *cli.Context) (forecast.Method, allocation.Config, error) {
	cw := c.Float64("cost-weight")
	if cw < 0 || cw > 1 {
		return 0, allocation.Config{}, fmt.Errorf("cost-weight must be in [0,1], got %v", cw)
	}
	method, _ := forecast.ParseMethod(c.String("method"))
	focus := allocation.NewFocus(strings.Split(c.String("focus"), ","))
	return method, allocation.Config{
		Region:            c.String("region"),
		Method:            method.String(),
		EnergyFocus:       focus,
		CostWeight:        cw,
		TimeVaryingCarbon: c.Bool("time-varying-carbon"),
	}, nil
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "Run one forecast plus allocation optimization",
		Flags: runFlags(),
		Action: func(c *cli.Context) error {
			method, cfg, err := configFrom(c)
			if err != nil {
				return err
			}
			points := forecast.Generate(method, cfg.Region)
			resp, err := allocation.Optimize(points, cfg)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return json.NewEncoder(os.Stdout).Encode(resp)
			}
			printResults(cfg.Region, method.String(), resp)
			return nil
		},
	}
}

func printResults(regionName, method string, resp *api.SimulateResponse) {
	fmt.Printf("Region:  %s\nMethod:  %s\nPeriods: %d\n\n", regionName, method, len(resp.EnergyMixData))
	fmt.Printf("%-12s %14s %16s %12s %16s\n", "scenario", "cost/MWh", "emissions (kg)", "reliability", "renewable share")
	for _, row := range []struct {
		name string
		m    api.ScenarioMetrics
	}{
		{"optimized", resp.Results.Optimized},
		{"baseline", resp.Results.Baseline},
	} {
		fmt.Printf("%-12s %14.2f %16.1f %11.1f%% %15.1f%%\n",
			row.name, row.m.Cost, row.m.Emissions, row.m.Reliability, row.m.RenewableShare)
	}
	fmt.Printf("\nEmissions saved: %.1f kg CO2\n", resp.EmissionData[0].Value)
}

func sensitivityCommand() *cli.Command {
	return &cli.Command{
		Name:  "sensitivity",
		Usage: "Run price sensitivity analysis across cost multipliers",
		Flags: runFlags(),
		Action: func(c *cli.Context) error {
			method, cfg, err := configFrom(c)
			if err != nil {
				return err
			}
			points := forecast.Generate(method, cfg.Region)
			resp, err := sensitivity.Run(points, cfg, nil)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return json.NewEncoder(os.Stdout).Encode(resp)
			}
			fmt.Printf("%-12s %16s %16s\n", "scenario", "optimized cost", "baseline cost")
			for i, sc := range resp.Scenarios {
				fmt.Printf("%-12s %16.2f %16.2f\n", sc.Label, resp.Optimized[i].Cost, resp.Baseline[i].Cost)
			}
			fmt.Printf("\nElasticity: optimized %.3f, baseline %.3f\n",
				resp.OptimizedElasticity, resp.BaselineElasticity)
			return nil
		},
	}
}

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:  "forecast",
		Usage: "Print the synthetic forecast series as CSV",
		Flags: runFlags(),
		Action: func(c *cli.Context) error {
			method, _ := forecast.ParseMethod(c.String("method"))
			points := forecast.Generate(method, c.String("region"))
			return export.WriteForecast(os.Stdout, points)
		},
	}
}

func regionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "regions",
		Usage: "List supported regions",
		Action: func(c *cli.Context) error {
			for _, name := range region.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the WattWeaver API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "clickhouse-host",
				Usage:   "ClickHouse host for run history (empty uses in-memory store)",
				EnvVars: []string{"WATTWEAVER_CLICKHOUSE_HOST"},
			},
			&cli.IntFlag{
				Name:    "clickhouse-port",
				Value:   9000,
				EnvVars: []string{"WATTWEAVER_CLICKHOUSE_PORT"},
			},
			&cli.StringFlag{
				Name:    "postgres-dsn",
				Usage:   "Postgres DSN for user accounts (empty uses in-memory store)",
				EnvVars: []string{"WATTWEAVER_POSTGRES_DSN"},
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			runs, err := buildHistoryStore(ctx, c)
			if err != nil {
				return err
			}
			users, err := buildUserStore(ctx, c)
			if err != nil {
				return err
			}

			cfg := apiserver.ConfigFromEnv()
			authSvc := auth.NewService(users, cfg.JWTSecret, 0)
			return apiserver.NewServer(authSvc, runs, cfg).Start(ctx)
		},
	}
}

func buildHistoryStore(ctx context.Context, c *cli.Context) (history.Store, error) {
	host := c.String("clickhouse-host")
	if host == "" {
		log.Warn().Msg("no ClickHouse host configured, run history is in-memory")
		return history.NewMemoryStore(), nil
	}

	chCfg := history.DefaultClickHouseConfig()
	chCfg.Host = host
	chCfg.Port = c.Int("clickhouse-port")
	chCfg.Database = platform.GetEnv("WATTWEAVER_CLICKHOUSE_DB", chCfg.Database)
	chCfg.Username = platform.GetEnv("WATTWEAVER_CLICKHOUSE_USER", chCfg.Username)
	chCfg.Password = platform.GetEnv("WATTWEAVER_CLICKHOUSE_PASSWORD", chCfg.Password)

	store, err := history.NewClickHouseStore(chCfg)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure history schema: %w", err)
	}
	return store, nil
}

func buildUserStore(ctx context.Context, c *cli.Context) (auth.UserStore, error) {
	dsn := c.String("postgres-dsn")
	if dsn == "" {
		log.Warn().Msg("no Postgres DSN configured, user accounts are in-memory")
		return auth.NewMemoryStore(), nil
	}
	store, err := auth.NewPostgresStore(dsn)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure users schema: %w", err)
	}
	return store, nil
}
