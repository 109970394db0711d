package main

import "github.com/urfave/cli/v2"

var configFlag = &cli.StringFlag{
	Name:    "config",
	Usage:   "Path to a TOML configuration file",
	EnvVars: []string{"CONFIG_FILE"},
}

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "Lottery"
	s.app.Usage = "Periodic lottery cycle engine"
	s.app.Flags = []cli.Flag{configFlag}
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used to serve the entry api, the read apis and the metrics endpoint.`,
		},
		{
			Action:      s.startCron,
			Name:        "cron",
			Usage:       "Start the cycle orchestrator",
			Category:    "Worker",
			Description: `Used to end expired cycles, draw winners and start the next cycle.`,
		},
		{
			Action: s.startMigrate,
			Name:   "migrate",
			Usage:  "Apply the database migrations",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "down", Usage: "Revert the latest migration instead"},
			},
			Category:    "Database",
			Description: `Used to apply or revert the versioned sql migrations.`,
		},
	}
}
