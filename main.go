package main

import (
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/anicoll/insteon-panel/cmd"
)

func main() {
	app := &cli.App{
		Name:   "insteon-panel",
		Usage:  "management panel for an insteon hub",
		Action: cmd.PanelCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "hub-url",
				EnvVars:  []string{"HUB_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "hub-username",
				EnvVars: []string{"HUB_USERNAME"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "hub-password",
				EnvVars: []string{"HUB_PASSWORD"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "listen-address",
				EnvVars: []string{"PANEL_LISTEN_ADDRESS"},
				Value:   "0.0.0.0:8000",
			},
			&cli.DurationFlag{
				Name:    "poll-interval",
				EnvVars: []string{"POLL_INTERVAL"},
				Value:   30 * time.Second,
			},
			&cli.StringFlag{
				Name:    "mqtt-host",
				EnvVars: []string{"MQTT_HOST"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "mqtt-user",
				EnvVars: []string{"MQTT_USER"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "mqtt-pass",
				EnvVars: []string{"MQTT_PASS"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "database-url",
				EnvVars: []string{"DATABASE_URL"},
				Value:   "",
			},
			&cli.StringFlag{
				Name:    "migrations-folder",
				EnvVars: []string{"MIGRATIONS_FOLDER"},
				Value:   "./migrations",
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "INFO",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
