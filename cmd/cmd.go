package cmd

import (
	"context"
	"errors"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/jackc/pgx/v5"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/insteon-panel/internal/pkg/config"
	"github.com/anicoll/insteon-panel/internal/pkg/contxt"
	"github.com/anicoll/insteon-panel/internal/pkg/database"
	"github.com/anicoll/insteon-panel/internal/pkg/database/migration"
	"github.com/anicoll/insteon-panel/internal/pkg/handler"
	"github.com/anicoll/insteon-panel/internal/pkg/hub"
	"github.com/anicoll/insteon-panel/internal/pkg/monitor"
	"github.com/anicoll/insteon-panel/internal/pkg/mqtt"
	"github.com/anicoll/insteon-panel/internal/pkg/publisher"
	"github.com/anicoll/insteon-panel/internal/pkg/reconciler"
	"github.com/anicoll/insteon-panel/internal/pkg/server"
	"github.com/anicoll/insteon-panel/internal/pkg/topology"
	"github.com/anicoll/insteon-panel/pkg/sockets"
)

// PanelCommand is the entry point for the panel CLI command. Environment
// variables supply defaults; flags override them.
func PanelCommand(ctx *cli.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	cfg.HubCfg.URL = ctx.String("hub-url")
	cfg.HubCfg.Username = ctx.String("hub-username")
	cfg.HubCfg.Password = ctx.String("hub-password")
	cfg.HubCfg.PollInterval = ctx.Duration("poll-interval")
	cfg.MqttCfg.Host = ctx.String("mqtt-host")
	cfg.MqttCfg.Username = ctx.String("mqtt-user")
	cfg.MqttCfg.Password = ctx.String("mqtt-pass")
	cfg.ServerCfg.Address = ctx.String("listen-address")
	cfg.DatabaseURL = ctx.String("database-url")
	cfg.MigrationsFolder = ctx.String("migrations-folder")
	cfg.LogLevel = ctx.String("log-level")

	return run(ctx.Context, cfg)
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := zap.NewProductionConfig()
	var err error
	logCfg.Level, err = zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	logger := zap.Must(logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)))
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()
	zap.ReplaceGlobals(logger)

	errorChan := make(chan error, 1000)
	eg, ctx := errgroup.WithContext(ctx)

	hubClient, err := hub.New(cfg.HubCfg)
	if err != nil {
		return err
	}

	cache := topology.New()
	mon := monitor.New(hubClient, cache, cfg.HubCfg.PollInterval, errorChan)

	stream := sockets.NewHub(sockets.OnError(func(err error) {
		logger.Warn("websocket error", zap.Error(err))
	}))
	defer stream.Close()
	mon.OnChange(func() {
		stream.Broadcast("reload")
	})

	opts := []handler.Option{}
	if cfg.JournalEnabled() {
		if err := migration.Migrate(cfg.DatabaseURL, cfg.MigrationsFolder); err != nil {
			return err
		}
		conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		db := database.NewDatabase(conn)
		defer db.Close()

		if err := publisher.RegisterPublisher("postgres", db); err != nil {
			return err
		}
		opts = append(opts, handler.WithJournal(db))

		eg.Go(func() error {
			return cronDbCleanup(ctx, db, errorChan)
		})
	}

	if cfg.MqttEnabled() {
		mqttSvc := mqtt.New(newMqttClient(cfg.MqttCfg))
		if err := mqttSvc.Connect(); err != nil {
			return err
		}
		if err := mqttSvc.Online(); err != nil {
			return err
		}
		defer mqttSvc.Disconnect()

		if err := publisher.RegisterPublisher("mqtt", mqttSvc); err != nil {
			return err
		}
	}

	h := handler.New(hubClient, reconciler.New(cache), mon, stream, opts...)
	srv := server.New(cfg.ServerCfg.Address, h)

	eg.Go(func() error {
		return mon.Run(ctx)
	})

	eg.Go(func() error {
		return srv.Run(ctx)
	})

	eg.Go(func() error {
		// handle any async errors from services
		for {
			select {
			case err := <-errorChan:
				if errors.Is(err, errCron) {
					logger.Error("cron error", zap.Error(err))
					return err
				}
				logger.Error("service error", zap.Error(err))
			case <-ctx.Done():
				logger.Info("context done")
				return ctx.Err()
			}
		}
	})

	return eg.Wait()
}

var errCron = errors.New("cron error")

// cronDbCleanup trims the journal once at startup, then daily.
func cronDbCleanup(ctx context.Context, db journalCleaner, errChan chan error) error {
	if err := db.Cleanup(contxt.NewContext(time.Minute)); err != nil {
		return err
	}

	c := cron.New()
	if _, err := c.AddFunc("0 3 * * *", func() {
		if err := db.Cleanup(contxt.NewContext(time.Minute)); err != nil {
			zap.L().Error("error cleaning up journal", zap.Error(err))
			errChan <- errCron
			return
		}
		zap.L().Info("journal cleanup done")
	}); err != nil {
		return err
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

func newMqttClient(cfg *config.MqttConfig) paho_mqtt.Client {
	opts := paho_mqtt.NewClientOptions().
		AddBroker(cfg.Host).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetClientID("insteon-panel").
		SetAutoReconnect(true).
		SetWill(mqtt.AvailabilityTopic, "offline", 1, true)
	return paho_mqtt.NewClient(opts)
}
