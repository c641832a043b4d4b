package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/traci-dashboard/internal/pkg/config"
	"github.com/anicoll/traci-dashboard/internal/pkg/database"
	"github.com/anicoll/traci-dashboard/internal/pkg/database/migration"
	"github.com/anicoll/traci-dashboard/internal/pkg/history"
	"github.com/anicoll/traci-dashboard/internal/pkg/mqtt"
	"github.com/anicoll/traci-dashboard/internal/pkg/presenter"
	"github.com/anicoll/traci-dashboard/internal/pkg/publisher"
	"github.com/anicoll/traci-dashboard/internal/pkg/server"
	"github.com/anicoll/traci-dashboard/internal/pkg/store"
	"github.com/anicoll/traci-dashboard/internal/pkg/traci"
)

const (
	publishTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

func ServeCommand(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = zap.L().Sync() // flushes buffer, if any.
	}()

	a, err := newApp(ctx.Context, cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()
	return serve(ctx.Context, cfg, a)
}

func RefreshCommand(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = zap.L().Sync()
	}()

	a, err := newApp(ctx.Context, cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()
	return refresh(ctx.Context, a.history, ctx.App.Writer)
}

func TailCommand(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	a, err := newApp(ctx.Context, cfg, false)
	if err != nil {
		return err
	}
	return tail(ctx.Context, a.history, ctx.Int("n"), ctx.App.Writer)
}

func ExportCommand(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	a, err := newApp(ctx.Context, cfg, false)
	if err != nil {
		return err
	}
	out := ctx.String("out")
	if out == "" {
		out = presenter.ExportFileName(cfg.Source.Name, time.Now())
	}
	return export(ctx.Context, a.history, out)
}

// setup loads the environment config and installs the global logger.
func setup(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if lvl := ctx.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return cfg, nil
}

type app struct {
	history *history.Service
	archive Archive
	loc     *time.Location
	closers []io.Closer
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			zap.L().Warn("close failed", zap.Error(err))
		}
	}
}

// newApp wires the fetch/extract/store pipeline. Publishers are attached only
// when withPublishers is set, so read-only commands never dial out.
func newApp(ctx context.Context, cfg *config.Config, withPublishers bool) (*app, error) {
	loc, err := cfg.Source.Location()
	if err != nil {
		return nil, err
	}
	policy, err := traci.ParseFieldPolicy(cfg.Source.FieldPolicy)
	if err != nil {
		return nil, err
	}

	a := &app{loc: loc}
	opts := []history.Option{}
	if withPublishers {
		registry := publisher.New(publishTimeout)
		if err := a.attachPublishers(ctx, cfg, registry); err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, history.WithPublisher(registry))
	}

	a.history = history.New(
		traci.New(cfg.Source),
		traci.NewExtractor(policy, loc),
		store.NewCSVFile(cfg.History.File, loc),
		cfg.History.Retention(),
		opts...,
	)
	return a, nil
}

func (a *app) attachPublishers(ctx context.Context, cfg *config.Config, registry *publisher.Registry) error {
	if cfg.Database.Enabled() {
		if err := migration.Migrate(cfg.Database.URL); err != nil {
			return fmt.Errorf("migrate archive: %w", err)
		}
		db, err := database.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect archive: %w", err)
		}
		a.closers = append(a.closers, db)
		a.archive = db
		if err := registry.RegisterPublisher("postgres", db); err != nil {
			return err
		}
	}

	if cfg.Mqtt.Enabled() {
		svc := mqtt.New(mqtt.NewClient(cfg.Mqtt, cfg.Source.Name), cfg.Mqtt, cfg.Source.Name)
		if err := svc.Connect(); err != nil {
			return fmt.Errorf("connect mqtt: %w", err)
		}
		a.closers = append(a.closers, svc)
		if err := registry.RegisterPublisher("mqtt", svc); err != nil {
			return err
		}
	}
	zap.L().Info("publishers attached", zap.Strings("publishers", registry.Names()))
	return nil
}

func serve(ctx context.Context, cfg *config.Config, a *app) error {
	logger := zap.L()
	eg, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler:      server.New(a.history, a.archive, cfg.History.TailSize, a.loc),
		Addr:         cfg.Server.ListenAddr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	eg.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Server.RefreshSchedule != "" {
		eg.Go(func() error {
			return cronRefresh(ctx, cfg.Server.RefreshSchedule, a.loc, a.history)
		})
	}

	if a.archive != nil && cfg.Database.CleanupSchedule != "" {
		eg.Go(func() error {
			return cronArchiveCleanup(ctx, cfg.Database, a.loc, a.archive)
		})
	}

	return eg.Wait()
}

// runCron blocks until ctx is done, then waits for running jobs.
func runCron(ctx context.Context, loc *time.Location, schedule string, job func()) error {
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(schedule, job); err != nil {
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func cronRefresh(ctx context.Context, schedule string, loc *time.Location, svc HistoryService) error {
	return runCron(ctx, loc, schedule, func() {
		res, err := svc.Refresh(ctx)
		if err != nil {
			zap.L().Error("scheduled refresh failed", zap.Error(err))
			return
		}
		zap.L().Info("scheduled refresh",
			zap.Int("added", res.Added),
			zap.Int("expired", res.Expired),
			zap.Int("total", res.Total),
		)
	})
}

func cronArchiveCleanup(ctx context.Context, cfg config.DatabaseConfig, loc *time.Location, archive Archive) error {
	cleanup := func() {
		before := time.Now().AddDate(0, 0, -cfg.RetentionDays)
		if err := archive.Cleanup(ctx, before); err != nil {
			zap.L().Error("error cleaning up archive", zap.Error(err))
			return
		}
		zap.L().Info("archive cleaned up", zap.Time("before", before))
	}
	cleanup()
	return runCron(ctx, loc, cfg.CleanupSchedule, cleanup)
}

func refresh(ctx context.Context, svc HistoryService, w io.Writer) error {
	res, err := svc.Refresh(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "extracted %d, added %d, expired %d, stored %d\n",
		res.Extracted, res.Added, res.Expired, res.Total)
	return err
}

func tail(ctx context.Context, svc HistoryService, n int, w io.Writer) error {
	if n <= 0 {
		return fmt.Errorf("-n must be positive, got %d", n)
	}
	records, err := svc.History(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		_, err = fmt.Fprintln(w, presenter.EmptyMessage)
		return err
	}
	_, err = fmt.Fprintln(w, presenter.RenderTable(records.Tail(n)))
	return err
}

func export(ctx context.Context, svc HistoryService, path string) error {
	records, err := svc.History(ctx)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := presenter.WriteWorkbook(f, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	zap.L().Info("exported history", zap.String("path", path), zap.Int("count", len(records)))
	return nil
}
