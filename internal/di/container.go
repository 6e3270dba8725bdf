package di

import (
	"fmt"

	"github.com/samber/do/v2"

	directoryService "github.com/slackstats/workstats/internal/modules/directory/service"
	feedService "github.com/slackstats/workstats/internal/modules/feed/service"
	reportService "github.com/slackstats/workstats/internal/modules/report/service"
	snapshotRepo "github.com/slackstats/workstats/internal/modules/snapshot/repository"
	snapshotService "github.com/slackstats/workstats/internal/modules/snapshot/service"
	statsService "github.com/slackstats/workstats/internal/modules/stats/service"
	"github.com/slackstats/workstats/internal/shared/config"
	"github.com/slackstats/workstats/internal/slack"
	httpServer "github.com/slackstats/workstats/internal/transport/http"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	})

	// Register Slack client
	do.Provide(injector, func(i do.Injector) (*slack.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return slack.New(cfg.SlackAPIURL, cfg.SlackBotToken, cfg.SlackUserToken), nil
	})

	// Register snapshot repository
	do.Provide(injector, func(i do.Injector) (snapshotRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := snapshotRepo.NewSQLiteStorage(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot storage at %s: %w", cfg.DBPath, err)
		}
		return repo, nil
	})

	// Register snapshot service
	do.Provide(injector, func(i do.Injector) (*snapshotService.Service, error) {
		repo := do.MustInvoke[snapshotRepo.Repository](i)
		return snapshotService.New(repo), nil
	})

	// Register directory service
	do.Provide(injector, func(i do.Injector) (*directoryService.Service, error) {
		client := do.MustInvoke[*slack.Client](i)
		return directoryService.New(client), nil
	})

	// Register stats service
	do.Provide(injector, func(i do.Injector) (*statsService.Service, error) {
		return statsService.New(), nil
	})

	// Register report service
	do.Provide(injector, func(i do.Injector) (*reportService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[*slack.Client](i)
		directory := do.MustInvoke[*directoryService.Service](i)
		stats := do.MustInvoke[*statsService.Service](i)
		snapshots := do.MustInvoke[*snapshotService.Service](i)
		return reportService.New(cfg, client, directory, stats, snapshots), nil
	})

	// Register feed service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		snapshots := do.MustInvoke[*snapshotService.Service](i)
		return feedService.New(snapshots), nil
	})

	// Register HTTP server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[*slack.Client](i)
		report := do.MustInvoke[*reportService.Service](i)
		snapshots := do.MustInvoke[*snapshotService.Service](i)
		feed := do.MustInvoke[*feedService.Service](i)
		return httpServer.New(cfg, client, report, snapshots, feed), nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	if repo, err := do.Invoke[snapshotRepo.Repository](injector); err == nil && repo != nil {
		return repo.Close()
	}
	return nil
}
