package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"contestctl/internal/adapters/codeforces"
	"contestctl/internal/adapters/satori"
	tokenfile "contestctl/internal/adapters/tokens/file"
	"contestctl/internal/application"
	"contestctl/internal/config"
	"contestctl/internal/ports"
)

type app struct {
	registry *application.Registry
	cfg      config.Config
	clock    ports.Clock

	bootstrapped map[string]bool
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire config: %w", err)
	}

	sessionsDir, err := config.SessionsDir()
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}
	tokens := tokenfile.NewStore(sessionsDir)

	satoriClient, err := satori.NewClient(satori.Options{BaseURL: cfg.Satori.BaseURL})
	if err != nil {
		return nil, fmt.Errorf("wire satori client: %w", err)
	}
	cfClient := codeforces.NewClient(codeforces.Options{BaseURL: cfg.Codeforces.BaseURL})

	registry := application.NewRegistry(
		application.NewPlatform(application.Config{
			Name:              "satori",
			Collaborators:     satoriClient,
			TokenStore:        tokens,
			Pending:           satori.Pending,
			PollInterval:      cfg.PollInterval(),
			PollFailureBudget: cfg.PollFailureBudget,
			RefreshWorkers:    cfg.RefreshWorkers,
			RefreshDeadline:   cfg.RefreshDeadline(),
		}),
		application.NewPlatform(application.Config{
			Name:              "codeforces",
			Collaborators:     cfClient,
			TokenStore:        tokens,
			Pending:           codeforces.Pending,
			PollInterval:      cfg.PollInterval(),
			PollFailureBudget: cfg.PollFailureBudget,
			RefreshWorkers:    cfg.RefreshWorkers,
			RefreshDeadline:   cfg.RefreshDeadline(),
		}),
	)

	return &app{
		registry:     registry,
		cfg:          cfg,
		clock:        ports.SystemClock{},
		bootstrapped: map[string]bool{},
	}, nil
}

// platform resolves a platform by name and restores its persisted session
// once per process. Commands that only tear state down use rawPlatform.
func (a *app) platform(ctx context.Context, name string) (*application.Platform, error) {
	p, err := a.registry.Get(name)
	if err != nil {
		return nil, err
	}
	if !a.bootstrapped[p.Name()] {
		a.bootstrapped[p.Name()] = true
		p.Session().Bootstrap(ctx)
	}
	return p, nil
}

func (a *app) rawPlatform(name string) (*application.Platform, error) {
	return a.registry.Get(name)
}
