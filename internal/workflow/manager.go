package workflow

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"critable/internal/config"
	"critable/internal/logging"
	"critable/internal/pipeline"
	"critable/internal/store"
)

// Manager coordinates document processing against one store.
type Manager struct {
	cfg      *config.Config
	store    *store.Store
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
	workers  int
	settle   time.Duration
	lockPath string
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithWorkers overrides the configured worker count. Values below one are
// ignored.
func WithWorkers(n int) ManagerOption {
	return func(m *Manager) {
		if n >= 1 {
			m.workers = n
		}
	}
}

// WithSettleDelay overrides how long an inbox file must stay unchanged
// before Watch processes it.
func WithSettleDelay(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.settle = d
		}
	}
}

// NewManager constructs a manager whose pipeline is built from cfg.
func NewManager(cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...ManagerOption) (*Manager, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("workflow requires config and store")
	}
	logger = logging.NewComponentLogger(logger, "workflow")
	pipelineOpts, err := pipeline.OptionsFromConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	m := &Manager{
		cfg:      cfg,
		store:    st,
		pipeline: pipeline.New(pipelineOpts),
		logger:   logger,
		workers:  max(cfg.Workflow.Workers, 1),
		settle:   time.Duration(cfg.Workflow.WatchSettleMS) * time.Millisecond,
		lockPath: cfg.LockPath(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Workers reports the effective worker count.
func (m *Manager) Workers() int {
	return m.workers
}
