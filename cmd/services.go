package cmd

import (
	"context"
	"errors"
	"fmt"

	"audio-loader/core/config"
	"audio-loader/core/cooked"
	"audio-loader/core/database"
	"audio-loader/core/logger"
	"audio-loader/core/metrics"
	"audio-loader/core/resource"
	"audio-loader/core/storage"
	"audio-loader/feature/catalog"
	"audio-loader/feature/integrity"
	"audio-loader/feature/integrity/files"
	"audio-loader/feature/resources"
	"audio-loader/feature/soundengine"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// services bundles what every command opens from the configuration.
type services struct {
	cfg    *config.Config
	logger *zap.Logger
	store  storage.Client
	db     *gorm.DB
	repo   *catalog.Repository
}

// bootstrap loads the configuration, then opens the logger, the storage
// client and the catalog. A catalog connection failure is fatal only when
// requireDB is set.
func bootstrap(ctx context.Context, requireDB bool) (*services, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	s := &services{cfg: cfg, logger: logg, store: store}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		if requireDB {
			return nil, fmt.Errorf("catalog database connection required: %w", err)
		}
		logg.Warn("Optional catalog database connection failed", zap.Error(err))
		return s, nil
	}

	repo := catalog.NewRepository(db, logg, 0)
	if err := repo.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate catalog: %w", err)
	}

	s.db = db
	s.repo = repo
	s.logger = logg.With(zap.String("catalog", cfg.Database.Driver))
	s.logger.Info("Connected to catalog database")
	return s, nil
}

// fileSource returns the catalog as a file source, or nil without one.
func (s *services) fileSource() files.Source {
	if s.repo == nil {
		return nil
	}
	return s.repo
}

// platform returns the configured platform folder.
func (s *services) platform() string {
	if !s.cfg.Server.IsValidPlatform() {
		s.logger.Warn("Unknown platform, using it verbatim", zap.String("platform", s.cfg.Server.Platform))
		return s.cfg.Server.Platform
	}
	return s.cfg.Server.NormalizedPlatform()
}

func (s *services) integrity() *integrity.Service {
	return integrity.NewService(s.store, s.cfg.Storage.Bucket, s.logger, s.db, s.fileSource(), s.cfg.Loader.BasePath, s.platform())
}

// loaderStack is the sound engine, the resource manager on top of it and
// the service holding handles for the control surface.
type loaderStack struct {
	engine  *soundengine.Engine
	manager *resource.Manager
	service *resources.Service
}

// newLoader wires the loader over the catalog. m may be nil.
func (s *services) newLoader(ctx context.Context, m *metrics.Metrics) (*loaderStack, error) {
	if s.repo == nil {
		return nil, errors.New("the loader needs the catalog database")
	}

	policy, err := s.cfg.Loader.Policy()
	if err != nil {
		return nil, err
	}

	engine := soundengine.New(s.store, s.cfg.Storage.Bucket, s.cfg.Engine, s.logger)
	manager := resource.NewManager(engine.Backends(), resource.Options{
		BasePath: s.cfg.Loader.BasePath,
		Platform: s.platform(),
		Language: s.language(ctx),
		Logger:   s.logger,
		Metrics:  m,
	})

	return &loaderStack{
		engine:  engine,
		manager: manager,
		service: resources.NewService(manager, s.repo, engine, policy, s.logger),
	}, nil
}

// language resolves the configured language against the init bank,
// falling back to SFX.
func (s *services) language(ctx context.Context) cooked.Language {
	name := s.cfg.Server.Language
	if name == "" || name == cooked.SFX.Name {
		return cooked.SFX
	}

	bank, err := s.repo.InitBank(ctx)
	if err != nil {
		s.logger.Warn("No init bank in catalog, starting with SFX", zap.Error(err))
		return cooked.SFX
	}
	lang, ok := bank.FindLanguage(name)
	if !ok {
		s.logger.Warn("Language not declared by the init bank, starting with SFX", zap.String("language", name))
		return cooked.SFX
	}
	return lang
}

// Close unloads everything held, then stops the manager and the engine.
func (l *loaderStack) Close(ctx context.Context) error {
	err := l.service.UnloadAll(ctx)
	l.manager.Close()
	l.engine.Close()
	return err
}
