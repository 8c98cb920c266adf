package integrity

import (
	"context"
	"errors"
	"path"
	"time"

	"audio-loader/core/reconcile"
	"audio-loader/core/storage"
	"audio-loader/feature/catalog"
	"audio-loader/feature/integrity/checks"
	"audio-loader/feature/integrity/files"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoCatalog is returned by file checks when no catalog is configured.
var ErrNoCatalog = errors.New("catalog not configured")

// Service handles integrity checks.
type Service struct {
	client   storage.Client
	bucket   string
	logger   *zap.Logger
	db       *gorm.DB
	source   files.Source
	basePath string
	platform string
	cacheTTL time.Duration
}

// NewService creates a new integrity service. db and source may be nil when
// the catalog database is not configured.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, source files.Source, basePath, platform string) *Service {
	return &Service{
		client:   client,
		bucket:   bucket,
		logger:   logger,
		db:       db,
		source:   source,
		basePath: basePath,
		platform: platform,
		cacheTTL: catalog.DefaultCacheTTL,
	}
}

// Prefix is the storage folder the catalog paths are relative to.
func (s *Service) Prefix() string {
	return path.Join(s.basePath, s.platform)
}

// CheckStructure returns the platform folders that hold no object.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket, checks.RequiredFolders(s.basePath, []string{s.platform}))
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckSchema compares the catalog tables against the catalog models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, catalog.Models())
}

// CheckFiles compares the family's catalog files against storage and plans
// the purge of orphans when opts asks for it.
func (s *Service) CheckFiles(ctx context.Context, family files.Family, opts reconcile.ReconcileOptions) (*reconcile.ReconcilePlan, error) {
	spec, err := s.spec(family)
	if err != nil {
		return nil, err
	}
	return reconcile.ReconcileWithPlan(ctx, spec, s.client, s.bucket, opts)
}

// Reconcile plans and, when confirmed, deletes the family's orphan objects.
func (s *Service) Reconcile(ctx context.Context, family files.Family, opts reconcile.ReconcileOptions) (*reconcile.ReconcilePlan, int, error) {
	spec, err := s.spec(family)
	if err != nil {
		return nil, 0, err
	}

	plan, executed, err := reconcile.ReconcileAndApply(ctx, spec, s.client, s.bucket, opts)
	if err != nil {
		return plan, executed, err
	}
	if executed > 0 {
		s.logger.Info("Purged orphan files",
			zap.String("family", family.Name),
			zap.Int("deleted", executed))
	}
	return plan, executed, nil
}

// FindFile reconciles a single file by path or name.
func (s *Service) FindFile(ctx context.Context, family files.Family, query reconcile.Query) (*reconcile.ReconcileResult, error) {
	spec, err := s.spec(family)
	if err != nil {
		return nil, err
	}
	return reconcile.ReconcileOne(ctx, spec, s.client, s.bucket, query)
}

func (s *Service) spec(family files.Family) (*reconcile.Spec, error) {
	if s.source == nil {
		return nil, ErrNoCatalog
	}
	return &reconcile.Spec{
		Adapter:       files.NewAdapter(family, s.source, s.client, s.bucket, s.Prefix()),
		CacheTTL:      s.cacheTTL,
		StoragePrefix: s.Prefix(),
	}, nil
}
