package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tiangong-ops/opshub/pkg/apperrors"
	"github.com/tiangong-ops/opshub/pkg/crypto"
	"github.com/tiangong-ops/opshub/pkg/models"
	"github.com/tiangong-ops/opshub/pkg/probe"
	"github.com/tiangong-ops/opshub/pkg/repositories"
)

// ConnectivityProber performs a live, non-persisting connection test.
type ConnectivityProber interface {
	Probe(ctx context.Context, p probe.Params) error
}

// SourceService owns the registry semantics around data sources:
// validation, secret encryption and the preserve-on-empty merge policy,
// redaction on read, and probe pass-through.
type SourceService interface {
	// List retrieves all data sources. Secrets are never included.
	List(ctx context.Context) ([]*models.DataSource, error)

	// Save upserts a data source keyed by ID. A missing ID gets a
	// generated one, stable thereafter. An empty Secret on an existing
	// ID preserves the stored secret; on a new ID it is stored empty.
	// Returns the record as saved (secret redacted).
	Save(ctx context.Context, ds *models.DataSource) (*models.DataSource, error)

	// Delete removes a data source by ID.
	Delete(ctx context.Context, id string) error

	// Test probes connectivity with the supplied parameters, which need
	// not correspond to any stored record. Nothing is persisted.
	Test(ctx context.Context, p probe.Params) error

	// Engines lists the engine types with a registered prober.
	Engines() []probe.Info
}

type sourceService struct {
	repo   repositories.SourceRepository
	cipher *crypto.SecretCipher
	prober ConnectivityProber
	logger *zap.Logger
}

// NewSourceService creates a source service with dependencies.
func NewSourceService(
	repo repositories.SourceRepository,
	cipher *crypto.SecretCipher,
	prober ConnectivityProber,
	logger *zap.Logger,
) SourceService {
	return &sourceService{
		repo:   repo,
		cipher: cipher,
		prober: prober,
		logger: logger,
	}
}

func (s *sourceService) List(ctx context.Context) ([]*models.DataSource, error) {
	sources, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	// The repository never selects secrets, but clear defensively so a
	// future repo change cannot leak them through this path.
	for _, ds := range sources {
		ds.Secret = ""
	}

	return sources, nil
}

func (s *sourceService) Save(ctx context.Context, ds *models.DataSource) (*models.DataSource, error) {
	if err := validateSource(ds); err != nil {
		return nil, err
	}

	if ds.ID == "" {
		ds.ID = uuid.NewString()
	}
	if ds.Status == "" {
		ds.Status = models.StatusOnline
	}

	encryptedSecret, err := s.cipher.Encrypt(ds.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt secret: %w", err)
	}

	if err := s.repo.Upsert(ctx, ds, encryptedSecret); err != nil {
		return nil, err
	}

	s.logger.Info("Saved data source",
		zap.String("id", ds.ID),
		zap.String("name", ds.Name),
		zap.String("engine_type", ds.EngineType),
		zap.String("endpoint", fmt.Sprintf("%s:%d", ds.Host, ds.Port)),
	)

	saved := *ds
	saved.Secret = ""
	return &saved, nil
}

func (s *sourceService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", apperrors.ErrValidation)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Deleted data source", zap.String("id", id))
	return nil
}

func (s *sourceService) Test(ctx context.Context, p probe.Params) error {
	if p.EngineType == "" {
		return fmt.Errorf("%w: engine type is required", apperrors.ErrValidation)
	}

	if err := s.prober.Probe(ctx, p); err != nil {
		return err
	}

	s.logger.Info("Connection test successful",
		zap.String("engine_type", p.EngineType),
		zap.String("endpoint", fmt.Sprintf("%s:%d", p.Host, p.Port)),
	)
	return nil
}

func (s *sourceService) Engines() []probe.Info {
	return probe.RegisteredEngines()
}

func validateSource(ds *models.DataSource) error {
	if ds == nil {
		return fmt.Errorf("%w: record is required", apperrors.ErrValidation)
	}
	if ds.Name == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if !models.KnownEngine(ds.EngineType) {
		return fmt.Errorf("%w: unknown engine type %q", apperrors.ErrValidation, ds.EngineType)
	}
	if ds.Host == "" {
		return fmt.Errorf("%w: host is required", apperrors.ErrValidation)
	}
	if ds.Port <= 0 || ds.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", apperrors.ErrValidation, ds.Port)
	}
	switch ds.Status {
	case "", models.StatusOnline, models.StatusOffline, models.StatusError:
	default:
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, ds.Status)
	}
	return nil
}

// Ensure sourceService implements SourceService at compile time.
var _ SourceService = (*sourceService)(nil)
