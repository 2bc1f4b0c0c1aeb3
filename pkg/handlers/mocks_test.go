package handlers

import (
	"context"

	"github.com/tiangong-ops/opshub/pkg/apperrors"
	"github.com/tiangong-ops/opshub/pkg/models"
	"github.com/tiangong-ops/opshub/pkg/probe"
	"github.com/tiangong-ops/opshub/pkg/services"
)

// mockSourceService is a configurable mock for sources handler tests.
type mockSourceService struct {
	sources    []*models.DataSource
	saved      *models.DataSource
	engines    []probe.Info
	err        error
	testErr    error
	lastSaved  *models.DataSource
	lastDelete string
	lastProbe  probe.Params
}

func (m *mockSourceService) List(ctx context.Context) ([]*models.DataSource, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sources, nil
}

func (m *mockSourceService) Save(ctx context.Context, ds *models.DataSource) (*models.DataSource, error) {
	m.lastSaved = ds
	if m.err != nil {
		return nil, m.err
	}
	if m.saved != nil {
		return m.saved, nil
	}
	saved := *ds
	if saved.ID == "" {
		saved.ID = "generated-id"
	}
	saved.Secret = ""
	return &saved, nil
}

func (m *mockSourceService) Delete(ctx context.Context, id string) error {
	m.lastDelete = id
	return m.err
}

func (m *mockSourceService) Test(ctx context.Context, p probe.Params) error {
	m.lastProbe = p
	return m.testErr
}

func (m *mockSourceService) Engines() []probe.Info {
	return m.engines
}

var _ services.SourceService = (*mockSourceService)(nil)

// mockServerRepository is a configurable mock for servers handler tests.
type mockServerRepository struct {
	servers []*models.Server
	err     error
}

func (m *mockServerRepository) List(ctx context.Context) ([]*models.Server, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.servers, nil
}

// mockPortalRepository is a configurable mock for portal handler tests.
type mockPortalRepository struct {
	apps          []*models.SubApp
	announcements []*models.Announcement
	err           error
}

func (m *mockPortalRepository) ListSubApps(ctx context.Context) ([]*models.SubApp, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.apps, nil
}

func (m *mockPortalRepository) RecentAnnouncements(ctx context.Context, limit int) ([]*models.Announcement, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.announcements) {
		return m.announcements[:limit], nil
	}
	return m.announcements, nil
}

// mockUserRepository is a configurable mock for auth handler tests.
type mockUserRepository struct {
	user *models.User
	err  error
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil || m.user.Username != username {
		return nil, apperrors.ErrNotFound
	}
	return m.user, nil
}

// mockReportService is a configurable mock for reports handler tests.
type mockReportService struct {
	summary string
	err     error
	entries []services.InspectionEntry
}

func (m *mockReportService) InspectionSummary(ctx context.Context, entries []services.InspectionEntry) (string, error) {
	m.entries = entries
	if m.err != nil {
		return "", m.err
	}
	return m.summary, nil
}

// mockPinger is a configurable store readiness check for health tests.
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}
