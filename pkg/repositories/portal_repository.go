package repositories

import (
	"context"

	"github.com/tiangong-ops/opshub/pkg/database"
	"github.com/tiangong-ops/opshub/pkg/models"
)

// PortalRepository provides the landing-page data: registered sub-apps
// and recent announcements.
type PortalRepository interface {
	ListSubApps(ctx context.Context) ([]*models.SubApp, error)
	RecentAnnouncements(ctx context.Context, limit int) ([]*models.Announcement, error)
}

type portalRepository struct {
	db *database.DB
}

// NewPortalRepository creates a portal repository.
func NewPortalRepository(db *database.DB) PortalRepository {
	return &portalRepository{db: db}
}

func (r *portalRepository) ListSubApps(ctx context.Context) ([]*models.SubApp, error) {
	query := `
		SELECT id, name, description, icon_type, color_theme, sort_order
		FROM sub_apps
		ORDER BY sort_order`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeErr("failed to list sub-apps", err)
	}
	defer rows.Close()

	apps := []*models.SubApp{}
	for rows.Next() {
		var a models.SubApp
		err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.IconType, &a.ColorTheme, &a.SortOrder)
		if err != nil {
			return nil, storeErr("failed to scan sub-app", err)
		}
		apps = append(apps, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating sub-apps", err)
	}

	return apps, nil
}

func (r *portalRepository) RecentAnnouncements(ctx context.Context, limit int) ([]*models.Announcement, error) {
	query := `
		SELECT id, title, content, app_context, priority, publish_date
		FROM announcements
		ORDER BY publish_date DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, storeErr("failed to list announcements", err)
	}
	defer rows.Close()

	announcements := []*models.Announcement{}
	for rows.Next() {
		var a models.Announcement
		err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.AppContext, &a.Priority, &a.PublishDate)
		if err != nil {
			return nil, storeErr("failed to scan announcement", err)
		}
		announcements = append(announcements, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating announcements", err)
	}

	return announcements, nil
}

var _ PortalRepository = (*portalRepository)(nil)
