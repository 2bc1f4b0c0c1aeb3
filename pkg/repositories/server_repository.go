package repositories

import (
	"context"

	"github.com/tiangong-ops/opshub/pkg/database"
	"github.com/tiangong-ops/opshub/pkg/models"
)

// ServerRepository defines read access to the CMDB server inventory.
type ServerRepository interface {
	List(ctx context.Context) ([]*models.Server, error)
}

type serverRepository struct {
	db *database.DB
}

// NewServerRepository creates a server inventory repository.
func NewServerRepository(db *database.DB) ServerRepository {
	return &serverRepository{db: db}
}

func (r *serverRepository) List(ctx context.Context) ([]*models.Server, error) {
	query := `
		SELECT id, hostname, ip, os, cpu_cores, memory_gb, status, env, last_seen
		FROM servers
		ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storeErr("failed to list servers", err)
	}
	defer rows.Close()

	servers := []*models.Server{}
	for rows.Next() {
		var s models.Server
		err := rows.Scan(&s.ID, &s.Hostname, &s.IP, &s.OS, &s.CPUCores, &s.MemoryGB, &s.Status, &s.Env, &s.LastSeen)
		if err != nil {
			return nil, storeErr("failed to scan server", err)
		}
		servers = append(servers, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("error iterating servers", err)
	}

	return servers, nil
}

var _ ServerRepository = (*serverRepository)(nil)
