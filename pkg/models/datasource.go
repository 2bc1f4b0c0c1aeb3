package models

import "time"

// Engine types a data source may declare. Only EngineMySQL currently has
// a registered connectivity prober; the others are stored and listed but
// probing them reports an unsupported-engine error.
const (
	EngineMySQL      = "mysql"
	EnginePostgreSQL = "postgresql"
	EngineMongoDB    = "mongodb"
)

// Reachability statuses as last recorded on the stored row. Probes are
// advisory and do not write these back.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusError   = "error"
)

// KnownEngine reports whether t is one of the registrable engine types.
func KnownEngine(t string) bool {
	switch t {
	case EngineMySQL, EnginePostgreSQL, EngineMongoDB:
		return true
	}
	return false
}

// DataSource is a registered external database connection profile.
// Secret holds the decrypted password and is encrypted by the service
// layer before it reaches the store; it is never serialized outward.
type DataSource struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	EngineType  string    `json:"type"`
	Host        string    `json:"host"`
	Port        int       `json:"port"`
	Database    string    `json:"database"`
	Username    string    `json:"username"`
	Secret      string    `json:"-"`
	Status      string    `json:"status"`
	LastScanned string    `json:"lastScanned,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
