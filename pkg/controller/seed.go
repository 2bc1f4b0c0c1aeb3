package controller

import "github.com/tiangong-ops/opshub/pkg/client"

// seedSources is the compiled-in dataset shown while the registry is
// unreachable. It exists so the management screen stays demonstrable
// offline; it is never merged into live data and the controller flags
// itself degraded whenever it is on display.
func seedSources() []client.Source {
	return []client.Source{
		{
			ID:          "1",
			Name:        "prod-core-01",
			Type:        "mysql",
			Host:        "192.168.1.100",
			Port:        3306,
			Database:    "order_db",
			Username:    "admin",
			Status:      "online",
			LastScanned: "2023-10-25 14:00",
		},
		{
			ID:          "2",
			Name:        "analytics-pg-02",
			Type:        "postgresql",
			Host:        "192.168.1.101",
			Port:        5432,
			Database:    "analytics_db",
			Username:    "repl",
			Status:      "online",
			LastScanned: "2023-10-24 09:30",
		},
		{
			ID:       "3",
			Name:     "logs-mongo-01",
			Type:     "mongodb",
			Host:     "192.168.1.102",
			Port:     27017,
			Database: "logs",
			Username: "root",
			Status:   "offline",
		},
	}
}
