package mysql

import (
	"github.com/tiangong-ops/opshub/pkg/probe"
)

func init() {
	probe.Register(probe.Registration{
		Info: probe.Info{
			Type:        "mysql",
			DisplayName: "MySQL",
			Description: "Probe MySQL 5.7+ and MariaDB endpoints",
		},
		Prober: Probe,
	})
}
