package models

import "time"

// Server is a CMDB server asset row.
type Server struct {
	ID       string    `json:"id"`
	Hostname string    `json:"hostname"`
	IP       string    `json:"ip"`
	OS       string    `json:"os"`
	CPUCores int       `json:"cpu_cores"`
	MemoryGB int       `json:"memory_gb"`
	Status   string    `json:"status"`
	Env      string    `json:"env"`
	LastSeen time.Time `json:"last_seen"`
}
