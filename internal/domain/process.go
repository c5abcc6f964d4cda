package domain

// ProcessInfo describes one running process. Listings are replaced wholesale
// on every request; there is no diffing against the previous list.
type ProcessInfo struct {
	Name        string  `json:"name"`
	PID         int32   `json:"pid"`
	CPUPercent  float64 `json:"cpu_percent"`
	MemoryBytes uint64  `json:"memory_bytes"`
	CommandLine string  `json:"command_line"`
}
