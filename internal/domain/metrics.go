package domain

// Snapshot is one immutable sampled record of host metrics. A fresh value is
// produced every tick and never mutated after assembly.
type Snapshot struct {
	CPU        CPUMetric     `json:"cpu"`
	Memory     MemoryMetric  `json:"memory"`
	Disks      []DiskMetric  `json:"disks"`
	Network    NetworkMetric `json:"network"`
	CapturedAt int64         `json:"captured_at"`
}

type CPUMetric struct {
	LoadPercent float64 `json:"load_percent"`
	CoreCount   int     `json:"core_count"`
}

type MemoryMetric struct {
	TotalBytes     uint64  `json:"total_bytes"`
	UsedBytes      uint64  `json:"used_bytes"`
	AvailableBytes uint64  `json:"available_bytes"`
	UsedPercent    float64 `json:"used_percent"`
}

type DiskMetric struct {
	Filesystem  string  `json:"filesystem"`
	Mountpoint  string  `json:"mountpoint"`
	SizeBytes   uint64  `json:"size_bytes"`
	UsedBytes   uint64  `json:"used_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

type NetworkMetric struct {
	RxBytesPerSec     float64 `json:"rx_bytes_per_sec"`
	TxBytesPerSec     float64 `json:"tx_bytes_per_sec"`
	ActiveConnections int     `json:"active_connections"`
}

// HostInfo is collected once at startup, not per tick.
type HostInfo struct {
	Hostname      string `json:"hostname"`
	OS            string `json:"os"`
	KernelVersion string `json:"kernel_version"`
	Arch          string `json:"arch"`
	UptimeSeconds uint64 `json:"uptime_seconds"`
}
