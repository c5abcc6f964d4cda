package domain

// Settings is the single flat persisted dashboard document. There is no
// versioning or migration; unknown fields are dropped on rewrite.
type Settings struct {
	Theme         string              `json:"theme"`
	AutoStart     bool                `json:"auto_start"`
	Monitoring    MonitoringToggles   `json:"monitoring"`
	Notifications NotificationOptions `json:"notifications"`
	WatchPaths    []string            `json:"watch_paths"`
}

type MonitoringToggles struct {
	CPU     bool `json:"cpu"`
	Memory  bool `json:"memory"`
	Disk    bool `json:"disk"`
	Network bool `json:"network"`
}

type NotificationOptions struct {
	Enabled     bool `json:"enabled"`
	OnLoadError bool `json:"on_load_error"`
	OnThreshold bool `json:"on_threshold"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:     "dark",
		AutoStart: true,
		Monitoring: MonitoringToggles{
			CPU:     true,
			Memory:  true,
			Disk:    true,
			Network: true,
		},
		Notifications: NotificationOptions{
			Enabled:     true,
			OnLoadError: true,
			OnThreshold: true,
		},
		WatchPaths: nil,
	}
}
