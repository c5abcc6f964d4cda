// Package extension is the contract between pulseboard and its extension
// modules. Module authors import this package and nothing else from the
// host; the rest of the server lives under internal/ and is not importable
// from outside this repository.
//
// A module is a Go plugin built with -buildmode=plugin. It exports an
// `Extension` symbol implementing Module and embeds a delimited manifest
// block that the host parses and validates before any code from the file
// runs.
package extension

import (
	"context"

	"pulseboard/internal/domain"
)

// Host types re-exported for module authors, so module code never needs an
// internal import.
type (
	Snapshot             = domain.Snapshot
	CPUMetric            = domain.CPUMetric
	MemoryMetric         = domain.MemoryMetric
	DiskMetric           = domain.DiskMetric
	NetworkMetric        = domain.NetworkMetric
	ProcessInfo          = domain.ProcessInfo
	Settings             = domain.Settings
	MonitoringToggles    = domain.MonitoringToggles
	NotificationOptions  = domain.NotificationOptions
	FileSystemEvent      = domain.FileSystemEvent
	FileEventKind        = domain.FileEventKind
	NotificationSeverity = domain.NotificationSeverity
)

const (
	SeverityInfo     = domain.SeverityInfo
	SeverityWarning  = domain.SeverityWarning
	SeverityCritical = domain.SeverityCritical

	FileAdded    = domain.FileAdded
	FileModified = domain.FileModified
	FileRemoved  = domain.FileRemoved
)

// Module is the fixed contract every extension implements.
type Module interface {
	// Init is invoked once on load. The capability object stays valid until
	// the module is disabled or deleted.
	Init(ctx context.Context, api Capability) error
}

// Disposer is the optional teardown hook. Modules that skip it keep whatever
// timers or goroutines they started; the host only tears down surfaces and
// bus subscriptions it handed out itself.
type Disposer interface {
	Dispose()
}

// Capability enumerates everything a module may do. Nothing outside this set
// is reachable through the host. RunCommand requires the "exec" manifest
// permission; ReadFile and WriteFile require "files". Both forward to the
// host's own privileged operations without path restriction once granted.
type Capability interface {
	CreateSurface(id, title, icon string) error
	RemoveSurface(id string)
	Notify(message string, severity NotificationSeverity)

	CurrentMetrics() (Snapshot, bool)
	CurrentProcesses() []ProcessInfo
	CurrentSettings() Settings

	StorageGet(key string) (string, error)
	StorageSet(key, value string) error

	Subscribe(eventName string, handler func(payload any)) func()
	Publish(eventName string, payload any)

	BuildCard(title, body string) string
	BuildButton(label, action string) string
	BuildChart(targetID, series string) string

	RunCommand(ctx context.Context, name string, args ...string) (string, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}
