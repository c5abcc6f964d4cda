package domain

import "errors"

var (
	ErrExtensionNotFound = errors.New("extension not found")
	ErrManifestMissing   = errors.New("extension manifest block missing")
	ErrManifestInvalid   = errors.New("extension manifest invalid")
	ErrPermissionDenied  = errors.New("extension permission not granted")
)

// Permissions an extension may declare in its manifest. File and command
// capabilities forward straight to the host with no path restriction, so they
// are an explicit grant rather than an implicit default.
const (
	PermExec  = "exec"
	PermFiles = "files"
)

type ExtensionState string

const (
	StateDiscovered ExtensionState = "discovered"
	StateDisabled   ExtensionState = "disabled"
	StateActive     ExtensionState = "active"
	StateLoadFailed ExtensionState = "load_failed"
)

// Manifest is parsed once from the delimited block embedded in a module file
// and is immutable after parse.
type Manifest struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Author       string   `json:"author"`
	Description  string   `json:"description"`
	Features     []string `json:"features,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Permissions  []string `json:"permissions,omitempty"`
}

func (m Manifest) HasPermission(perm string) bool {
	for _, p := range m.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// ExtensionConfigEntry is the persisted per-module side-table record, keyed by
// module path.
type ExtensionConfigEntry struct {
	Enabled  bool              `json:"enabled"`
	Settings map[string]string `json:"settings,omitempty"`
}

// ExtensionInfo is the operator-facing view of one discovered module.
type ExtensionInfo struct {
	Path      string         `json:"path"`
	Manifest  Manifest       `json:"manifest"`
	State     ExtensionState `json:"state"`
	Enabled   bool           `json:"enabled"`
	LastError string         `json:"last_error,omitempty"`
}
