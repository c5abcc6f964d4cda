// Package extension loads capability-gated modules from a directory.
//
// Modules are compiled Go plugins. Each exports an `Extension` symbol
// implementing Module and embeds a delimited manifest block that is parsed
// and validated before any code from the file runs. The Capability handed to
// Init is a module's only sanctioned channel to the host.
package extension

import (
	"context"

	sdk "pulseboard/pkg/extension"
)

// The module-facing contract lives in pkg/extension so third-party modules
// can import it from their own repositories. Aliases keep the host side on
// the short names.
type (
	Module     = sdk.Module
	Disposer   = sdk.Disposer
	Capability = sdk.Capability
)

// Broadcaster is the slice of the websocket hub the loader needs.
type Broadcaster interface {
	Broadcast(channel, event string, payload any)
}

// StorageRepo persists per-module key-value pairs.
type StorageRepo interface {
	Get(ctx context.Context, module, key string) (string, error)
	Set(ctx context.Context, module, key, value string) error
}
