package extension

import (
	"os"
	"path/filepath"
)

// ensureDir creates the extension directory on first run and drops a sample
// module source plus build instructions into it. Convenience only; a missing
// sample is never an error.
func (s *Service) ensureDir() error {
	if _, err := os.Stat(s.deps.Dir); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(s.deps.Dir, 0o755); err != nil {
		return err
	}

	sampleDir := filepath.Join(s.deps.Dir, "sample-clock")
	if err := os.MkdirAll(sampleDir, 0o755); err != nil {
		s.deps.Log.Warn("extensions: cannot create sample", "error", err)
		return nil
	}
	if err := os.WriteFile(filepath.Join(sampleDir, "main.go"), []byte(sampleSource), 0o644); err != nil {
		s.deps.Log.Warn("extensions: cannot write sample", "error", err)
	}
	if err := os.WriteFile(filepath.Join(s.deps.Dir, "README.md"), []byte(readme), 0o644); err != nil {
		s.deps.Log.Warn("extensions: cannot write readme", "error", err)
	}
	return nil
}

const readme = `# Pulseboard extensions

Drop compiled extension modules (*.so) into this directory and restart, or
install them through the dashboard.

A module is its own Go module importing ` + "`pulseboard/pkg/extension`" + `. It
embeds a manifest block and exports an ` + "`Extension`" + ` symbol implementing
the Module interface. Go plugins must be built with the same toolchain and
dependency versions as the running server, so point a replace directive at
the server checkout:

    cd sample-clock
    go mod init sample-clock
    go mod edit -require=pulseboard@v0.0.0 -replace=pulseboard=<server checkout>
    go mod tidy
    go build -buildmode=plugin -o ../sample-clock.so .

See sample-clock/main.go for a complete module.
`

const sampleSource = `package main

import (
	"context"
	"fmt"
	"time"

	"pulseboard/pkg/extension"
)

// Manifest block. Kept as a referenced constant so the bytes survive in the
// compiled plugin where the host reads them before loading.
const manifest = ` + "`" + `<<pulseboard:extension>>
{"name":"sample-clock","version":"1.0.0","author":"pulseboard","description":"Shows a clock surface and greets on load"}
<<pulseboard:end>>` + "`" + `

var _ = manifest

type clock struct{}

func (clock) Init(ctx context.Context, api extension.Capability) error {
	if err := api.CreateSurface("sample-clock", "Clock", "clock"); err != nil {
		return err
	}
	api.Notify(fmt.Sprintf("sample-clock loaded at %s", time.Now().Format(time.Kitchen)), extension.SeverityInfo)
	return nil
}

func (clock) Dispose() {}

// Extension is the symbol the host looks up.
var Extension extension.Module = clock{}
`
