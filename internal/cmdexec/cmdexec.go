// Package cmdexec abstracts external command execution so callers can be
// tested without touching the host.
package cmdexec

import (
	"context"
	"fmt"
	"os/exec"
)

type Runner interface {
	Exists(name string) bool
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
	Run(ctx context.Context, name string, args ...string) error
}

type defaultRunner struct{}

func (defaultRunner) Exists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (defaultRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("command %s not found", name)
	}
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

func (defaultRunner) Run(ctx context.Context, name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("command %s not found", name)
	}
	return exec.CommandContext(ctx, name, args...).Run()
}

func Default() Runner {
	return defaultRunner{}
}
