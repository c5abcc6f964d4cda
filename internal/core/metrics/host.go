package metrics

import (
	"context"
	"fmt"
	"runtime"

	pshost "github.com/shirou/gopsutil/v3/host"

	"pulseboard/internal/domain"
)

// CollectHostInfo gathers the static host facts shown in the dashboard
// header. Called once at startup, not on the sampling loop.
func CollectHostInfo(ctx context.Context) (domain.HostInfo, error) {
	info, err := pshost.InfoWithContext(ctx)
	if err != nil {
		return domain.HostInfo{}, fmt.Errorf("host info: %w", err)
	}

	return domain.HostInfo{
		Hostname:      info.Hostname,
		OS:            info.Platform,
		KernelVersion: info.KernelVersion,
		Arch:          runtime.GOARCH,
		UptimeSeconds: info.Uptime,
	}, nil
}
