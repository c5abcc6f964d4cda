// Package memory
package memory

import (
	"context"
	"fmt"

	psmem "github.com/shirou/gopsutil/v3/mem"

	"pulseboard/internal/domain"
)

type Collector struct{}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Collect(ctx context.Context) (domain.MemoryMetric, error) {
	vm, err := psmem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return domain.MemoryMetric{}, fmt.Errorf("virtual memory: %w", err)
	}

	return domain.MemoryMetric{
		TotalBytes:     vm.Total,
		UsedBytes:      vm.Used,
		AvailableBytes: vm.Available,
		UsedPercent:    vm.UsedPercent,
	}, nil
}
