// Package cpu
package cpu

import (
	"context"
	"fmt"

	pscpu "github.com/shirou/gopsutil/v3/cpu"

	"pulseboard/internal/domain"
)

type Collector struct{}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Collect(ctx context.Context) (domain.CPUMetric, error) {
	// interval 0 measures against the previous call instead of blocking.
	percents, err := pscpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return domain.CPUMetric{}, fmt.Errorf("cpu percent: %w", err)
	}
	if len(percents) == 0 {
		return domain.CPUMetric{}, fmt.Errorf("cpu percent: empty result")
	}

	cores, err := pscpu.CountsWithContext(ctx, true)
	if err != nil {
		return domain.CPUMetric{}, fmt.Errorf("cpu counts: %w", err)
	}

	return domain.CPUMetric{
		LoadPercent: percents[0],
		CoreCount:   cores,
	}, nil
}
