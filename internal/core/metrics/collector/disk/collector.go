// Package disk
package disk

import (
	"context"
	"fmt"

	psdisk "github.com/shirou/gopsutil/v3/disk"

	"pulseboard/internal/domain"
)

type Collector struct{}

func NewCollector() *Collector {
	return &Collector{}
}

// Collect reports usage for every physical partition, in mount order.
// Partitions that cannot be statted (stale mounts, permissions) are skipped;
// the sub-query fails only when the partition table itself is unreadable.
func (c *Collector) Collect(ctx context.Context) ([]domain.DiskMetric, error) {
	parts, err := psdisk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("disk partitions: %w", err)
	}

	metrics := make([]domain.DiskMetric, 0, len(parts))
	for _, part := range parts {
		usage, err := psdisk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			continue
		}
		metrics = append(metrics, domain.DiskMetric{
			Filesystem:  part.Device,
			Mountpoint:  part.Mountpoint,
			SizeBytes:   usage.Total,
			UsedBytes:   usage.Used,
			UsedPercent: usage.UsedPercent,
		})
	}

	return metrics, nil
}
