// Package metrics
package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pulseboard/internal/core/metrics/collector/cpu"
	"pulseboard/internal/core/metrics/collector/disk"
	"pulseboard/internal/core/metrics/collector/memory"
	"pulseboard/internal/core/metrics/collector/network"
	"pulseboard/internal/domain"
	"pulseboard/internal/logger"
)

type CPUProvider interface {
	Collect(ctx context.Context) (domain.CPUMetric, error)
}

type MemoryProvider interface {
	Collect(ctx context.Context) (domain.MemoryMetric, error)
}

type DiskProvider interface {
	Collect(ctx context.Context) ([]domain.DiskMetric, error)
}

type NetworkProvider interface {
	Collect(ctx context.Context) (domain.NetworkMetric, error)
}

// Sampler assembles one Snapshot per call. The four sub-queries run
// concurrently and are joined before assembly; if any of them fails the whole
// sample fails and no partial snapshot is produced.
type Sampler struct {
	cpu     CPUProvider
	memory  MemoryProvider
	disk    DiskProvider
	network NetworkProvider
	log     logger.Logger
}

func NewSampler(log logger.Logger) *Sampler {
	return NewSamplerWith(log,
		cpu.NewCollector(),
		memory.NewCollector(),
		disk.NewCollector(),
		network.NewCollector(),
	)
}

func NewSamplerWith(log logger.Logger, c CPUProvider, m MemoryProvider, d DiskProvider, n NetworkProvider) *Sampler {
	return &Sampler{cpu: c, memory: m, disk: d, network: n, log: log}
}

func (s *Sampler) Sample(ctx context.Context) (domain.Snapshot, error) {
	var (
		wg sync.WaitGroup

		cpuVal  domain.CPUMetric
		memVal  domain.MemoryMetric
		diskVal []domain.DiskMetric
		netVal  domain.NetworkMetric

		cpuErr, memErr, diskErr, netErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		cpuVal, cpuErr = s.cpu.Collect(ctx)
	}()
	go func() {
		defer wg.Done()
		memVal, memErr = s.memory.Collect(ctx)
	}()
	go func() {
		defer wg.Done()
		diskVal, diskErr = s.disk.Collect(ctx)
	}()
	go func() {
		defer wg.Done()
		netVal, netErr = s.network.Collect(ctx)
	}()
	wg.Wait()

	for name, err := range map[string]error{
		"cpu": cpuErr, "memory": memErr, "disk": diskErr, "network": netErr,
	} {
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("sample %s: %w", name, err)
		}
	}

	return domain.Snapshot{
		CPU:        cpuVal,
		Memory:     memVal,
		Disks:      diskVal,
		Network:    netVal,
		CapturedAt: time.Now().UnixMilli(),
	}, nil
}
