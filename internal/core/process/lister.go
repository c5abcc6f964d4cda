// Package process
package process

import (
	"context"
	"fmt"
	"sort"

	psproc "github.com/shirou/gopsutil/v3/process"

	"pulseboard/internal/domain"
)

type Lister struct{}

func NewLister() *Lister {
	return &Lister{}
}

// List enumerates every visible process, sorted by CPU descending. The result
// replaces any previous listing wholesale; processes that vanish mid-scan are
// skipped.
func (l *Lister) List(ctx context.Context) ([]domain.ProcessInfo, error) {
	procs, err := psproc.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	infos := make([]domain.ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}

		info := domain.ProcessInfo{
			Name: name,
			PID:  p.Pid,
		}
		if cpuPct, err := p.CPUPercentWithContext(ctx); err == nil {
			info.CPUPercent = cpuPct
		}
		if memInfo, err := p.MemoryInfoWithContext(ctx); err == nil && memInfo != nil {
			info.MemoryBytes = memInfo.RSS
		}
		if cmdline, err := p.CmdlineWithContext(ctx); err == nil {
			info.CommandLine = cmdline
		}

		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CPUPercent > infos[j].CPUPercent
	})

	return infos, nil
}
