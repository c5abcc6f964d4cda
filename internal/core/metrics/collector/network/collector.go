// Package network
package network

import (
	"context"
	"fmt"
	"time"

	psnet "github.com/shirou/gopsutil/v3/net"

	"pulseboard/internal/domain"
	"pulseboard/internal/pkg"
)

const smoothing = 0.3

// Collector derives rx/tx rates from counter deltas between successive
// collections and smooths them with an EMA. The first collection reports
// zero rates since there is no prior counter to diff against.
type Collector struct {
	lastRxBytes uint64
	lastTxBytes uint64
	lastTime    time.Time

	rxEMA *pkg.EMA
	txEMA *pkg.EMA
}

func NewCollector() *Collector {
	return &Collector{
		rxEMA: pkg.NewEMA(smoothing),
		txEMA: pkg.NewEMA(smoothing),
	}
}

func (c *Collector) Collect(ctx context.Context) (domain.NetworkMetric, error) {
	counters, err := psnet.IOCountersWithContext(ctx, false)
	if err != nil {
		return domain.NetworkMetric{}, fmt.Errorf("net counters: %w", err)
	}
	if len(counters) == 0 {
		return domain.NetworkMetric{}, fmt.Errorf("net counters: empty result")
	}

	conns, err := psnet.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		return domain.NetworkMetric{}, fmt.Errorf("net connections: %w", err)
	}

	rx := counters[0].BytesRecv
	tx := counters[0].BytesSent
	now := time.Now()

	var rxRate, txRate float64
	if !c.lastTime.IsZero() {
		elapsed := now.Sub(c.lastTime).Seconds()
		if elapsed > 0 && rx >= c.lastRxBytes && tx >= c.lastTxBytes {
			rxRate = float64(rx-c.lastRxBytes) / elapsed
			txRate = float64(tx-c.lastTxBytes) / elapsed
		}
	}

	c.lastRxBytes = rx
	c.lastTxBytes = tx
	c.lastTime = now

	return domain.NetworkMetric{
		RxBytesPerSec:     c.rxEMA.Add(rxRate),
		TxBytesPerSec:     c.txEMA.Add(txRate),
		ActiveConnections: len(conns),
	}, nil
}
