package snapshot

import "pulseboard/internal/domain"

// MetricsStore retains the most recent snapshot; each tick supersedes the
// previous value, there is no queue.
type MetricsStore struct {
	Store[domain.Snapshot]
}

func NewMetricsStore() *MetricsStore {
	return &MetricsStore{}
}

func (s *MetricsStore) Latest() (domain.Snapshot, bool) {
	return s.Get()
}

// ProcessStore retains the last wholesale process listing.
type ProcessStore struct {
	Store[[]domain.ProcessInfo]
}

func NewProcessStore() *ProcessStore {
	return &ProcessStore{}
}

func (s *ProcessStore) Latest() []domain.ProcessInfo {
	list, _ := s.Get()
	return list
}
