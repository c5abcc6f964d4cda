// Package watcher
package watcher

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"pulseboard/internal/domain"
	"pulseboard/internal/logger"
)

// Service watches a set of root paths recursively and forwards change events.
// Events carry the raw path and a timestamp; consumers own retention.
type Service struct {
	fw     *fsnotify.Watcher
	roots  []string
	events chan domain.FileSystemEvent
	done   chan struct{}
	log    logger.Logger
}

func New(roots []string, log logger.Logger) (*Service, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Service{
		fw:     fw,
		roots:  roots,
		events: make(chan domain.FileSystemEvent, 100),
		done:   make(chan struct{}),
		log:    log,
	}, nil
}

// Events is the forwarded stream. Closed when the service stops.
func (s *Service) Events() <-chan domain.FileSystemEvent {
	return s.events
}

func (s *Service) Start() {
	for _, root := range s.roots {
		if err := s.addRecursive(root); err != nil {
			s.log.Warn("watcher: cannot watch path", "path", root, "error", err)
		}
	}
	go s.loop()
}

// Close releases all underlying watch handles.
func (s *Service) Close() error {
	close(s.done)
	return s.fw.Close()
}

func (s *Service) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := s.fw.Add(path); err != nil {
				s.log.Debug("watcher: add failed", "path", path, "error", err)
			}
		}
		return nil
	})
}

func (s *Service) loop() {
	defer close(s.events)

	for {
		select {
		case <-s.done:
			return

		case ev, ok := <-s.fw.Events:
			if !ok {
				return
			}

			kind, relevant := classify(ev)
			if !relevant {
				continue
			}

			// inotify does not follow into new directories on its own.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := s.addRecursive(ev.Name); err != nil {
						s.log.Debug("watcher: add new dir failed", "path", ev.Name, "error", err)
					}
				}
			}

			s.emit(domain.FileSystemEvent{
				Kind:       kind,
				Path:       ev.Name,
				OccurredAt: time.Now().UnixMilli(),
			})

		case err, ok := <-s.fw.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher: error", "error", err)
		}
	}
}

// emit never blocks; a slow consumer drops the oldest pending event.
func (s *Service) emit(ev domain.FileSystemEvent) {
	select {
	case s.events <- ev:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- ev:
		default:
		}
	}
}

func classify(ev fsnotify.Event) (domain.FileEventKind, bool) {
	switch {
	case ev.Op.Has(fsnotify.Create):
		return domain.FileAdded, true
	case ev.Op.Has(fsnotify.Write):
		return domain.FileModified, true
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		return domain.FileRemoved, true
	default:
		// chmod noise
		return "", false
	}
}
