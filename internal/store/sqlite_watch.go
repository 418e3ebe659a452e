package store

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of WAL/SHM events one commit produces.
const watchDebounce = 50 * time.Millisecond

// Watch streams changes committed by other handles on the same database
// file. File events on the database directory trigger an immediate read of
// the change log; a ticker re-reads it anyway in case the filesystem does
// not deliver events (network mounts, some container overlays).
func (s *SQLiteStore) Watch(ctx context.Context) (<-chan Change, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	last, err := s.latestRevision(ctx)
	if err != nil {
		return nil, err
	}

	var events <-chan fsnotify.Event
	var fsErrors <-chan error
	fw, err := fsnotify.NewWatcher()
	if err == nil {
		if werr := fw.Add(filepath.Dir(s.path)); werr != nil {
			s.log.Warn("file watch unavailable, polling only", "path", s.path, "error", werr)
			fw.Close()
			fw = nil
		} else {
			events = fw.Events
			fsErrors = fw.Errors
		}
	} else {
		s.log.Warn("file watcher unavailable, polling only", "error", err)
		fw = nil
	}

	out := make(chan Change, 64)
	go func() {
		defer close(out)
		if fw != nil {
			defer fw.Close()
		}

		ticker := time.NewTicker(s.poll)
		defer ticker.Stop()

		var debounce <-chan time.Time
		base := filepath.Base(s.path)

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if strings.HasPrefix(filepath.Base(ev.Name), base) && debounce == nil {
					debounce = time.After(watchDebounce)
				}
				continue
			case werr, ok := <-fsErrors:
				if !ok {
					fsErrors = nil
					continue
				}
				s.log.Warn("file watch error", "error", werr)
				continue
			case <-debounce:
				debounce = nil
			case <-ticker.C:
			}

			if s.checkOpen() != nil {
				return
			}
			changes, err := s.changesSince(ctx, last)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.log.Warn("read change log", "error", err)
				continue
			}
			for _, c := range changes {
				last = c.Revision
				if c.Origin == s.origin {
					continue
				}
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
