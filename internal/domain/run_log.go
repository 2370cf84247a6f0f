package domain

import (
	"log/slog"

	m "testsmith.dev/pkg/testsmith/internal/model"
	"testsmith.dev/pkg/testsmith/pkg"
)

// runLog is the ordered, append-only build log of one run. Entries go to a
// disk spill when one can be created and stay in memory otherwise.
type runLog struct {
	spill pkg.Spill[m.BuildLogEntry]
	mem   []m.BuildLogEntry
}

func newRunLog(dir string, useSpill bool) *runLog {
	if !useSpill {
		return &runLog{}
	}

	spill, err := pkg.NewSpill[m.BuildLogEntry](dir)
	if err != nil {
		slog.Warn("Build log spill unavailable, keeping log in memory", "error", err)
		return &runLog{}
	}

	return &runLog{spill: spill}
}

func (l *runLog) append(entries ...m.BuildLogEntry) {
	if len(entries) == 0 {
		return
	}

	if l.spill != nil {
		if err := l.spill.Append(entries...); err == nil {
			return
		}

		slog.Warn("Build log spill failed, switching to memory", "path", l.spill.Path())
		l.toMemory()
	}

	l.mem = append(l.mem, entries...)
}

func (l *runLog) entries() []m.BuildLogEntry {
	if l.spill != nil {
		all, err := l.spill.All()
		if err == nil {
			return all
		}

		slog.Warn("Build log spill unreadable, switching to memory", "path", l.spill.Path(), "error", err)
		l.toMemory()
	}

	return append([]m.BuildLogEntry(nil), l.mem...)
}

func (l *runLog) toMemory() {
	if all, err := l.spill.All(); err == nil {
		l.mem = all
	}

	_ = l.spill.Close()
	l.spill = nil
}

func (l *runLog) close() {
	if l.spill != nil {
		if err := l.spill.Close(); err != nil {
			slog.Warn("Failed to remove build log spill", "path", l.spill.Path(), "error", err)
		}
	}
}
