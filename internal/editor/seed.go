package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/p-n-ai/pai-topics/internal/curriculum"
)

// Seed saves every curriculum entry that the store does not hold yet and
// returns how many were imported.
func Seed(store TopicStore, entries []curriculum.Entry, events EventLogger) (int, error) {
	if events == nil {
		events = NopEventLogger{}
	}

	imported := 0
	for _, e := range entries {
		_, err := store.GetTopic(e.ID())
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrTopicNotFound) {
			return imported, fmt.Errorf("seed topic %s: %w", e.ID(), err)
		}

		version, err := store.SaveTopic(e.Record, e.SkillDescriptions)
		if err != nil {
			return imported, fmt.Errorf("seed topic %s: %w", e.ID(), err)
		}
		imported++

		if err := events.LogEvent(Event{
			TopicID:   e.ID(),
			EventType: EventTopicSeeded,
			Data:      map[string]any{"version": version, "path": e.Path},
		}); err != nil {
			slog.Warn("failed to log seed event", "topic_id", e.ID(), "error", err)
		}
	}

	slog.Info("topics seeded", "imported", imported, "total", len(entries))
	return imported, nil
}
