package editor

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"github.com/p-n-ai/pai-topics/internal/topic"
)

// InvalidTopicError is returned by Session.Save when the topic has issues.
type InvalidTopicError struct {
	Issues []string
}

func (e *InvalidTopicError) Error() string {
	return fmt.Sprintf("topic has %d issue(s): %s", len(e.Issues), strings.Join(e.Issues, "; "))
}

// Session is one editor's view of a topic. The bound *topic.Topic keeps its
// identity for the whole session; loads and applies copy state into it.
type Session struct {
	store   TopicStore
	factory *topic.Factory
	events  EventLogger

	topic *topic.Topic
	// ids of subtopics added since the last load, never persisted.
	newSubtopics map[int]struct{}
}

// NewSession creates a session bound to an interstitial topic.
func NewSession(store TopicStore, factory *topic.Factory, events EventLogger) *Session {
	if factory == nil {
		factory = topic.DefaultFactory()
	}
	if events == nil {
		events = NopEventLogger{}
	}
	return &Session{
		store:        store,
		factory:      factory,
		events:       events,
		topic:        factory.CreateInterstitialTopic(),
		newSubtopics: make(map[int]struct{}),
	}
}

// Topic returns the session's bound topic.
func (s *Session) Topic() *topic.Topic {
	return s.topic
}

// Load fetches a stored topic and copies it into the bound topic.
func (s *Session) Load(id string) error {
	stored, err := s.store.GetTopic(id)
	if err != nil {
		return err
	}
	return s.Apply(stored.Record, stored.SkillDescriptions)
}

// Apply replaces the bound topic's state with rec.
func (s *Session) Apply(rec topic.Record, skillDescriptions map[string]string) error {
	fresh, err := s.factory.Create(rec, skillDescriptions)
	if err != nil {
		return fmt.Errorf("build topic: %w", err)
	}
	if err := s.topic.CopyFromTopic(fresh); err != nil {
		return fmt.Errorf("apply topic: %w", err)
	}
	clear(s.newSubtopics)
	return nil
}

// AddSubtopic adds a subtopic and remembers it as unsaved.
func (s *Session) AddSubtopic(title string) *topic.Subtopic {
	st := s.topic.AddSubtopic(title)
	s.newSubtopics[st.ID()] = struct{}{}
	return st
}

// DeleteSubtopic deletes a subtopic. Subtopics added in this session are
// deleted as newly created so their ids are reused.
func (s *Session) DeleteSubtopic(id int) error {
	_, isNew := s.newSubtopics[id]
	if err := s.topic.DeleteSubtopic(id, isNew); err != nil {
		return err
	}
	if !isNew {
		return nil
	}

	// Every id above a newly created one was created later in the session,
	// so the tracked ids shift down with the topic's.
	shifted := make(map[int]struct{}, len(s.newSubtopics))
	for tracked := range s.newSubtopics {
		switch {
		case tracked < id:
			shifted[tracked] = struct{}{}
		case tracked > id:
			shifted[tracked-1] = struct{}{}
		}
	}
	s.newSubtopics = shifted
	return nil
}

// IsNewSubtopic reports whether the subtopic was added in this session.
func (s *Session) IsNewSubtopic(id int) bool {
	_, ok := s.newSubtopics[id]
	return ok
}

// Issues returns the topic's validation issues plus session level checks.
func (s *Session) Issues() []string {
	issues := s.topic.Validate()
	code := s.topic.LanguageCode()
	if _, err := language.Parse(code); err != nil {
		issues = append(issues, fmt.Sprintf("The language code %q is not a valid language tag.", code))
	}
	return append(issues, subtopicIDIssues(s.topic)...)
}

// subtopicIDIssues reports subtopic ids that repeat or that the topic would
// hand out again from its next subtopic id.
func subtopicIDIssues(t *topic.Topic) []string {
	var issues []string
	next := t.NextSubtopicID()
	seen := make(map[int]struct{})
	for _, st := range t.Subtopics() {
		id := st.ID()
		if _, dup := seen[id]; dup {
			issues = append(issues, fmt.Sprintf("The subtopic with id %d is duplicated in the topic.", id))
			continue
		}
		seen[id] = struct{}{}
		if id >= next {
			issues = append(issues, fmt.Sprintf("The subtopic with id %d is not below the next subtopic id %d.", id, next))
		}
	}
	return issues
}

// Save persists the bound topic and reloads it at its new version.
func (s *Session) Save() (int, error) {
	if issues := s.Issues(); len(issues) > 0 {
		return 0, &InvalidTopicError{Issues: issues}
	}
	id := s.topic.ID()
	if id == "" {
		return 0, ErrMissingTopicID
	}

	version, err := s.store.SaveTopic(s.topic.ToRecord(), s.topic.SkillDescriptions())
	if err != nil {
		return 0, fmt.Errorf("save topic %s: %w", id, err)
	}

	if err := s.events.LogEvent(Event{
		TopicID:   id,
		EventType: EventTopicSaved,
		Data: map[string]any{
			"version":   version,
			"subtopics": len(s.topic.Subtopics()),
			"skills":    len(s.topic.SkillIDs()),
		},
	}); err != nil {
		slog.Warn("failed to log topic event", "topic_id", id, "error", err)
	}
	slog.Info("topic saved", "topic_id", id, "version", version)

	if err := s.Load(id); err != nil {
		return version, fmt.Errorf("reload topic %s: %w", id, err)
	}
	return version, nil
}
