// Package editor is the application layer around the topic aggregate: it
// stores topic records, caches them, records change events and runs editing
// sessions.
package editor

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/p-n-ai/pai-topics/internal/topic"
)

var (
	ErrTopicNotFound   = errors.New("topic not found")
	ErrVersionConflict = errors.New("topic version conflict")
	ErrMissingTopicID  = errors.New("topic id is required")
)

// StoredTopic is a persisted topic record plus the descriptions of the skills
// it references.
type StoredTopic struct {
	Record            topic.Record      `json:"record"`
	SkillDescriptions map[string]string `json:"skill_descriptions"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// TopicSummary is a listing row for a stored topic.
type TopicSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TopicStore persists topic records.
//
// SaveTopic stores rec and returns the new version. An existing topic is only
// replaced when rec.Version equals the stored version; the stored version is
// then incremented. A new topic keeps rec.Version, or 1 when it is unset.
type TopicStore interface {
	GetTopic(id string) (*StoredTopic, error)
	ListTopics() ([]TopicSummary, error)
	SaveTopic(rec topic.Record, skillDescriptions map[string]string) (int, error)
}

// MemoryStore is an in-memory implementation of TopicStore.
type MemoryStore struct {
	topics map[string]*StoredTopic
	mu     sync.RWMutex
}

// NewMemoryStore creates a new in-memory topic store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		topics: make(map[string]*StoredTopic),
	}
}

func (s *MemoryStore) GetTopic(id string) (*StoredTopic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.topics[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTopicNotFound, id)
	}
	return &StoredTopic{
		Record:            cloneRecord(st.Record),
		SkillDescriptions: maps.Clone(st.SkillDescriptions),
		UpdatedAt:         st.UpdatedAt,
	}, nil
}

func (s *MemoryStore) ListTopics() ([]TopicSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TopicSummary, 0, len(s.topics))
	for id, st := range s.topics {
		out = append(out, TopicSummary{
			ID:        id,
			Name:      st.Record.Name,
			Version:   st.Record.Version,
			UpdatedAt: st.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) SaveTopic(rec topic.Record, skillDescriptions map[string]string) (int, error) {
	id := rec.RecordID()
	if id == "" {
		return 0, ErrMissingTopicID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	version, err := nextVersion(rec, s.storedVersion(id))
	if err != nil {
		return 0, err
	}
	rec.Version = version
	s.topics[id] = &StoredTopic{
		Record:            cloneRecord(rec),
		SkillDescriptions: maps.Clone(skillDescriptions),
		UpdatedAt:         time.Now(),
	}
	return version, nil
}

func (s *MemoryStore) storedVersion(id string) int {
	st, ok := s.topics[id]
	if !ok {
		return 0
	}
	return st.Record.Version
}

// nextVersion returns the version to store rec under. stored is 0 when the
// topic does not exist yet.
func nextVersion(rec topic.Record, stored int) (int, error) {
	if stored == 0 {
		if rec.Version <= 0 {
			return 1, nil
		}
		return rec.Version, nil
	}
	if rec.Version != stored {
		return 0, fmt.Errorf("%w: %s is at version %d, got %d", ErrVersionConflict, rec.RecordID(), stored, rec.Version)
	}
	return stored + 1, nil
}

func cloneRecord(rec topic.Record) topic.Record {
	out := rec
	if rec.ID != nil {
		id := *rec.ID
		out.ID = &id
	}
	out.CanonicalStoryReferences = slices.Clone(rec.CanonicalStoryReferences)
	out.AdditionalStoryReferences = slices.Clone(rec.AdditionalStoryReferences)
	out.UncategorizedSkillIDs = slices.Clone(rec.UncategorizedSkillIDs)
	out.Subtopics = make([]topic.SubtopicRecord, 0, len(rec.Subtopics))
	for _, st := range rec.Subtopics {
		st.SkillIDs = slices.Clone(st.SkillIDs)
		out.Subtopics = append(out.Subtopics, st)
	}
	return out
}
