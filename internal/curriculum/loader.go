// Package curriculum loads topic records and skill descriptions from a
// directory of YAML files.
//
// A topic lives in <name>.yaml or <name>.yml; the descriptions of the skills it uses live
// in an optional sibling <name>.skills.yaml mapping skill id to description.
package curriculum

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/p-n-ai/pai-topics/internal/topic"
)

const skillsSuffix = ".skills.yaml"

// Loader loads and caches curriculum content from the filesystem.
type Loader struct {
	rootDir           string
	topics            map[string]Entry
	skillDescriptions map[string]map[string]string
	mu                sync.RWMutex
}

// NewLoader creates a new curriculum loader and loads all content.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{
		rootDir:           rootDir,
		topics:            make(map[string]Entry),
		skillDescriptions: make(map[string]map[string]string),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading curriculum: %w", err)
	}

	slog.Info("curriculum loaded", "topics", len(l.topics))
	return l, nil
}

// GetTopic returns a topic entry by ID.
func (l *Loader) GetTopic(id string) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.topics[id]
	if !ok {
		return Entry{}, false
	}
	return l.withSkills(e), true
}

// AllTopics returns all loaded topic entries ordered by id.
func (l *Loader) AllTopics() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := make([]Entry, 0, len(l.topics))
	for _, e := range l.topics {
		entries = append(entries, l.withSkills(e))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID() < entries[j].ID() })
	return entries
}

func (l *Loader) withSkills(e Entry) Entry {
	descriptions := make(map[string]string, len(l.skillDescriptions[e.ID()]))
	for k, v := range l.skillDescriptions[e.ID()] {
		descriptions[k] = v
	}
	e.SkillDescriptions = descriptions
	return e
}

func (l *Loader) loadAll() error {
	return filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		switch {
		case strings.HasSuffix(path, skillsSuffix):
			return l.loadSkillDescriptions(path)
		case strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml"):
			return l.loadTopic(path)
		}
		return nil
	})
}

func (l *Loader) loadTopic(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		slog.Warn("skipping invalid topic YAML", "path", path, "error", err)
		return nil
	}
	if id, _ := doc["id"].(string); id == "" {
		return nil // Not a topic file
	}
	if err := validateDocument(doc); err != nil {
		slog.Warn("skipping topic YAML that does not match the record schema", "path", path, "error", err)
		return nil
	}

	var rec topic.Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		slog.Warn("skipping invalid topic YAML", "path", path, "error", err)
		return nil
	}

	l.mu.Lock()
	l.topics[rec.RecordID()] = Entry{Record: rec, Path: path}
	l.mu.Unlock()

	return nil
}

func (l *Loader) loadSkillDescriptions(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Derive topic ID from the matching .yaml or .yml file
	base := strings.TrimSuffix(path, skillsSuffix)
	yamlData, err := os.ReadFile(base + ".yaml")
	if errors.Is(err, fs.ErrNotExist) {
		yamlData, err = os.ReadFile(base + ".yml")
	}
	if err != nil {
		return nil // No matching YAML, skip
	}

	var partial struct {
		ID string `yaml:"id"`
	}
	if err := yaml.Unmarshal(yamlData, &partial); err != nil || partial.ID == "" {
		return nil
	}

	var descriptions map[string]string
	if err := yaml.Unmarshal(data, &descriptions); err != nil {
		slog.Warn("skipping invalid skill descriptions YAML", "path", path, "error", err)
		return nil
	}

	l.mu.Lock()
	l.skillDescriptions[partial.ID] = descriptions
	l.mu.Unlock()

	return nil
}
