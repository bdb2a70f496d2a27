package curriculum

import "github.com/p-n-ai/pai-topics/internal/topic"

// Entry is a topic record loaded from YAML together with the descriptions of
// the skills it references.
type Entry struct {
	Record            topic.Record
	SkillDescriptions map[string]string
	Path              string
}

// ID returns the topic id of the entry.
func (e Entry) ID() string {
	return e.Record.RecordID()
}
