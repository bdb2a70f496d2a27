package topic

// Record is the backend representation of a topic. Field names are part of the
// wire contract shared with the storage backend.
type Record struct {
	ID                        *string                `json:"id" yaml:"id"`
	Name                      string                 `json:"name" yaml:"name"`
	Description               string                 `json:"description" yaml:"description"`
	LanguageCode              string                 `json:"language_code" yaml:"language_code"`
	CanonicalStoryReferences  []StoryReferenceRecord `json:"canonical_story_references" yaml:"canonical_story_references"`
	AdditionalStoryReferences []StoryReferenceRecord `json:"additional_story_references" yaml:"additional_story_references"`
	UncategorizedSkillIDs     []string               `json:"uncategorized_skill_ids" yaml:"uncategorized_skill_ids"`
	NextSubtopicID            int                    `json:"next_subtopic_id" yaml:"next_subtopic_id"`
	Version                   int                    `json:"version" yaml:"version"`
	Subtopics                 []SubtopicRecord       `json:"subtopics" yaml:"subtopics"`
}

// StoryReferenceRecord is the backend representation of a story reference.
type StoryReferenceRecord struct {
	StoryID          string `json:"story_id" yaml:"story_id"`
	StoryIsPublished bool   `json:"story_is_published" yaml:"story_is_published"`
}

// SubtopicRecord is the backend representation of a subtopic.
type SubtopicRecord struct {
	ID                int      `json:"id" yaml:"id"`
	Title             string   `json:"title" yaml:"title"`
	SkillIDs          []string `json:"skill_ids" yaml:"skill_ids"`
	ThumbnailFilename string   `json:"thumbnail_filename,omitempty" yaml:"thumbnail_filename,omitempty"`
	ThumbnailBgColor  string   `json:"thumbnail_bg_color,omitempty" yaml:"thumbnail_bg_color,omitempty"`
	URLFragment       string   `json:"url_fragment,omitempty" yaml:"url_fragment,omitempty"`
}

// RecordID returns the record's id, or "" when it has none.
func (r Record) RecordID() string {
	if r.ID == nil {
		return ""
	}
	return *r.ID
}
