package topic

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
)

const maxURLFragmentLength = 25

var urlFragmentPattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

// Subtopic groups a subset of a topic's skills under a title.
type Subtopic struct {
	id                int
	title             string
	skills            []SkillSummary
	thumbnailFilename string
	thumbnailBgColor  string
	urlFragment       string
}

// ID returns the subtopic id, unique within its topic.
func (s *Subtopic) ID() int { return s.id }

// Title returns the subtopic title.
func (s *Subtopic) Title() string { return s.title }

// SetTitle replaces the title.
func (s *Subtopic) SetTitle(title string) { s.title = title }

// ThumbnailFilename returns the thumbnail image filename.
func (s *Subtopic) ThumbnailFilename() string { return s.thumbnailFilename }

// ThumbnailBgColor returns the thumbnail background color.
func (s *Subtopic) ThumbnailBgColor() string { return s.thumbnailBgColor }

// SetThumbnail replaces the thumbnail filename and background color.
func (s *Subtopic) SetThumbnail(filename, bgColor string) {
	s.thumbnailFilename = filename
	s.thumbnailBgColor = bgColor
}

// URLFragment returns the url fragment used in subtopic page links.
func (s *Subtopic) URLFragment() string { return s.urlFragment }

// SetURLFragment replaces the url fragment.
func (s *Subtopic) SetURLFragment(fragment string) { s.urlFragment = fragment }

// SkillSummaries returns a copy of the subtopic's skills in order.
func (s *Subtopic) SkillSummaries() []SkillSummary {
	return slices.Clone(s.skills)
}

// SkillIDs returns the ids of the subtopic's skills in order.
func (s *Subtopic) SkillIDs() []string {
	return skillIDs(s.skills)
}

// HasSkill reports whether the subtopic holds skillID.
func (s *Subtopic) HasSkill(skillID string) bool {
	return s.indexOfSkill(skillID) >= 0
}

// AddSkill appends a skill to the subtopic.
func (s *Subtopic) AddSkill(summary SkillSummary) error {
	if s.HasSkill(summary.ID()) {
		return mutationError("add skill to subtopic "+strconv.Itoa(s.id), summary.ID(), ErrDuplicateSkill)
	}
	s.skills = append(s.skills, summary)
	return nil
}

// RemoveSkill removes a skill from the subtopic.
func (s *Subtopic) RemoveSkill(skillID string) error {
	idx := s.indexOfSkill(skillID)
	if idx < 0 {
		return mutationError("remove skill from subtopic "+strconv.Itoa(s.id), skillID, ErrSkillNotFound)
	}
	s.skills = slices.Delete(s.skills, idx, idx+1)
	return nil
}

// RearrangeSkill moves the skill at index from to index to.
func (s *Subtopic) RearrangeSkill(from, to int) error {
	moved, err := move(s.skills, from, to)
	if err != nil {
		return mutationError("rearrange skill in subtopic "+strconv.Itoa(s.id), "", err)
	}
	s.skills = moved
	return nil
}

// DecrementID lowers the subtopic id by one.
func (s *Subtopic) DecrementID() {
	s.id--
}

// Validate returns the subtopic's own issues.
func (s *Subtopic) Validate() []string {
	issues := []string{}
	if s.title == "" {
		issues = append(issues, "Subtopic title should not be empty")
	}
	ids := s.SkillIDs()
	for _, id := range ids {
		if slices.Index(ids, id) < lastIndex(ids, id) {
			issues = append(issues, fmt.Sprintf("The skill with id %s is duplicated in subtopic with id %d", id, s.id))
		}
	}
	if s.urlFragment != "" {
		if len(s.urlFragment) > maxURLFragmentLength {
			issues = append(issues, fmt.Sprintf("Subtopic url fragment should not be longer than %d characters", maxURLFragmentLength))
		}
		if !urlFragmentPattern.MatchString(s.urlFragment) {
			issues = append(issues, "Subtopic url fragment is invalid")
		}
	}
	return issues
}

// Copy returns a deep copy sharing no state with s.
func (s *Subtopic) Copy() *Subtopic {
	out := *s
	out.skills = slices.Clone(s.skills)
	return &out
}

// ToRecord converts the subtopic to its backend representation.
func (s *Subtopic) ToRecord() SubtopicRecord {
	return SubtopicRecord{
		ID:                s.id,
		Title:             s.title,
		SkillIDs:          s.SkillIDs(),
		ThumbnailFilename: s.thumbnailFilename,
		ThumbnailBgColor:  s.thumbnailBgColor,
		URLFragment:       s.urlFragment,
	}
}

func (s *Subtopic) indexOfSkill(skillID string) int {
	for i, sk := range s.skills {
		if sk.id == skillID {
			return i
		}
	}
	return -1
}

// SubtopicFactory builds subtopics.
type SubtopicFactory interface {
	Create(id int, title string) *Subtopic
	CreateFromRecord(rec SubtopicRecord, skillDescriptions map[string]string) (*Subtopic, error)
}

type subtopicFactory struct {
	skills SkillSummaryFactory
}

// NewSubtopicFactory returns the default subtopic factory. Skill summaries
// are built with skills.
func NewSubtopicFactory(skills SkillSummaryFactory) SubtopicFactory {
	return subtopicFactory{skills: skills}
}

func (f subtopicFactory) Create(id int, title string) *Subtopic {
	return &Subtopic{id: id, title: title, skills: []SkillSummary{}}
}

// CreateFromRecord builds a subtopic, resolving skill descriptions through
// skillDescriptions. Unknown skills get an empty description.
func (f subtopicFactory) CreateFromRecord(rec SubtopicRecord, skillDescriptions map[string]string) (*Subtopic, error) {
	if rec.ID < 1 {
		return nil, mutationError("read subtopic", strconv.Itoa(rec.ID), ErrMalformedRecord)
	}
	skills := make([]SkillSummary, 0, len(rec.SkillIDs))
	for _, id := range rec.SkillIDs {
		skills = append(skills, f.skills.Create(id, skillDescriptions[id]))
	}
	return &Subtopic{
		id:                rec.ID,
		title:             rec.Title,
		skills:            skills,
		thumbnailFilename: rec.ThumbnailFilename,
		thumbnailBgColor:  rec.ThumbnailBgColor,
		urlFragment:       rec.URLFragment,
	}, nil
}

func lastIndex(ids []string, id string) int {
	for i := len(ids) - 1; i >= 0; i-- {
		if ids[i] == id {
			return i
		}
	}
	return -1
}

// move returns a copy of items with the element at from relocated to to.
func move[T any](items []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, ErrIndexOutOfRange
	}
	out := slices.Clone(items)
	item := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, item)
	return out, nil
}
