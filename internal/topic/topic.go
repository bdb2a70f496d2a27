// Package topic models a topic: stories and skills arranged under subtopics.
//
// A Topic is mutated in place by a single owner. Mutators that would break
// an eagerly enforced rule fail before writing anything; the remaining rules
// are reported by Validate.
package topic

import (
	"slices"
	"strconv"
)

// Topic is the aggregate root for a topic's stories, skills and subtopics.
type Topic struct {
	id             string
	name           string
	description    string
	languageCode   string
	version        int
	nextSubtopicID int

	canonicalStories  []StoryReference
	additionalStories []StoryReference
	uncategorized     []SkillSummary
	subtopics         []*Subtopic

	skillFactory    SkillSummaryFactory
	storyFactory    StoryReferenceFactory
	subtopicFactory SubtopicFactory
}

// ID returns the topic id, or "" for a topic that has none yet.
func (t *Topic) ID() string { return t.id }

// Name returns the topic name.
func (t *Topic) Name() string { return t.name }

// SetName replaces the name.
func (t *Topic) SetName(name string) { t.name = name }

// Description returns the topic description.
func (t *Topic) Description() string { return t.description }

// SetDescription replaces the description.
func (t *Topic) SetDescription(description string) { t.description = description }

// LanguageCode returns the topic language code.
func (t *Topic) LanguageCode() string { return t.languageCode }

// SetLanguageCode replaces the language code.
func (t *Topic) SetLanguageCode(code string) { t.languageCode = code }

// Version returns the backend version the topic was read at.
func (t *Topic) Version() int { return t.version }

// NextSubtopicID returns the id the next added subtopic will get.
func (t *Topic) NextSubtopicID() int { return t.nextSubtopicID }

// Subtopics returns the subtopics in order. The slice is a copy; its
// elements are the topic's own subtopics.
func (t *Topic) Subtopics() []*Subtopic {
	return slices.Clone(t.subtopics)
}

// CanonicalStoryReferences returns a copy of the canonical story references.
func (t *Topic) CanonicalStoryReferences() []StoryReference {
	return slices.Clone(t.canonicalStories)
}

// AdditionalStoryReferences returns a copy of the additional story references.
func (t *Topic) AdditionalStoryReferences() []StoryReference {
	return slices.Clone(t.additionalStories)
}

// UncategorizedSkillSummaries returns a copy of the uncategorized skills.
func (t *Topic) UncategorizedSkillSummaries() []SkillSummary {
	return slices.Clone(t.uncategorized)
}

// CanonicalStoryIDs returns the canonical story ids in order.
func (t *Topic) CanonicalStoryIDs() []string {
	return storyIDs(t.canonicalStories)
}

// AdditionalStoryIDs returns the additional story ids in order.
func (t *Topic) AdditionalStoryIDs() []string {
	return storyIDs(t.additionalStories)
}

// SkillIDs returns every skill id used in the topic: uncategorized skills
// first, then each subtopic's skills in subtopic order.
func (t *Topic) SkillIDs() []string {
	ids := skillIDs(t.uncategorized)
	for _, st := range t.subtopics {
		ids = append(ids, st.SkillIDs()...)
	}
	return ids
}

// SkillDescriptions maps every skill id used in the topic to its description.
func (t *Topic) SkillDescriptions() map[string]string {
	out := make(map[string]string, len(t.uncategorized))
	for _, s := range t.uncategorized {
		out[s.id] = s.description
	}
	for _, st := range t.subtopics {
		for _, s := range st.SkillSummaries() {
			out[s.id] = s.description
		}
	}
	return out
}

// AddSubtopic appends a new subtopic with the next subtopic id.
func (t *Topic) AddSubtopic(title string) *Subtopic {
	st := t.subtopicFactory.Create(t.nextSubtopicID, title)
	t.subtopics = append(t.subtopics, st)
	t.nextSubtopicID++
	return st
}

// DeleteSubtopic removes a subtopic and moves its skills to uncategorized.
// When isNewlyCreated is set the subtopic was never persisted, so every
// later subtopic id and the next subtopic id shift down by one.
func (t *Topic) DeleteSubtopic(subtopicID int, isNewlyCreated bool) error {
	idx := t.indexOfSubtopic(subtopicID)
	if idx < 0 {
		return mutationError("delete subtopic", strconv.Itoa(subtopicID), ErrSubtopicNotFound)
	}

	for _, s := range t.subtopics[idx].SkillSummaries() {
		if !t.HasUncategorizedSkill(s.id) {
			t.uncategorized = append(t.uncategorized, t.skillFactory.Create(s.id, s.description))
		}
	}
	t.subtopics = slices.Delete(t.subtopics, idx, idx+1)

	if isNewlyCreated {
		for _, st := range t.subtopics {
			if st.ID() > subtopicID {
				st.DecrementID()
			}
		}
		t.nextSubtopicID--
	}
	return nil
}

// SubtopicByID returns the first subtopic with the given id.
func (t *Topic) SubtopicByID(subtopicID int) (*Subtopic, bool) {
	idx := t.indexOfSubtopic(subtopicID)
	if idx < 0 {
		return nil, false
	}
	return t.subtopics[idx], true
}

// ClearSubtopics removes every subtopic. The next subtopic id is kept.
func (t *Topic) ClearSubtopics() {
	t.subtopics = []*Subtopic{}
}

// RearrangeSubtopic moves the subtopic at index from to index to.
func (t *Topic) RearrangeSubtopic(from, to int) error {
	moved, err := move(t.subtopics, from, to)
	if err != nil {
		return mutationError("rearrange subtopic", "", err)
	}
	t.subtopics = moved
	return nil
}

// AddCanonicalStory appends a canonical story reference.
func (t *Topic) AddCanonicalStory(storyID string) error {
	if indexOfStory(t.canonicalStories, storyID) >= 0 {
		return mutationError("add canonical story", storyID, ErrDuplicateStory)
	}
	t.canonicalStories = append(t.canonicalStories, t.storyFactory.Create(storyID))
	return nil
}

// RemoveCanonicalStory removes a canonical story reference.
func (t *Topic) RemoveCanonicalStory(storyID string) error {
	idx := indexOfStory(t.canonicalStories, storyID)
	if idx < 0 {
		return mutationError("remove canonical story", storyID, ErrStoryNotFound)
	}
	t.canonicalStories = slices.Delete(t.canonicalStories, idx, idx+1)
	return nil
}

// ClearCanonicalStoryReferences removes every canonical story reference.
func (t *Topic) ClearCanonicalStoryReferences() {
	t.canonicalStories = []StoryReference{}
}

// RearrangeCanonicalStory moves the canonical story at index from to index to.
func (t *Topic) RearrangeCanonicalStory(from, to int) error {
	moved, err := move(t.canonicalStories, from, to)
	if err != nil {
		return mutationError("rearrange canonical story", "", err)
	}
	t.canonicalStories = moved
	return nil
}

// AddAdditionalStory appends an additional story reference.
func (t *Topic) AddAdditionalStory(storyID string) error {
	if indexOfStory(t.additionalStories, storyID) >= 0 {
		return mutationError("add additional story", storyID, ErrDuplicateStory)
	}
	t.additionalStories = append(t.additionalStories, t.storyFactory.Create(storyID))
	return nil
}

// RemoveAdditionalStory removes an additional story reference.
func (t *Topic) RemoveAdditionalStory(storyID string) error {
	idx := indexOfStory(t.additionalStories, storyID)
	if idx < 0 {
		return mutationError("remove additional story", storyID, ErrStoryNotFound)
	}
	t.additionalStories = slices.Delete(t.additionalStories, idx, idx+1)
	return nil
}

// ClearAdditionalStoryReferences removes every additional story reference.
func (t *Topic) ClearAdditionalStoryReferences() {
	t.additionalStories = []StoryReference{}
}

// HasUncategorizedSkill reports whether skillID is uncategorized.
func (t *Topic) HasUncategorizedSkill(skillID string) bool {
	return t.indexOfUncategorized(skillID) >= 0
}

// AddUncategorizedSkill adds a skill that belongs to no subtopic. The skill
// must not already be used anywhere in the topic.
func (t *Topic) AddUncategorizedSkill(skillID, description string) error {
	for _, st := range t.subtopics {
		if st.HasSkill(skillID) {
			return mutationError("add uncategorized skill", skillID, ErrDuplicateSkill)
		}
	}
	if t.HasUncategorizedSkill(skillID) {
		return mutationError("add uncategorized skill", skillID, ErrDuplicateSkill)
	}
	t.uncategorized = append(t.uncategorized, t.skillFactory.Create(skillID, description))
	return nil
}

// RemoveUncategorizedSkill removes an uncategorized skill.
func (t *Topic) RemoveUncategorizedSkill(skillID string) error {
	idx := t.indexOfUncategorized(skillID)
	if idx < 0 {
		return mutationError("remove uncategorized skill", skillID, ErrSkillNotFound)
	}
	t.uncategorized = slices.Delete(t.uncategorized, idx, idx+1)
	return nil
}

// ClearUncategorizedSkills removes every uncategorized skill.
func (t *Topic) ClearUncategorizedSkills() {
	t.uncategorized = []SkillSummary{}
}

// MoveSkillToSubtopic moves a skill from uncategorized, or from the subtopic
// currently holding it, into the target subtopic.
func (t *Topic) MoveSkillToSubtopic(skillID string, subtopicID int) error {
	const op = "move skill to subtopic"
	target, ok := t.SubtopicByID(subtopicID)
	if !ok {
		return mutationError(op, strconv.Itoa(subtopicID), ErrSubtopicNotFound)
	}
	if target.HasSkill(skillID) {
		return mutationError(op, skillID, ErrDuplicateSkill)
	}

	if idx := t.indexOfUncategorized(skillID); idx >= 0 {
		summary := t.uncategorized[idx]
		t.uncategorized = slices.Delete(t.uncategorized, idx, idx+1)
		return target.AddSkill(summary)
	}
	for _, st := range t.subtopics {
		if idx := st.indexOfSkill(skillID); idx >= 0 {
			summary := st.skills[idx]
			if err := st.RemoveSkill(skillID); err != nil {
				return err
			}
			return target.AddSkill(summary)
		}
	}
	return mutationError(op, skillID, ErrSkillNotFound)
}

// RemoveSkillFromSubtopic takes a skill out of a subtopic and makes it
// uncategorized.
func (t *Topic) RemoveSkillFromSubtopic(subtopicID int, skillID string) error {
	const op = "remove skill from subtopic"
	st, ok := t.SubtopicByID(subtopicID)
	if !ok {
		return mutationError(op, strconv.Itoa(subtopicID), ErrSubtopicNotFound)
	}
	idx := st.indexOfSkill(skillID)
	if idx < 0 {
		return mutationError(op, skillID, ErrSkillNotFound)
	}
	summary := st.skills[idx]
	if err := st.RemoveSkill(skillID); err != nil {
		return err
	}
	if !t.HasUncategorizedSkill(skillID) {
		t.uncategorized = append(t.uncategorized, summary)
	}
	return nil
}

// CopyFromTopic replaces every field of t with the state of other while
// keeping t's identity. Nothing mutable is shared with other afterwards.
func (t *Topic) CopyFromTopic(other *Topic) error {
	if other == t {
		return nil
	}
	seen := make(map[string]struct{}, len(other.uncategorized))
	for _, s := range other.uncategorized {
		if _, dup := seen[s.id]; dup {
			return mutationError("copy topic", s.id, ErrDuplicateSkill)
		}
		seen[s.id] = struct{}{}
	}

	t.id = other.id
	t.SetName(other.name)
	t.SetDescription(other.description)
	t.SetLanguageCode(other.languageCode)
	t.version = other.version
	t.nextSubtopicID = other.nextSubtopicID

	t.ClearAdditionalStoryReferences()
	t.ClearCanonicalStoryReferences()
	t.ClearUncategorizedSkills()
	t.ClearSubtopics()

	t.canonicalStories = other.CanonicalStoryReferences()
	t.additionalStories = other.AdditionalStoryReferences()

	for _, s := range other.uncategorized {
		if err := t.AddUncategorizedSkill(s.id, s.description); err != nil {
			return err
		}
	}

	subtopics := make([]*Subtopic, 0, len(other.subtopics))
	for _, st := range other.subtopics {
		subtopics = append(subtopics, st.Copy())
	}
	t.subtopics = subtopics
	return nil
}

// ToRecord converts the topic to its backend representation.
func (t *Topic) ToRecord() Record {
	var id *string
	if t.id != "" {
		v := t.id
		id = &v
	}

	canonical := make([]StoryReferenceRecord, 0, len(t.canonicalStories))
	for _, r := range t.canonicalStories {
		canonical = append(canonical, r.ToRecord())
	}
	additional := make([]StoryReferenceRecord, 0, len(t.additionalStories))
	for _, r := range t.additionalStories {
		additional = append(additional, r.ToRecord())
	}
	subtopics := make([]SubtopicRecord, 0, len(t.subtopics))
	for _, st := range t.subtopics {
		subtopics = append(subtopics, st.ToRecord())
	}

	return Record{
		ID:                        id,
		Name:                      t.name,
		Description:               t.description,
		LanguageCode:              t.languageCode,
		CanonicalStoryReferences:  canonical,
		AdditionalStoryReferences: additional,
		UncategorizedSkillIDs:     skillIDs(t.uncategorized),
		NextSubtopicID:            t.nextSubtopicID,
		Version:                   t.version,
		Subtopics:                 subtopics,
	}
}

func (t *Topic) indexOfSubtopic(subtopicID int) int {
	for i, st := range t.subtopics {
		if st.ID() == subtopicID {
			return i
		}
	}
	return -1
}

func (t *Topic) indexOfUncategorized(skillID string) int {
	for i, s := range t.uncategorized {
		if s.id == skillID {
			return i
		}
	}
	return -1
}
