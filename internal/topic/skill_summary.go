package topic

// SkillSummary identifies a skill by id together with its display description.
type SkillSummary struct {
	id          string
	description string
}

// ID returns the skill id.
func (s SkillSummary) ID() string { return s.id }

// Description returns the skill description.
func (s SkillSummary) Description() string { return s.description }

// SkillSummaryFactory builds skill summaries.
type SkillSummaryFactory interface {
	Create(id, description string) SkillSummary
}

type skillSummaryFactory struct{}

// NewSkillSummaryFactory returns the default skill summary factory.
func NewSkillSummaryFactory() SkillSummaryFactory {
	return skillSummaryFactory{}
}

func (skillSummaryFactory) Create(id, description string) SkillSummary {
	return SkillSummary{id: id, description: description}
}

func skillIDs(summaries []SkillSummary) []string {
	ids := make([]string, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.id)
	}
	return ids
}
