package topic

// Placeholder values of the interstitial topic.
const (
	InterstitialName        = "Topic name loading"
	InterstitialDescription = "Topic description loading"
	defaultLanguageCode     = "en"
)

// Factory builds Topic aggregates from their collaborator factories.
type Factory struct {
	skills    SkillSummaryFactory
	stories   StoryReferenceFactory
	subtopics SubtopicFactory
}

// NewFactory creates a topic factory from explicit collaborators.
func NewFactory(skills SkillSummaryFactory, stories StoryReferenceFactory, subtopics SubtopicFactory) *Factory {
	return &Factory{
		skills:    skills,
		stories:   stories,
		subtopics: subtopics,
	}
}

// DefaultFactory wires the package's own collaborator implementations.
func DefaultFactory() *Factory {
	skills := NewSkillSummaryFactory()
	return NewFactory(skills, NewStoryReferenceFactory(), NewSubtopicFactory(skills))
}

// Create builds a topic from a backend record. skillDescriptions resolves
// descriptions for uncategorized skills and for every subtopic's skills.
func (f *Factory) Create(rec Record, skillDescriptions map[string]string) (*Topic, error) {
	subtopics := make([]*Subtopic, 0, len(rec.Subtopics))
	for _, sr := range rec.Subtopics {
		st, err := f.subtopics.CreateFromRecord(sr, skillDescriptions)
		if err != nil {
			return nil, err
		}
		subtopics = append(subtopics, st)
	}

	canonical, err := f.storyReferences(rec.CanonicalStoryReferences)
	if err != nil {
		return nil, err
	}
	additional, err := f.storyReferences(rec.AdditionalStoryReferences)
	if err != nil {
		return nil, err
	}

	uncategorized := make([]SkillSummary, 0, len(rec.UncategorizedSkillIDs))
	for _, id := range rec.UncategorizedSkillIDs {
		uncategorized = append(uncategorized, f.skills.Create(id, skillDescriptions[id]))
	}

	t := f.newTopic()
	t.id = rec.RecordID()
	t.name = rec.Name
	t.description = rec.Description
	t.languageCode = rec.LanguageCode
	t.version = rec.Version
	t.nextSubtopicID = rec.NextSubtopicID
	t.canonicalStories = canonical
	t.additionalStories = additional
	t.uncategorized = uncategorized
	t.subtopics = subtopics
	return t, nil
}

// CreateInterstitialTopic returns a placeholder topic for use while the real
// one is loading.
func (f *Factory) CreateInterstitialTopic() *Topic {
	t := f.newTopic()
	t.name = InterstitialName
	t.description = InterstitialDescription
	t.languageCode = defaultLanguageCode
	t.version = 1
	t.nextSubtopicID = 1
	return t
}

func (f *Factory) newTopic() *Topic {
	return &Topic{
		canonicalStories:  []StoryReference{},
		additionalStories: []StoryReference{},
		uncategorized:     []SkillSummary{},
		subtopics:         []*Subtopic{},
		skillFactory:      f.skills,
		storyFactory:      f.stories,
		subtopicFactory:   f.subtopics,
	}
}

func (f *Factory) storyReferences(recs []StoryReferenceRecord) ([]StoryReference, error) {
	refs := make([]StoryReference, 0, len(recs))
	for _, rec := range recs {
		ref, err := f.stories.CreateFromRecord(rec)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
