package topic

import "strings"

// StoryReference points at a story owned elsewhere.
type StoryReference struct {
	storyID   string
	published bool
}

// StoryID returns the referenced story id.
func (r StoryReference) StoryID() string { return r.storyID }

// IsPublished reports whether the referenced story is published.
func (r StoryReference) IsPublished() bool { return r.published }

// ToRecord converts the reference to its backend representation.
func (r StoryReference) ToRecord() StoryReferenceRecord {
	return StoryReferenceRecord{StoryID: r.storyID, StoryIsPublished: r.published}
}

// StoryReferenceFactory builds story references.
type StoryReferenceFactory interface {
	Create(storyID string) StoryReference
	CreateFromRecord(rec StoryReferenceRecord) (StoryReference, error)
}

type storyReferenceFactory struct{}

// NewStoryReferenceFactory returns the default story reference factory.
func NewStoryReferenceFactory() StoryReferenceFactory {
	return storyReferenceFactory{}
}

// Create returns an unpublished reference to storyID.
func (storyReferenceFactory) Create(storyID string) StoryReference {
	return StoryReference{storyID: storyID}
}

func (storyReferenceFactory) CreateFromRecord(rec StoryReferenceRecord) (StoryReference, error) {
	if strings.TrimSpace(rec.StoryID) == "" {
		return StoryReference{}, mutationError("read story reference", "", ErrMalformedRecord)
	}
	return StoryReference{storyID: rec.StoryID, published: rec.StoryIsPublished}, nil
}

func storyIDs(refs []StoryReference) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.storyID)
	}
	return ids
}

func indexOfStory(refs []StoryReference, storyID string) int {
	for i, r := range refs {
		if r.storyID == storyID {
			return i
		}
	}
	return -1
}
