package topic

import (
	"fmt"
	"slices"
)

// Validate returns human readable issues with the topic, or an empty slice
// when it is valid. It never modifies the topic.
//
// A story id stored k times in one list yields k duplicate issues, one per
// occurrence.
func (t *Topic) Validate() []string {
	issues := []string{}
	if t.name == "" {
		issues = append(issues, "Topic name should not be empty.")
	}

	canonical := t.CanonicalStoryIDs()
	additional := t.AdditionalStoryIDs()
	for _, id := range canonical {
		if slices.Index(canonical, id) < lastIndex(canonical, id) {
			issues = append(issues, fmt.Sprintf("The canonical story with id %s is duplicated in the topic.", id))
		}
	}
	for _, id := range additional {
		if slices.Index(additional, id) < lastIndex(additional, id) {
			issues = append(issues, fmt.Sprintf("The additional story with id %s is duplicated in the topic.", id))
		}
	}
	for _, id := range canonical {
		if slices.Contains(additional, id) {
			issues = append(issues, fmt.Sprintf("The story with id %s is present in both canonical and additional stories.", id))
		}
	}

	seen := make(map[string]struct{}, len(t.uncategorized))
	for _, id := range skillIDs(t.uncategorized) {
		seen[id] = struct{}{}
	}
	for _, st := range t.subtopics {
		issues = append(issues, st.Validate()...)
		for _, id := range st.SkillIDs() {
			if _, dup := seen[id]; dup {
				issues = append(issues, fmt.Sprintf("The skill with id %s is duplicated in the topic.", id))
				continue
			}
			seen[id] = struct{}{}
		}
	}
	return issues
}
