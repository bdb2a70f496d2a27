package topic_test

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/p-n-ai/pai-topics/internal/topic"
)

func strPtr(s string) *string { return &s }

// newTestTopic builds a topic with two subtopics, two canonical stories, one
// additional story and one uncategorized skill.
func newTestTopic(t *testing.T) *topic.Topic {
	t.Helper()
	rec := topic.Record{
		ID:           strPtr("topic-1"),
		Name:         "Algebra",
		Description:  "Variables and expressions",
		LanguageCode: "en",
		CanonicalStoryReferences: []topic.StoryReferenceRecord{
			{StoryID: "story-1", StoryIsPublished: true},
			{StoryID: "story-2"},
		},
		AdditionalStoryReferences: []topic.StoryReferenceRecord{
			{StoryID: "story-3"},
		},
		UncategorizedSkillIDs: []string{"skill-1"},
		NextSubtopicID:        3,
		Version:               4,
		Subtopics: []topic.SubtopicRecord{
			{ID: 1, Title: "Variables", SkillIDs: []string{"skill-2"}},
			{ID: 2, Title: "Expressions", SkillIDs: []string{"skill-3", "skill-4"}},
		},
	}
	descriptions := map[string]string{
		"skill-1": "Use letters for unknowns",
		"skill-2": "Substitute values",
		"skill-3": "Simplify expressions",
		"skill-4": "Expand brackets",
	}
	tp, err := topic.DefaultFactory().Create(rec, descriptions)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return tp
}

func TestCreate(t *testing.T) {
	tp := newTestTopic(t)

	if tp.ID() != "topic-1" {
		t.Errorf("ID() = %q, want topic-1", tp.ID())
	}
	if tp.Name() != "Algebra" || tp.LanguageCode() != "en" {
		t.Errorf("Name/LanguageCode = %q/%q", tp.Name(), tp.LanguageCode())
	}
	if tp.Version() != 4 || tp.NextSubtopicID() != 3 {
		t.Errorf("Version/NextSubtopicID = %d/%d, want 4/3", tp.Version(), tp.NextSubtopicID())
	}
	if got := tp.CanonicalStoryIDs(); !slices.Equal(got, []string{"story-1", "story-2"}) {
		t.Errorf("CanonicalStoryIDs() = %v", got)
	}
	if !tp.CanonicalStoryReferences()[0].IsPublished() {
		t.Error("story-1 should be published")
	}
	if got := tp.AdditionalStoryIDs(); !slices.Equal(got, []string{"story-3"}) {
		t.Errorf("AdditionalStoryIDs() = %v", got)
	}
	skills := tp.UncategorizedSkillSummaries()
	if len(skills) != 1 || skills[0].Description() != "Use letters for unknowns" {
		t.Errorf("UncategorizedSkillSummaries() = %+v", skills)
	}
	st, ok := tp.SubtopicByID(2)
	if !ok {
		t.Fatal("SubtopicByID(2) not found")
	}
	if got := st.SkillSummaries()[1].Description(); got != "Expand brackets" {
		t.Errorf("subtopic skill description = %q, want Expand brackets", got)
	}
	if issues := tp.Validate(); len(issues) != 0 {
		t.Errorf("Validate() = %v, want no issues", issues)
	}
}

func TestCreate_MalformedRecord(t *testing.T) {
	tests := []struct {
		name string
		rec  topic.Record
	}{
		{"empty story id", topic.Record{
			CanonicalStoryReferences: []topic.StoryReferenceRecord{{StoryID: ""}},
		}},
		{"empty additional story id", topic.Record{
			AdditionalStoryReferences: []topic.StoryReferenceRecord{{StoryID: " "}},
		}},
		{"zero subtopic id", topic.Record{
			Subtopics: []topic.SubtopicRecord{{ID: 0, Title: "x"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := topic.DefaultFactory().Create(tt.rec, nil)
			if !errors.Is(err, topic.ErrMalformedRecord) {
				t.Errorf("Create() error = %v, want ErrMalformedRecord", err)
			}
		})
	}
}

func TestCreateInterstitialTopic(t *testing.T) {
	tp := topic.DefaultFactory().CreateInterstitialTopic()

	if tp.ID() != "" {
		t.Errorf("ID() = %q, want empty", tp.ID())
	}
	if tp.Name() != "Topic name loading" {
		t.Errorf("Name() = %q", tp.Name())
	}
	if tp.Description() != "Topic description loading" {
		t.Errorf("Description() = %q", tp.Description())
	}
	if tp.LanguageCode() != "en" {
		t.Errorf("LanguageCode() = %q, want en", tp.LanguageCode())
	}
	if tp.NextSubtopicID() != 1 || tp.Version() != 1 {
		t.Errorf("NextSubtopicID/Version = %d/%d, want 1/1", tp.NextSubtopicID(), tp.Version())
	}
	if len(tp.Subtopics()) != 0 || len(tp.SkillIDs()) != 0 || len(tp.CanonicalStoryIDs()) != 0 {
		t.Error("interstitial topic should have empty collections")
	}
	if issues := tp.Validate(); len(issues) != 0 {
		t.Errorf("Validate() = %v, want no issues", issues)
	}
	if rec := tp.ToRecord(); rec.ID != nil {
		t.Errorf("ToRecord().ID = %v, want nil", *rec.ID)
	}
}

func TestGetters_ReturnCopies(t *testing.T) {
	tp := newTestTopic(t)

	ids := tp.CanonicalStoryIDs()
	ids[0] = "mutated"
	refs := tp.CanonicalStoryReferences()
	refs[0] = topic.NewStoryReferenceFactory().Create("mutated")
	subtopics := tp.Subtopics()
	subtopics[0] = nil
	skills := tp.UncategorizedSkillSummaries()
	skills[0] = topic.NewSkillSummaryFactory().Create("mutated", "")

	if tp.CanonicalStoryIDs()[0] != "story-1" {
		t.Error("CanonicalStoryIDs() leaked internal state")
	}
	if tp.Subtopics()[0] == nil {
		t.Error("Subtopics() leaked internal state")
	}
	if !tp.HasUncategorizedSkill("skill-1") || tp.HasUncategorizedSkill("mutated") {
		t.Error("UncategorizedSkillSummaries() leaked internal state")
	}
}

func TestSetters(t *testing.T) {
	tp := newTestTopic(t)

	tp.SetName("")
	tp.SetDescription("new")
	tp.SetLanguageCode("ms")

	if tp.Name() != "" || tp.Description() != "new" || tp.LanguageCode() != "ms" {
		t.Errorf("setters not applied: %q %q %q", tp.Name(), tp.Description(), tp.LanguageCode())
	}
}

func TestAddSubtopic(t *testing.T) {
	tp := newTestTopic(t)
	before := tp.NextSubtopicID()

	added := tp.AddSubtopic("Equations")

	if added.ID() != before {
		t.Errorf("added.ID() = %d, want %d", added.ID(), before)
	}
	if tp.NextSubtopicID() != before+1 {
		t.Errorf("NextSubtopicID() = %d, want %d", tp.NextSubtopicID(), before+1)
	}
	got, ok := tp.SubtopicByID(before)
	if !ok {
		t.Fatalf("SubtopicByID(%d) not found", before)
	}
	if got.ID() != added.ID() || got.Title() != "Equations" || len(got.SkillIDs()) != 0 {
		t.Errorf("SubtopicByID() = %+v, want the added subtopic", got)
	}
}

func TestSubtopicByID_NotFound(t *testing.T) {
	tp := newTestTopic(t)

	if st, ok := tp.SubtopicByID(99); ok || st != nil {
		t.Errorf("SubtopicByID(99) = %v, %v; want nil, false", st, ok)
	}
}

func TestDeleteSubtopic_NewlyCreated(t *testing.T) {
	tp := topic.DefaultFactory().CreateInterstitialTopic()
	first := tp.AddSubtopic("First")
	second := tp.AddSubtopic("Second")
	third := tp.AddSubtopic("Third")
	if err := second.AddSkill(topic.NewSkillSummaryFactory().Create("skill-a", "A")); err != nil {
		t.Fatalf("AddSkill() error = %v", err)
	}
	if err := second.AddSkill(topic.NewSkillSummaryFactory().Create("skill-b", "B")); err != nil {
		t.Fatalf("AddSkill() error = %v", err)
	}

	if err := tp.DeleteSubtopic(second.ID(), true); err != nil {
		t.Fatalf("DeleteSubtopic() error = %v", err)
	}

	for _, id := range []string{"skill-a", "skill-b"} {
		if !tp.HasUncategorizedSkill(id) {
			t.Errorf("HasUncategorizedSkill(%q) = false, want true", id)
		}
	}
	if first.ID() != 1 {
		t.Errorf("first.ID() = %d, want 1", first.ID())
	}
	if third.ID() != 2 {
		t.Errorf("third.ID() = %d, want 2", third.ID())
	}
	if tp.NextSubtopicID() != 3 {
		t.Errorf("NextSubtopicID() = %d, want 3", tp.NextSubtopicID())
	}
	if len(tp.Subtopics()) != 2 {
		t.Errorf("len(Subtopics()) = %d, want 2", len(tp.Subtopics()))
	}
}

func TestDeleteSubtopic_Persisted(t *testing.T) {
	tp := newTestTopic(t)

	if err := tp.DeleteSubtopic(1, false); err != nil {
		t.Fatalf("DeleteSubtopic() error = %v", err)
	}

	st, ok := tp.SubtopicByID(2)
	if !ok {
		t.Fatal("subtopic 2 should keep its id")
	}
	if st.Title() != "Expressions" {
		t.Errorf("subtopic 2 title = %q", st.Title())
	}
	if tp.NextSubtopicID() != 3 {
		t.Errorf("NextSubtopicID() = %d, want 3", tp.NextSubtopicID())
	}
	if !tp.HasUncategorizedSkill("skill-2") {
		t.Error("skill-2 should be uncategorized after deleting its subtopic")
	}
	if got := tp.SkillIDs(); !slices.Equal(got, []string{"skill-1", "skill-2", "skill-3", "skill-4"}) {
		t.Errorf("SkillIDs() = %v", got)
	}
}

func TestDeleteSubtopic_SkillAlreadyUncategorized(t *testing.T) {
	rec := topic.Record{
		Name:                  "t",
		NextSubtopicID:        2,
		UncategorizedSkillIDs: []string{"skill-1"},
		Subtopics:             []topic.SubtopicRecord{{ID: 1, Title: "s", SkillIDs: []string{"skill-1"}}},
	}
	tp, err := topic.DefaultFactory().Create(rec, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := tp.DeleteSubtopic(1, false); err != nil {
		t.Fatalf("DeleteSubtopic() error = %v", err)
	}
	if got := tp.SkillIDs(); !slices.Equal(got, []string{"skill-1"}) {
		t.Errorf("SkillIDs() = %v, want [skill-1]", got)
	}
}

func TestDeleteSubtopic_NotFound(t *testing.T) {
	tp := newTestTopic(t)
	before := tp.Subtopics()

	err := tp.DeleteSubtopic(42, true)

	if !errors.Is(err, topic.ErrSubtopicNotFound) {
		t.Fatalf("DeleteSubtopic() error = %v, want ErrSubtopicNotFound", err)
	}
	var mErr *topic.MutationError
	if !errors.As(err, &mErr) || mErr.ID != "42" {
		t.Errorf("error = %#v, want MutationError for id 42", err)
	}
	after := tp.Subtopics()
	if !slices.Equal(before, after) {
		t.Error("subtopic list changed after failed delete")
	}
	if tp.NextSubtopicID() != 3 {
		t.Errorf("NextSubtopicID() = %d, want 3", tp.NextSubtopicID())
	}
}

func TestClearSubtopics(t *testing.T) {
	tp := newTestTopic(t)

	tp.ClearSubtopics()

	if len(tp.Subtopics()) != 0 {
		t.Error("Subtopics() should be empty")
	}
	if tp.NextSubtopicID() != 3 {
		t.Errorf("NextSubtopicID() = %d, want 3 after clear", tp.NextSubtopicID())
	}
}

func TestRearrangeSubtopic(t *testing.T) {
	tp := newTestTopic(t)
	tp.AddSubtopic("Equations")

	if err := tp.RearrangeSubtopic(2, 0); err != nil {
		t.Fatalf("RearrangeSubtopic() error = %v", err)
	}
	var titles []string
	for _, st := range tp.Subtopics() {
		titles = append(titles, st.Title())
	}
	if !slices.Equal(titles, []string{"Equations", "Variables", "Expressions"}) {
		t.Errorf("titles = %v", titles)
	}
	if err := tp.RearrangeSubtopic(0, 3); !errors.Is(err, topic.ErrIndexOutOfRange) {
		t.Errorf("RearrangeSubtopic(0, 3) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestCanonicalStories(t *testing.T) {
	tp := newTestTopic(t)

	if err := tp.AddCanonicalStory("story-9"); err != nil {
		t.Fatalf("AddCanonicalStory() error = %v", err)
	}
	err := tp.AddCanonicalStory("story-9")
	if !errors.Is(err, topic.ErrDuplicateStory) {
		t.Fatalf("second AddCanonicalStory() error = %v, want ErrDuplicateStory", err)
	}
	count := 0
	for _, id := range tp.CanonicalStoryIDs() {
		if id == "story-9" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("story-9 appears %d times, want 1", count)
	}
	if tp.CanonicalStoryReferences()[2].IsPublished() {
		t.Error("added story reference should be unpublished")
	}

	if err := tp.RemoveCanonicalStory("story-1"); err != nil {
		t.Fatalf("RemoveCanonicalStory() error = %v", err)
	}
	if err := tp.RemoveCanonicalStory("story-1"); !errors.Is(err, topic.ErrStoryNotFound) {
		t.Errorf("RemoveCanonicalStory() error = %v, want ErrStoryNotFound", err)
	}
	if got := tp.CanonicalStoryIDs(); !slices.Equal(got, []string{"story-2", "story-9"}) {
		t.Errorf("CanonicalStoryIDs() = %v", got)
	}

	if err := tp.RearrangeCanonicalStory(1, 0); err != nil {
		t.Fatalf("RearrangeCanonicalStory() error = %v", err)
	}
	if got := tp.CanonicalStoryIDs(); !slices.Equal(got, []string{"story-9", "story-2"}) {
		t.Errorf("CanonicalStoryIDs() after rearrange = %v", got)
	}
	if err := tp.RearrangeCanonicalStory(-1, 0); !errors.Is(err, topic.ErrIndexOutOfRange) {
		t.Errorf("RearrangeCanonicalStory(-1, 0) error = %v, want ErrIndexOutOfRange", err)
	}

	tp.ClearCanonicalStoryReferences()
	if len(tp.CanonicalStoryIDs()) != 0 {
		t.Error("CanonicalStoryIDs() should be empty after clear")
	}
}

func TestAdditionalStories(t *testing.T) {
	tp := newTestTopic(t)

	if err := tp.AddAdditionalStory("story-3"); !errors.Is(err, topic.ErrDuplicateStory) {
		t.Fatalf("AddAdditionalStory() error = %v, want ErrDuplicateStory", err)
	}
	// Cross-list exclusivity is left to Validate.
	if err := tp.AddAdditionalStory("story-1"); err != nil {
		t.Fatalf("AddAdditionalStory() error = %v", err)
	}
	if issues := tp.Validate(); len(issues) != 1 {
		t.Errorf("Validate() = %v, want one cross-list issue", issues)
	}
	if err := tp.RemoveAdditionalStory("missing"); !errors.Is(err, topic.ErrStoryNotFound) {
		t.Errorf("RemoveAdditionalStory() error = %v, want ErrStoryNotFound", err)
	}
	if err := tp.RemoveAdditionalStory("story-1"); err != nil {
		t.Fatalf("RemoveAdditionalStory() error = %v", err)
	}
	tp.ClearAdditionalStoryReferences()
	if len(tp.AdditionalStoryIDs()) != 0 {
		t.Error("AdditionalStoryIDs() should be empty after clear")
	}
}

func TestUncategorizedSkills(t *testing.T) {
	tp := newTestTopic(t)

	tests := []struct {
		name    string
		skillID string
		wantErr error
	}{
		{"new skill", "skill-9", nil},
		{"already uncategorized", "skill-1", topic.ErrDuplicateSkill},
		{"inside a subtopic", "skill-3", topic.ErrDuplicateSkill},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tp.SkillIDs()
			err := tp.AddUncategorizedSkill(tt.skillID, "desc")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddUncategorizedSkill() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil && !slices.Equal(before, tp.SkillIDs()) {
				t.Error("failed add changed the topic")
			}
		})
	}

	if !tp.HasUncategorizedSkill("skill-9") {
		t.Error("skill-9 should be uncategorized")
	}
	if err := tp.RemoveUncategorizedSkill("skill-9"); err != nil {
		t.Fatalf("RemoveUncategorizedSkill() error = %v", err)
	}
	if err := tp.RemoveUncategorizedSkill("skill-9"); !errors.Is(err, topic.ErrSkillNotFound) {
		t.Errorf("RemoveUncategorizedSkill() error = %v, want ErrSkillNotFound", err)
	}
	tp.ClearUncategorizedSkills()
	if got := tp.SkillIDs(); !slices.Equal(got, []string{"skill-2", "skill-3", "skill-4"}) {
		t.Errorf("SkillIDs() = %v", got)
	}
}

func TestSkillIDs_Order(t *testing.T) {
	tp := newTestTopic(t)
	if err := tp.AddUncategorizedSkill("skill-0", "zero"); err != nil {
		t.Fatalf("AddUncategorizedSkill() error = %v", err)
	}

	want := []string{"skill-1", "skill-0", "skill-2", "skill-3", "skill-4"}
	if got := tp.SkillIDs(); !slices.Equal(got, want) {
		t.Errorf("SkillIDs() = %v, want %v", got, want)
	}
}

func TestMoveSkillToSubtopic(t *testing.T) {
	tp := newTestTopic(t)

	if err := tp.MoveSkillToSubtopic("skill-1", 1); err != nil {
		t.Fatalf("MoveSkillToSubtopic() error = %v", err)
	}
	if tp.HasUncategorizedSkill("skill-1") {
		t.Error("skill-1 should no longer be uncategorized")
	}
	if err := tp.MoveSkillToSubtopic("skill-3", 1); err != nil {
		t.Fatalf("MoveSkillToSubtopic() between subtopics error = %v", err)
	}
	first, _ := tp.SubtopicByID(1)
	second, _ := tp.SubtopicByID(2)
	if got := first.SkillIDs(); !slices.Equal(got, []string{"skill-2", "skill-1", "skill-3"}) {
		t.Errorf("subtopic 1 skills = %v", got)
	}
	if got := second.SkillIDs(); !slices.Equal(got, []string{"skill-4"}) {
		t.Errorf("subtopic 2 skills = %v", got)
	}
	if issues := tp.Validate(); len(issues) != 0 {
		t.Errorf("Validate() = %v", issues)
	}

	tests := []struct {
		name       string
		skillID    string
		subtopicID int
		wantErr    error
	}{
		{"unknown subtopic", "skill-4", 9, topic.ErrSubtopicNotFound},
		{"already there", "skill-2", 1, topic.ErrDuplicateSkill},
		{"unknown skill", "skill-x", 1, topic.ErrSkillNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tp.MoveSkillToSubtopic(tt.skillID, tt.subtopicID); !errors.Is(err, tt.wantErr) {
				t.Errorf("MoveSkillToSubtopic() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRemoveSkillFromSubtopic(t *testing.T) {
	tp := newTestTopic(t)

	if err := tp.RemoveSkillFromSubtopic(2, "skill-3"); err != nil {
		t.Fatalf("RemoveSkillFromSubtopic() error = %v", err)
	}
	if !tp.HasUncategorizedSkill("skill-3") {
		t.Error("skill-3 should be uncategorized")
	}
	if err := tp.RemoveSkillFromSubtopic(2, "skill-3"); !errors.Is(err, topic.ErrSkillNotFound) {
		t.Errorf("error = %v, want ErrSkillNotFound", err)
	}
	if err := tp.RemoveSkillFromSubtopic(7, "skill-4"); !errors.Is(err, topic.ErrSubtopicNotFound) {
		t.Errorf("error = %v, want ErrSubtopicNotFound", err)
	}
}

func TestCopyFromTopic(t *testing.T) {
	other := newTestTopic(t)
	tp := topic.DefaultFactory().CreateInterstitialTopic()

	if err := tp.CopyFromTopic(other); err != nil {
		t.Fatalf("CopyFromTopic() error = %v", err)
	}

	if tp.ID() != other.ID() || tp.Name() != other.Name() || tp.Version() != other.Version() {
		t.Errorf("scalars not copied: %q %q %d", tp.ID(), tp.Name(), tp.Version())
	}
	if tp.NextSubtopicID() != other.NextSubtopicID() {
		t.Errorf("NextSubtopicID() = %d, want %d", tp.NextSubtopicID(), other.NextSubtopicID())
	}
	if !slices.Equal(tp.SkillIDs(), other.SkillIDs()) {
		t.Errorf("SkillIDs() = %v, want %v", tp.SkillIDs(), other.SkillIDs())
	}
	if !slices.Equal(tp.CanonicalStoryIDs(), other.CanonicalStoryIDs()) {
		t.Errorf("CanonicalStoryIDs() = %v, want %v", tp.CanonicalStoryIDs(), other.CanonicalStoryIDs())
	}
	if !slices.Equal(tp.AdditionalStoryIDs(), other.AdditionalStoryIDs()) {
		t.Errorf("AdditionalStoryIDs() = %v, want %v", tp.AdditionalStoryIDs(), other.AdditionalStoryIDs())
	}
	mine, theirs := tp.Subtopics(), other.Subtopics()
	if len(mine) != len(theirs) {
		t.Fatalf("len(Subtopics()) = %d, want %d", len(mine), len(theirs))
	}
	for i := range mine {
		if mine[i] == theirs[i] {
			t.Fatal("subtopics should be deep copies")
		}
		if mine[i].ID() != theirs[i].ID() || mine[i].Title() != theirs[i].Title() ||
			!slices.Equal(mine[i].SkillIDs(), theirs[i].SkillIDs()) {
			t.Errorf("subtopic %d differs: %+v vs %+v", i, mine[i], theirs[i])
		}
	}

	// Mutations on the copy stay local.
	mine[0].SetTitle("Renamed")
	if err := mine[0].AddSkill(topic.NewSkillSummaryFactory().Create("skill-new", "")); err != nil {
		t.Fatalf("AddSkill() error = %v", err)
	}
	if err := tp.DeleteSubtopic(2, true); err != nil {
		t.Fatalf("DeleteSubtopic() error = %v", err)
	}
	if err := tp.AddCanonicalStory("story-new"); err != nil {
		t.Fatalf("AddCanonicalStory() error = %v", err)
	}
	if theirs[0].Title() != "Variables" || theirs[0].HasSkill("skill-new") {
		t.Error("mutating copied subtopic affected the source")
	}
	if len(other.Subtopics()) != 2 {
		t.Error("deleting from the copy affected the source")
	}
	if slices.Contains(other.CanonicalStoryIDs(), "story-new") {
		t.Error("adding a story to the copy affected the source")
	}
}

func TestCopyFromTopic_DuplicateUncategorized(t *testing.T) {
	rec := topic.Record{Name: "dup", UncategorizedSkillIDs: []string{"skill-1", "skill-1"}}
	other, err := topic.DefaultFactory().Create(rec, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	tp := newTestTopic(t)

	err = tp.CopyFromTopic(other)

	if !errors.Is(err, topic.ErrDuplicateSkill) {
		t.Fatalf("CopyFromTopic() error = %v, want ErrDuplicateSkill", err)
	}
	if tp.Name() != "Algebra" || len(tp.Subtopics()) != 2 {
		t.Error("failed copy changed the topic")
	}
}

func TestCopyFromTopic_Self(t *testing.T) {
	tp := newTestTopic(t)
	before := tp.ToRecord()

	if err := tp.CopyFromTopic(tp); err != nil {
		t.Fatalf("CopyFromTopic() error = %v", err)
	}

	after := tp.ToRecord()
	if !reflect.DeepEqual(after, before) {
		t.Errorf("self copy changed the topic:\n got %+v\nwant %+v", after, before)
	}
}

func TestToRecord_RoundTrip(t *testing.T) {
	tp := newTestTopic(t)
	descriptions := tp.SkillDescriptions()

	again, err := topic.DefaultFactory().Create(tp.ToRecord(), descriptions)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !slices.Equal(again.SkillIDs(), tp.SkillIDs()) {
		t.Errorf("SkillIDs() = %v, want %v", again.SkillIDs(), tp.SkillIDs())
	}
	if again.ToRecord().RecordID() != "topic-1" {
		t.Errorf("RecordID() = %q", again.ToRecord().RecordID())
	}
	if descriptions["skill-4"] != "Expand brackets" {
		t.Errorf("SkillDescriptions()[skill-4] = %q", descriptions["skill-4"])
	}
}
