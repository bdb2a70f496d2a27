// Package export writes topics to spreadsheet workbooks for curriculum
// reviewers.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pai-topics/internal/topic"
)

// Sheet names in an exported workbook.
const (
	SubtopicsSheet = "Subtopics"
	StoriesSheet   = "Stories"
)

var (
	subtopicHeader = []any{"Subtopic ID", "Subtopic Title", "Skill ID", "Skill Description"}
	storyHeader    = []any{"List", "Story ID", "Published"}
)

// WriteWorkbook writes t as an xlsx workbook to w. The Subtopics sheet lists
// one row per skill; uncategorized skills have an empty subtopic id. The
// Stories sheet lists canonical then additional story references.
func WriteWorkbook(t *topic.Topic, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SubtopicsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(StoriesSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	descriptions := t.SkillDescriptions()
	rows := [][]any{subtopicHeader}
	for _, st := range t.Subtopics() {
		if len(st.SkillIDs()) == 0 {
			rows = append(rows, []any{st.ID(), st.Title()})
		}
		for _, skillID := range st.SkillIDs() {
			rows = append(rows, []any{st.ID(), st.Title(), skillID, descriptions[skillID]})
		}
	}
	for _, s := range t.UncategorizedSkillSummaries() {
		rows = append(rows, []any{"", "", s.ID(), s.Description()})
	}
	if err := writeRows(f, SubtopicsSheet, rows, header); err != nil {
		return err
	}

	rows = [][]any{storyHeader}
	for _, ref := range t.CanonicalStoryReferences() {
		rows = append(rows, []any{"canonical", ref.StoryID(), yesNo(ref.IsPublished())})
	}
	for _, ref := range t.AdditionalStoryReferences() {
		rows = append(rows, []any{"additional", ref.StoryID(), yesNo(ref.IsPublished())})
	}
	if err := writeRows(f, StoriesSheet, rows, header); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
