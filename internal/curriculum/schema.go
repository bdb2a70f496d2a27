package curriculum

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// recordSchema describes the backend topic record.
const recordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "name", "language_code", "next_subtopic_id", "version"],
  "properties": {
    "id": {"type": ["string", "null"]},
    "name": {"type": "string"},
    "description": {"type": "string"},
    "language_code": {"type": "string"},
    "canonical_story_references": {"type": "array", "items": {"$ref": "#/definitions/story_reference"}},
    "additional_story_references": {"type": "array", "items": {"$ref": "#/definitions/story_reference"}},
    "uncategorized_skill_ids": {"type": "array", "items": {"type": "string"}},
    "next_subtopic_id": {"type": "integer", "minimum": 1},
    "version": {"type": "integer", "minimum": 0},
    "subtopics": {"type": "array", "items": {"$ref": "#/definitions/subtopic"}}
  },
  "definitions": {
    "story_reference": {
      "type": "object",
      "required": ["story_id"],
      "properties": {
        "story_id": {"type": "string", "minLength": 1},
        "story_is_published": {"type": "boolean"}
      }
    },
    "subtopic": {
      "type": "object",
      "required": ["id", "title"],
      "properties": {
        "id": {"type": "integer", "minimum": 1},
        "title": {"type": "string"},
        "skill_ids": {"type": "array", "items": {"type": "string"}},
        "thumbnail_filename": {"type": "string"},
        "thumbnail_bg_color": {"type": "string"},
        "url_fragment": {"type": "string"}
      }
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(recordSchema))
	if err != nil {
		panic(fmt.Sprintf("compile topic record schema: %v", err))
	}
	return schema
}

// ValidateRecordJSON checks raw JSON against the topic record schema.
func ValidateRecordJSON(data []byte) error {
	return validate(gojsonschema.NewBytesLoader(data))
}

// validateDocument checks an already decoded document, as produced by the
// YAML decoder, against the topic record schema.
func validateDocument(doc any) error {
	return validate(gojsonschema.NewGoLoader(doc))
}

func validate(loader gojsonschema.JSONLoader) error {
	result, err := compiledSchema.Validate(loader)
	if err != nil {
		return fmt.Errorf("validate topic record: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return &SchemaError{Problems: msgs}
}

// SchemaError lists the schema violations of a topic record.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "invalid topic record: " + strings.Join(e.Problems, "; ")
}
