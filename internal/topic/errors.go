package topic

import (
	"errors"
	"fmt"
)

// Mutation failures. Every *MutationError unwraps to one of these.
var (
	ErrDuplicateStory   = errors.New("story already exists")
	ErrStoryNotFound    = errors.New("story does not exist")
	ErrDuplicateSkill   = errors.New("skill already exists")
	ErrSkillNotFound    = errors.New("skill does not exist")
	ErrSubtopicNotFound = errors.New("subtopic does not exist")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrMalformedRecord  = errors.New("malformed record")
)

// MutationError records a rejected mutation, the operation and the id it targeted.
type MutationError struct {
	Op  string
	ID  string
	Err error
}

func (e *MutationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

func mutationError(op, id string, err error) error {
	return &MutationError{Op: op, ID: id, Err: err}
}
