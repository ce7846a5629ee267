package tools

import "github.com/cockroachdb/errors"

var (
	// ErrEmptyName is returned when a tool without a name is registered.
	ErrEmptyName = errors.New("tool name is empty")
	// ErrDuplicateTool is returned when a tool with the same name is already registered.
	ErrDuplicateTool = errors.New("tool already registered")
	// ErrToolNotFound is returned when a tool is not registered.
	ErrToolNotFound = errors.New("tool not found")
	// ErrToolNotBound is returned when a tool without an executor is invoked.
	ErrToolNotBound = errors.New("tool has no executor bound")
	// ErrToolExecution marks errors returned by a tool executor.
	ErrToolExecution = errors.New("tool execution failed")
	// ErrFailedUnmarshalInput is returned when tool arguments do not match the expected input.
	ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")
)
