// Package llms defines the boundary between agents and language models.
//
// A Model receives a sequence of messages (system, human, AI tool calls and
// tool responses) and returns a ContentResponse with text and/or tool-call
// requests. Provider implementations live in subpackages.
package llms
