package memory

import (
	"maps"
	"time"
)

// Roles of the recorded interactions.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
	RoleTool  = "tool"
)

// Content is the recorded interaction.
type Content struct {
	Role   string `json:"role,omitempty" yaml:"role,omitempty" toml:"role,omitempty"`
	Text   string `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
	Tool   string `json:"tool,omitempty" yaml:"tool,omitempty" toml:"tool,omitempty"`
	Input  any    `json:"input,omitempty" yaml:"input,omitempty" toml:"input,omitempty"`
	Output any    `json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty" toml:"error,omitempty"`
}

// Entry is a single record in the Memory.
type Entry struct {
	ID        string         `json:"id" yaml:"id" toml:"id"`
	Content   Content        `json:"content" yaml:"content" toml:"content"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
}

func (e Entry) clone() Entry {
	e.Metadata = maps.Clone(e.Metadata)
	return e
}

// EntryOption configures an entry on Add.
type EntryOption func(*Entry)

// WithID sets the entry ID instead of the generated one.
func WithID(id string) EntryOption {
	return func(e *Entry) {
		e.ID = id
	}
}

// WithMetadata sets the entry metadata.
func WithMetadata(metadata map[string]any) EntryOption {
	return func(e *Entry) {
		e.Metadata = maps.Clone(metadata)
	}
}

// Snapshot is the recent context rendered for the model.
type Snapshot struct {
	RecentMemories []Entry   `json:"recent_memories" yaml:"recent_memories" toml:"recent_memories"`
	MemoryCount    int       `json:"memory_count" yaml:"memory_count" toml:"memory_count"`
	Timestamp      time.Time `json:"timestamp" yaml:"timestamp" toml:"timestamp"`
}
