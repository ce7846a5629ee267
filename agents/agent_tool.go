package agents

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/lvchiyang/aiteacher/tools"
)

// AgentToolInput is the argument of a tool that delegates to an agent.
type AgentToolInput struct {
	Input string `json:"input" validate:"required" jsonschema:"description=The request to pass to the agent"`
}

// AgentToolOutput is the result of a tool that delegates to an agent.
type AgentToolOutput struct {
	Agent  string `json:"agent"`
	Output string `json:"output"`
}

// NewAgentTool returns a tool that runs a turn of the agent,
// so that one agent can delegate requests to another.
func NewAgentTool(agent IAgent) (*tools.Tool, error) {
	return tools.NewTyped(agent.Name(), agent.Description(),
		func(ctx context.Context, in *AgentToolInput) (*AgentToolOutput, error) {
			out, err := agent.RunOnce(ctx, in.Input)
			if err != nil {
				return nil, errors.WithMessagef(err, "agent %q", agent.Name())
			}
			return &AgentToolOutput{Agent: agent.Name(), Output: out}, nil
		})
}
