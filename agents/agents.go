package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/lvchiyang/aiteacher/pkg/llms"
	"github.com/lvchiyang/aiteacher/tools"
)

var logger = xlog.NewPackageLogger("github.com/lvchiyang/aiteacher", "agents")

//go:generate mockgen -destination=../mocks/mockllms/llm_mock.gen.go -package mockllms github.com/lvchiyang/aiteacher/pkg/llms Model

// ModelUnavailableResponse is returned as the turn output when the model
// did not return a response.
const ModelUnavailableResponse = "Error: model did not return a response."

// ErrModelUnavailable is returned when the model call fails or returns no choices.
var ErrModelUnavailable = errors.New("model did not return a response")

// IAgent is an agent that handles one user input per turn.
type IAgent interface {
	// Name returns the name of the Agent.
	Name() string
	// Description returns the description of the Agent.
	Description() string
	// RunOnce runs a single turn and returns the final text.
	RunOnce(ctx context.Context, input string) (string, error)
}

// Callback receives agent and tool lifecycle events.
type Callback interface {
	tools.Callback
	OnAgentStart(ctx context.Context, agent IAgent, input string)
	OnAgentEnd(ctx context.Context, agent IAgent, input, output string)
	OnAgentError(ctx context.Context, agent IAgent, input string, err error)
	OnLLMCallStart(ctx context.Context, agent IAgent, llm llms.Model, messages []llms.Message)
	OnLLMCallEnd(ctx context.Context, agent IAgent, llm llms.Model, resp *llms.ContentResponse)
	OnToolNotFound(ctx context.Context, agent IAgent, toolName string)
}

// GetDescriptions returns a "- `name`: description" line per agent.
func GetDescriptions(list ...IAgent) string {
	var sb strings.Builder
	for _, item := range list {
		fmt.Fprintf(&sb, "- `%s`: %s\n", item.Name(), item.Description())
	}
	return sb.String()
}
