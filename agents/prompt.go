package agents

import (
	"context"
	"strings"

	"github.com/effective-security/xlog"
	"github.com/lvchiyang/aiteacher/encoding"
	"github.com/lvchiyang/aiteacher/memory"
	"github.com/lvchiyang/aiteacher/pkg/llmutils"
)

// ToolContract tells the model how to use the tools.
const ToolContract = "Answer the user in plain text, or call one of the available tools when it helps. " +
	"Tool results are returned as JSON objects with the tool name and its output or error."

// SystemPrompt returns the system prompt of the turn: the Agent identity,
// the tool contract, the recent context, the available tools and the
// output schema when an output format is set.
// The context is trimmed from the oldest entries to fit MaxInputTokens.
func (a *Agent) SystemPrompt(ctx context.Context, input string) string {
	var head strings.Builder
	head.WriteString("Agent: " + a.name + "\n")
	head.WriteString("Description: " + a.description + "\n\n")
	head.WriteString(ToolContract + "\n\n")

	var tail strings.Builder
	tail.WriteString("\n\nAvailable tools:\n")
	if a.registry.Len() == 0 {
		tail.WriteString("none\n")
	} else {
		tail.WriteString(a.registry.Descriptions())
	}
	if a.cfg.OutputFormat != nil {
		if outputSchema := strings.Trim(a.cfg.OutputFormat.GetFormatInstructions(), "\n"); outputSchema != "" {
			tail.WriteString("\n# OUTPUT SCHEMA\n" + outputSchema + "\n")
		}
	}

	budget := 0
	if limit := a.cfg.Generation.MaxInputTokens; limit > 0 {
		used := llmutils.EstimateTokens(head.String()) +
			llmutils.EstimateTokens(tail.String()) +
			llmutils.EstimateTokens(input)
		budget = max(limit-used, 1)
	}

	return head.String() + "Context:\n" + a.renderContext(ctx, budget) + strings.TrimRight(tail.String(), "\n")
}

// renderContext encodes the memory snapshot, dropping the oldest entries
// while the encoded text exceeds the token budget. Zero budget is unlimited.
func (a *Agent) renderContext(ctx context.Context, budget int) string {
	snapshot := a.memory.Snapshot(a.cfg.ContextSize)
	for {
		text := a.encodeSnapshot(ctx, snapshot)
		if budget == 0 || len(snapshot.RecentMemories) == 0 || llmutils.EstimateTokens(text) <= budget {
			return text
		}
		snapshot.RecentMemories = snapshot.RecentMemories[1:]
	}
}

func (a *Agent) encodeSnapshot(ctx context.Context, snapshot memory.Snapshot) string {
	bs, err := encoding.Marshal(a.cfg.ContextFormat, snapshot)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"agent", a.name,
			"status", "failed_to_encode_context",
			"format", a.cfg.ContextFormat,
			"err", err.Error(),
		)
		return llmutils.ToJSON(snapshot)
	}
	return strings.TrimRight(string(bs), "\n")
}
