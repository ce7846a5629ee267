package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsLLMMessagesSent is base for counter metric for total messages sent to LLM
	StatsLLMMessagesSent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_messages_sent",
		Help:         "stats_llm_messages_sent provides total messages sent to LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMBytesSent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_bytes_sent",
		Help:         "stats_llm_bytes_sent provides total bytes sent to LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMBytesReceived = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_bytes_received",
		Help:         "stats_llm_bytes_received provides total bytes received from LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMInputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_input_tokens",
		Help:         "stats_llm_input_tokens provides total input tokens sent to LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMOutputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_output_tokens",
		Help:         "stats_llm_output_tokens provides total output tokens received from LLM",
		RequiredTags: []string{"agent", "model"},
	}

	StatsLLMUnavailable = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_unavailable",
		Help:         "stats_llm_unavailable provides total LLM calls that returned no response",
		RequiredTags: []string{"agent", "model"},
	}

	StatsAgentTurnsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_turns_succeeded",
		Help:         "stats_agent_turns_succeeded provides total agent turns succeeded",
		RequiredTags: []string{"agent"},
	}

	StatsAgentTurnsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_turns_failed",
		Help:         "stats_agent_turns_failed provides total agent turns failed",
		RequiredTags: []string{"agent"},
	}

	StatsAgentToolIterationsExhausted = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_tool_iterations_exhausted",
		Help:         "stats_agent_tool_iterations_exhausted provides total turns that hit the tool iterations limit",
		RequiredTags: []string{"agent"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls not found",
		RequiredTags: []string{"tool"},
	}

	StatsMemoryEvictions = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_memory_evictions",
		Help:         "stats_memory_evictions provides total entries evicted from context memory",
		RequiredTags: []string{"agent"},
	}
)

// Perf
var (
	PerfAgentTurn = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_agent_turn",
		Help:         "perf_agent_turn provides duration of agent turn",
		RequiredTags: []string{"agent"},
	}

	PerfLLMCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_llm_call",
		Help:         "perf_llm_call provides duration of LLM call",
		RequiredTags: []string{"agent", "model"},
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfAgentTurn,
	&PerfLLMCall,
	&PerfToolCall,
	&StatsAgentToolIterationsExhausted,
	&StatsAgentTurnsFailed,
	&StatsAgentTurnsSucceeded,
	&StatsLLMBytesReceived,
	&StatsLLMBytesSent,
	&StatsLLMInputTokens,
	&StatsLLMMessagesSent,
	&StatsLLMOutputTokens,
	&StatsLLMUnavailable,
	&StatsMemoryEvictions,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
}
