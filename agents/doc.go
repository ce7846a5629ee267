// Package agents implements the agent orchestrator: a single turn runs the
// model, resolves the requested tool calls against the agent tools and feeds
// the observations back, bounded by the configured number of tool iterations.
package agents
