package agents

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

// ErrorPolicy defines how RunLoop handles a failed turn.
type ErrorPolicy int

const (
	// PolicyStopOnError ends the loop and returns the error.
	PolicyStopOnError ErrorPolicy = iota
	// PolicyContinueOnError records "Agent error: <err>" as the turn output and continues.
	PolicyContinueOnError
)

func (p ErrorPolicy) String() string {
	switch p {
	case PolicyStopOnError:
		return "stop_on_error"
	case PolicyContinueOnError:
		return "continue_on_error"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
}

// RunLoop runs a turn per input in order until the inputs are exhausted,
// Stop is called or the context is done.
// The outputs of the completed turns are returned.
func (a *Agent) RunLoop(ctx context.Context, inputs []string, policy ErrorPolicy) ([]string, error) {
	a.running.Store(true)
	defer a.running.Store(false)

	outputs := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if !a.running.Load() {
			logger.ContextKV(ctx, xlog.DEBUG,
				"agent", a.name,
				"status", "stopped",
				"completed", len(outputs),
			)
			break
		}
		if err := ctx.Err(); err != nil {
			return outputs, errors.WithStack(err)
		}

		output, err := a.RunOnce(ctx, input)
		if err != nil {
			if policy == PolicyStopOnError {
				return outputs, err
			}
			logger.ContextKV(ctx, xlog.WARNING,
				"agent", a.name,
				"status", "turn_failed",
				"policy", policy,
				"err", err.Error(),
			)
			output = fmt.Sprintf("Agent error: %v", err)
		}
		outputs = append(outputs, output)
	}
	return outputs, nil
}

// Stop requests RunLoop to end before the next turn.
// The current turn is not interrupted.
func (a *Agent) Stop() {
	a.running.Store(false)
}

// IsRunning returns true while RunLoop is processing inputs.
func (a *Agent) IsRunning() bool {
	return a.running.Load()
}
