package agents

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/lvchiyang/aiteacher/encoding"
)

// RunTyped runs a single turn and decodes the answer into T
// with the output format of the Agent.
func RunTyped[T any](ctx context.Context, a *Agent, input string) (*T, error) {
	enc := a.cfg.OutputFormat
	if enc == nil {
		return nil, errors.Newf("agent %q: output format is not set", a.name)
	}

	output, err := a.RunOnce(ctx, input)
	if err != nil {
		return nil, err
	}

	res, err := encoding.Decode[T](enc, output)
	if err != nil {
		return nil, errors.WithMessagef(err, "agent %q", a.name)
	}
	return res, nil
}
