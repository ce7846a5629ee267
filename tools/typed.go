package tools

import (
	"context"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/lvchiyang/aiteacher/encoding"
	jsonenc "github.com/lvchiyang/aiteacher/encoding/json"
	"github.com/lvchiyang/aiteacher/pkg/schema"
)

// NewTyped returns a tool bound to fn.
// The parameters schema is reflected from I, which must be a struct;
// arguments are decoded leniently into I and validated with the `validate` tags.
func NewTyped[I any, O any](name, description string, fn func(ctx context.Context, in *I) (*O, error)) (*Tool, error) {
	sch, err := schema.New(reflect.TypeFor[I]())
	if err != nil {
		return nil, errors.WithMessagef(err, "tool %q", name)
	}

	enc := jsonenc.NewEncoder(new(I))
	t := New(name, description, sch.Map())
	t.BindFunc(func(ctx context.Context, args Arguments) (any, error) {
		in, err := encoding.Decode[I](enc, args.String())
		if err != nil {
			return nil, errors.Mark(errors.WithMessage(err, "invalid input"), ErrFailedUnmarshalInput)
		}
		out, err := fn(ctx, in)
		if err != nil {
			return nil, err
		}
		if out == nil {
			return nil, nil
		}
		return out, nil
	})
	return t, nil
}
