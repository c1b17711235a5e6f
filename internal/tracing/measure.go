package tracing

import (
	"context"
	"fmt"
)

// Measure runs fn inside a scoped region named name. The span is closed on
// every exit path: normal return, error return, and panic. Errors and panics
// propagate to the caller unchanged; a failing fn only flips the span status
// to failed.
func Measure(
	ctx context.Context,
	name string,
	md Metadata,
	fn func(ctx context.Context) error,
) (err error) {
	region := StartRegion(ctx, name, md)
	defer func() {
		if p := recover(); p != nil {
			region.Fail(fmt.Errorf("panic: %v", p))
			region.End()
			panic(p)
		}
		if err != nil {
			region.Fail(err)
		}
		region.End()
	}()
	err = fn(ctx)
	return err
}

// Wrap returns a callable equivalent to fn that brackets each invocation in a
// span named name.
func Wrap(name string, fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return Measure(ctx, name, nil, fn)
	}
}

// WrapFn is Wrap for callables returning a value. The wrapped callable's
// argument, return and error contract is preserved exactly.
func WrapFn[T any](name string, fn func(ctx context.Context) (T, error)) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		var result T
		err := Measure(ctx, name, nil, func(ctx context.Context) error {
			var fnErr error
			result, fnErr = fn(ctx)
			return fnErr
		})
		return result, err
	}
}
