package repl

import "context"

// Dispatch exposes the per-line agent dispatch for testing without a
// terminal.
func Dispatch(r *REPL, ctx context.Context, line string) (bool, error) {
	return r.dispatch(ctx, line)
}
