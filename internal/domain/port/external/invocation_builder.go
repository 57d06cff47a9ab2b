package external

import (
	"context"
)

// InvocationBuilder builds the opaque transaction payload submitted to the
// external ledger by the caller. From this core's perspective the call is pure
// and side-effect free; failures surface as ErrDependency. Payload building
// never happens inside a store transaction.
type InvocationBuilder interface {
	// BuildInvocation returns a base64-encoded invocation payload for the given
	// contract method call
	BuildInvocation(ctx context.Context, contractID, method string, args []any) (string, error)
}
