package soroban

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	errs "github.com/stellovault/backend/internal/domain/error"
	coreport "github.com/stellovault/backend/internal/domain/port/core"
)

// invocation is the wire shape of an unsubmitted contract invocation. Clients
// decode it, wrap it in a transaction envelope, sign and submit it themselves.
type invocation struct {
	ContractID        string `json:"contractId"`
	Method            string `json:"method"`
	Args              []any  `json:"args"`
	NetworkPassphrase string `json:"networkPassphrase"`
	RPCURL            string `json:"rpcUrl"`
}

// InvocationBuilder builds base64-encoded Soroban contract invocation
// payloads. It never talks to the network; the payload is deterministic in
// its inputs.
type InvocationBuilder struct {
	rpcURL            string
	networkPassphrase string
	logger            coreport.Logger
}

// NewInvocationBuilder creates a new InvocationBuilder
func NewInvocationBuilder(rpcURL, networkPassphrase string, logger coreport.Logger) *InvocationBuilder {
	return &InvocationBuilder{
		rpcURL:            rpcURL,
		networkPassphrase: networkPassphrase,
		logger:            logger,
	}
}

// BuildInvocation returns a base64-encoded invocation payload for the given
// contract method call
func (b *InvocationBuilder) BuildInvocation(ctx context.Context, contractID, method string, args []any) (string, error) {
	if contractID == "" {
		return "", fmt.Errorf("%w: contract id is not configured", errs.ErrDependency)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %s", errs.ErrDependency, err.Error())
	}

	payload, err := json.Marshal(invocation{
		ContractID:        contractID,
		Method:            method,
		Args:              args,
		NetworkPassphrase: b.networkPassphrase,
		RPCURL:            b.rpcURL,
	})
	if err != nil {
		b.logger.Error("Failed to marshal invocation payload", map[string]any{
			"contractId": contractID,
			"method":     method,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("%w: failed to encode invocation", errs.ErrDependency)
	}

	return base64.StdEncoding.EncodeToString(payload), nil
}
