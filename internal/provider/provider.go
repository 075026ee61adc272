package provider

import (
	"context"
)

// StateQuery identifies the session whose state is queried. Report carries
// callback fields (pos_id, session_id, ts, sig) when the session reference
// came from an inbound report; it takes precedence over SessionID.
type StateQuery struct {
	SessionID string
	Report    map[string]string
}

// StateResult is the provider-neutral view of a transaction state query.
type StateResult interface {
	SessionID() string
	OrderID() string
	Status() string
	TransStatus() string
	IsNew() bool
	IsReceived() bool
	IsCancelled() bool
	IsError() bool
	Fields() map[string]*string
}

// Provider is a payment gateway the service can talk to.
type Provider interface {
	Name() string
	SupportedOperations() []OperationType
	RequiredCredentialFields() []CredentialField

	QueryState(ctx context.Context, q StateQuery, posID string) (StateResult, error)
	Checkout(posID string) (*Checkout, error)
	DescribeError(code string) (string, bool)
}
