package platnosci

import (
	"context"

	"paygate/internal/provider"

	"github.com/google/uuid"
)

var _ provider.Provider = (*Provider)(nil)

// Provider exposes a Connector through the provider registry.
type Provider struct {
	conn *Connector
}

// NewProvider wraps conn.
func NewProvider(conn *Connector) *Provider {
	return &Provider{conn: conn}
}

// Connector returns the wrapped connector.
func (p *Provider) Connector() *Connector { return p.conn }

// Name returns the provider name
func (p *Provider) Name() string {
	return "Platnosci.pl"
}

// SupportedOperations returns operations supported by platnosci.pl
func (p *Provider) SupportedOperations() []provider.OperationType {
	return []provider.OperationType{
		provider.OpStatus,
		provider.OpReport,
		provider.OpNewPayment,
		provider.OpPaytypeJS,
		provider.OpErrorLookup,
	}
}

// RequiredCredentialFields returns the POS settings from the gateway's admin panel
func (p *Provider) RequiredCredentialFields() []provider.CredentialField {
	return []provider.CredentialField{
		{Name: "key1", DisplayName: "Key (MD5)", Type: "password", Required: true},
		{Name: "key2", DisplayName: "Second key (MD5)", Type: "password", Required: true},
		{Name: "pos_id", DisplayName: "POS id", Type: "list", Required: true},
		{Name: "pos_auth_key", DisplayName: "Payment authorization key", Type: "password"},
		{Name: "encoding", DisplayName: "Encoding", Type: "select", Options: Encodings()},
		{Name: "check_report_sig", DisplayName: "Compute report signature", Type: "bool"},
	}
}

// QueryState runs GetState for a session id or a verified report.
func (p *Provider) QueryState(ctx context.Context, q provider.StateQuery, posID string) (provider.StateResult, error) {
	var in Input = SessionID(q.SessionID)
	if q.Report != nil {
		in = Report(q.Report)
	}
	state, err := p.conn.GetState(ctx, in, posID)
	if err != nil {
		return nil, err
	}
	return state, nil
}

// Checkout returns the form target and a fresh session id for a new payment.
func (p *Provider) Checkout(posID string) (*provider.Checkout, error) {
	if posID == "" {
		posID = p.conn.DefaultPosID()
	}
	src, err := p.conn.PaytypeJSSrc(posID)
	if err != nil {
		return nil, err
	}
	return &provider.Checkout{
		NewPaymentURL: p.conn.NewPaymentURL(),
		PaytypeJSSrc:  src,
		SessionID:     uuid.NewString(),
		PosID:         posID,
		PosAuthKey:    p.conn.PosAuthKey(),
		Encoding:      p.conn.Encoding(),
	}, nil
}

// DescribeError explains a gateway error code.
func (p *Provider) DescribeError(code string) (string, bool) {
	return p.conn.Error(code)
}
