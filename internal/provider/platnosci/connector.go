package platnosci

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"paygate/internal/provider"
	"paygate/internal/provider/base"

	"github.com/rs/zerolog/log"
)

// Input identifies the session whose state is queried: a SessionID or a
// Report received from the gateway.
type Input interface {
	isInput()
}

// SessionID is a bare trans_session_id.
type SessionID string

// Report holds the fields of a gateway report. Keys must be pos_id,
// session_id, ts and sig; callers normalise other representations first.
type Report map[string]string

func (SessionID) isInput() {}
func (Report) isInput()    {}

// Report fields, checked in this order.
var reportKeys = []string{"pos_id", "session_id", "ts", "sig"}

// Observer is notified about every exchange with the gateway.
type Observer interface {
	ObserveRequest(outcome string, elapsed time.Duration)
}

// ReportSignature is the report signature computed after a state query when
// Config.CheckReportSig is set.
type ReportSignature struct {
	PosID     string
	SessionID string
	OrderID   string
	Status    string
	Amount    string
	Desc      string
	TS        string
	Sig       string
}

// Option configures a Connector.
type Option func(*Connector)

// WithHTTPClient replaces the HTTP client used to reach the gateway.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Connector) { c.http.SetTransport(hc) }
}

// WithClock replaces the time source used for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Connector) { c.now = now }
}

// WithReportSigHook receives every computed report signature.
func WithReportSigHook(fn func(ReportSignature)) Option {
	return func(c *Connector) { c.reportHook = fn }
}

// WithObserver reports request outcomes, e.g. to metrics.
func WithObserver(o Observer) Option {
	return func(c *Connector) { c.observer = o }
}

// Connector talks to platnosci.pl. It holds only immutable configuration
// and is safe for concurrent use.
type Connector struct {
	cfg        Config
	encoding   string
	statePath  string
	newPayment string
	paytypeJS  map[string]string
	http       *base.HTTPClient
	now        func() time.Time
	reportHook func(ReportSignature)
	observer   Observer
}

// New validates cfg and precomputes the gateway URLs.
func New(cfg Config, opts ...Option) (*Connector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := base.NewHTTPClient("platnosci", cfg.Timeout)
	httpClient.SetBaseURL(cfg.host())
	httpClient.SetUserAgent(userAgent)
	httpClient.SetDebugOutput(cfg.HTTPDebug)

	enc := cfg.encoding()
	host := strings.TrimRight(cfg.host(), "/")
	c := &Connector{
		cfg:        cfg,
		encoding:   enc,
		statePath:  fmt.Sprintf(getPaymentPath, enc),
		newPayment: host + fmt.Sprintf(newPaymentPath, enc),
		paytypeJS:  make(map[string]string, len(cfg.PosIDs)),
		http:       httpClient,
		now:        time.Now,
	}

	prefix := []rune(cfg.Key1)
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	for _, pos := range cfg.PosIDs {
		c.paytypeJS[pos] = host + fmt.Sprintf(paytypeJSPath, enc, pos, string(prefix))
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encoding returns the resolved encoding.
func (c *Connector) Encoding() string { return c.encoding }

// PosIDs returns the configured pos ids, default first.
func (c *Connector) PosIDs() []string {
	return append([]string(nil), c.cfg.PosIDs...)
}

// DefaultPosID returns the pos id used when a call names none.
func (c *Connector) DefaultPosID() string { return c.cfg.PosIDs[0] }

// PosAuthKey returns the configured pos_auth_key, possibly empty.
func (c *Connector) PosAuthKey() string { return c.cfg.PosAuthKey }

// NewPaymentURL is the form action for creating a payment.
func (c *Connector) NewPaymentURL() string { return c.newPayment }

// PaytypeJSSrc returns the gateway script that renders the payment method
// choice. The path embeds the pos id and the first two characters of key1,
// as the gateway requires. An empty posID selects the default.
func (c *Connector) PaytypeJSSrc(posID string) (string, error) {
	if posID == "" {
		posID = c.DefaultPosID()
	}
	src, ok := c.paytypeJS[posID]
	if !ok {
		return "", unknownPos(posID)
	}
	return src, nil
}

// Error explains a gateway error code.
func (c *Connector) Error(code string) (string, bool) {
	return ErrorMessage(code)
}

// GetState asks the gateway for the state of one session. A non-empty posID
// overrides the pos id used to sign the query and must be configured.
//
// A Report input is verified first: all four fields must be present, its
// pos_id must be configured and its sig must match md5(pos_id + session_id
// + ts + key2). Exactly one request is sent; retrying is up to the caller.
func (c *Connector) GetState(ctx context.Context, in Input, posID string) (*PaymentState, error) {
	sessionID, reportPos, err := c.resolveInput(in)
	if err != nil {
		return nil, err
	}
	if posID != "" && !c.knownPos(posID) {
		return nil, unknownPos(posID)
	}
	if posID == "" {
		posID = reportPos
	}

	data := c.prepareRequestData(sessionID, posID)

	start := time.Now()
	resp, err := c.http.PostForm(ctx, c.statePath, data, nil)
	if err != nil {
		code := provider.ErrProviderDown
		if base.IsTimeout(err) {
			code = provider.ErrProviderTimeout
		}
		c.observe(code, start)
		return nil, provider.TransportError(code, 0, err, "Request to %s failed", c.statePath)
	}
	if !resp.IsOK() {
		c.observe(provider.ErrBadStatus, start)
		return nil, provider.TransportError(provider.ErrBadStatus, resp.StatusCode, nil,
			"Wrong response code='%d'", resp.StatusCode)
	}

	state := NewPaymentState(ParseBody(resp.String(), responseKeys))
	if state.IsError() {
		c.observe("gateway_error", start)
	} else {
		c.observe("ok", start)
	}

	log.Debug().
		Str("pos_id", data.Get("pos_id")).
		Str("session_id", sessionID).
		Str("status", state.Status()).
		Str("trans_status", state.TransStatus()).
		Str("error_nr", state.ErrorCode()).
		Msg("platnosci state received")

	if c.cfg.CheckReportSig {
		c.checkReportSig(data.Get("pos_id"), sessionID, state)
	}
	return state, nil
}

// resolveInput returns the session id and, for reports, the verified pos id.
func (c *Connector) resolveInput(in Input) (string, string, error) {
	switch v := in.(type) {
	case SessionID:
		if strings.TrimSpace(string(v)) == "" {
			return "", "", emptySession()
		}
		return string(v), "", nil
	case Report:
		if v == nil {
			return "", "", emptySession()
		}
		if err := c.checkReport(v); err != nil {
			return "", "", err
		}
		return v["session_id"], v["pos_id"], nil
	default:
		return "", "", emptySession()
	}
}

// checkReport verifies the fields of a gateway report before its session id
// is trusted.
func (c *Connector) checkReport(r Report) error {
	for _, key := range reportKeys {
		if _, ok := r[key]; !ok {
			return provider.InvalidArgument(provider.ErrMissingParameter, key,
				"There is no value for key='%s'", key)
		}
	}
	if !c.knownPos(r["pos_id"]) {
		return unknownPos(r["pos_id"])
	}
	if Sign(r["pos_id"], r["session_id"], r["ts"], c.cfg.Key2) != r["sig"] {
		return provider.InvalidArgument(provider.ErrWrongSignature, "sig", "Wrong signature")
	}
	return nil
}

// prepareRequestData builds the Payment/get form. An empty posID selects
// the first configured one.
func (c *Connector) prepareRequestData(sessionID, posID string) url.Values {
	if posID == "" {
		posID = c.DefaultPosID()
	}
	ts := Timestamp(c.now())
	return url.Values{
		"pos_id":     {posID},
		"session_id": {sessionID},
		"ts":         {ts},
		"sig":        {Sign(posID, sessionID, ts, c.cfg.Key1)},
	}
}

func (c *Connector) checkReportSig(posID, sessionID string, state *PaymentState) {
	ts := Timestamp(c.now())
	rs := ReportSignature{
		PosID:     posID,
		SessionID: sessionID,
		OrderID:   state.OrderID(),
		Status:    state.TransStatus(),
		Amount:    state.Amount(),
		Desc:      state.Description(),
		TS:        ts,
	}
	rs.Sig = SignReport(rs.PosID, rs.SessionID, rs.OrderID, rs.Status, rs.Amount, rs.Desc, rs.TS, c.cfg.Key2)

	log.Debug().
		Str("pos_id", rs.PosID).
		Str("session_id", rs.SessionID).
		Str("ts", rs.TS).
		Str("report_sig", rs.Sig).
		Msg("platnosci report signature")

	if c.reportHook != nil {
		c.reportHook(rs)
	}
}

func (c *Connector) knownPos(posID string) bool {
	return base.Contains(c.cfg.PosIDs, posID)
}

func (c *Connector) observe(outcome string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(outcome, time.Since(start))
	}
}

func emptySession() error {
	return provider.InvalidArgument(provider.ErrEmptySession, "session_id", "Transaction session parameter is empty")
}

func unknownPos(posID string) error {
	return provider.InvalidArgument(provider.ErrUnknownPosID, "pos_id", "Given pos_id='%s' is not valid", posID)
}
