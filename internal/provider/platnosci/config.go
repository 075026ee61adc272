package platnosci

import (
	"io"
	"time"

	"paygate/internal/provider/base"
)

// Config holds the POS credentials from the gateway's admin panel. It must
// not change after New.
type Config struct {
	Key1 string // signs queries sent to the gateway
	Key2 string // verifies reports received from the gateway

	// PosIDs lists every pos id the application may use. The first one is
	// the default.
	PosIDs []string

	// PosAuthKey is only needed when the gateway has pos_auth_key
	// verification disabled for a pos.
	PosAuthKey string

	// Encoding is one of Encodings(). Empty selects the first one.
	Encoding string

	// CheckReportSig computes the report signature after every state query.
	CheckReportSig bool

	// HTTPDebug receives raw wire traffic when set.
	HTTPDebug io.Writer

	// Host overrides DefaultHost.
	Host string

	// Timeout bounds a whole exchange with the gateway. Zero selects base.DefaultTimeout.
	Timeout time.Duration
}

// Validate checks that the configuration carries everything the protocol
// needs. Fields are checked in order key1, key2, pos_id, pos_auth_key,
// encoding and the first failure is returned.
func (c Config) Validate() error {
	if err := base.RequireField("key1", c.Key1); err != nil {
		return err
	}
	if err := base.RequireField("key2", c.Key2); err != nil {
		return err
	}
	if err := base.RequireList("pos_id", c.PosIDs); err != nil {
		return err
	}
	if err := base.OptionalField("pos_auth_key", c.PosAuthKey); err != nil {
		return err
	}
	return base.RequireOneOf("encoding", c.Encoding, encodings)
}

func (c Config) encoding() string {
	if c.Encoding == "" {
		return encodings[0]
	}
	return c.Encoding
}

func (c Config) host() string {
	if c.Host == "" {
		return DefaultHost
	}
	return c.Host
}
