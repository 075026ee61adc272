package platnosci

// PaymentState is the answer to one state query. It is immutable; the
// classification helpers are derived from the stored fields on each call.
type PaymentState struct {
	fields Fields
}

// NewPaymentState copies fields into a new state.
func NewPaymentState(fields Fields) *PaymentState {
	cp := make(Fields, len(fields))
	for k, v := range fields {
		if v != nil {
			s := *v
			v = &s
		}
		cp[k] = v
	}
	return &PaymentState{fields: cp}
}

// Get returns the value stored for key. ok is false when the key is absent
// or its value is empty.
func (s *PaymentState) Get(key string) (string, bool) {
	v, ok := s.fields[key]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Has reports whether key was present in the response, even without a value.
func (s *PaymentState) Has(key string) bool {
	_, ok := s.fields[key]
	return ok
}

// Fields returns a copy of the parsed response.
func (s *PaymentState) Fields() map[string]*string {
	return NewPaymentState(s.fields).fields
}

func (s *PaymentState) value(key string) string {
	v, _ := s.Get(key)
	return v
}

// IsNew reports a freshly started transaction, the first status the gateway returns.
func (s *PaymentState) IsNew() bool { return s.value(FieldTransStatus) == TransNew }

// IsReceived reports a completed payment: the money has arrived.
func (s *PaymentState) IsReceived() bool { return s.value(FieldTransStatus) == TransCompleted }

// IsCancelled reports a transaction that will not complete. A new session id
// is needed to retry the payment.
func (s *PaymentState) IsCancelled() bool {
	return cancelledStatuses[s.value(FieldTransStatus)]
}

// IsError reports a request the gateway rejected, usually due to bad parameters.
func (s *PaymentState) IsError() bool { return s.value(FieldStatus) == statusError }

func (s *PaymentState) Status() string         { return s.value(FieldStatus) }
func (s *PaymentState) TransStatus() string    { return s.value(FieldTransStatus) }
func (s *PaymentState) SessionID() string      { return s.value(FieldSessionID) }
func (s *PaymentState) OrderID() string        { return s.value(FieldOrderID) }
func (s *PaymentState) TransID() string        { return s.value(FieldTransID) }
func (s *PaymentState) PayType() string        { return s.value(FieldPayType) }
func (s *PaymentState) PayGatewayName() string { return s.value(FieldPayGwName) }
func (s *PaymentState) Amount() string         { return s.value(FieldAmount) }
func (s *PaymentState) Description() string    { return s.value(FieldDesc) }
func (s *PaymentState) Sig() string            { return s.value(FieldSig) }
func (s *PaymentState) ErrorCode() string      { return s.value(FieldErrorNr) }
func (s *PaymentState) ErrorDetails() string   { return s.value(FieldErrorMessage) }

// TransStatusText describes the transaction status code.
func (s *PaymentState) TransStatusText() (string, bool) {
	return StatusMessage(s.TransStatus())
}

// ErrorDescription explains error_nr. ok is false when the code is absent
// or unknown.
func (s *PaymentState) ErrorDescription() (string, bool) {
	return ErrorMessage(s.ErrorCode())
}
