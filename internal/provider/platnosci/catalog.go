package platnosci

// Gateway endpoints. Paths take the resolved encoding as first argument.
const (
	DefaultHost = "https://www.platnosci.pl"

	getPaymentPath = "/paygw/%s/Payment/get/txt"
	newPaymentPath = "/paygw/%s/NewPayment"
	paytypeJSPath  = "/paygw/%s/js/%s/%s/paytype.js"

	// userAgent is matched by the gateway's request inspection; keep verbatim.
	userAgent = "RubyWay!"
)

// encodings recognised by the gateway. The first one is the default.
var encodings = []string{"UTF", "ISO", "WIN"}

// Response fields kept from a Payment/get answer.
const (
	FieldStatus       = "status"
	FieldTransStatus  = "trans_status"
	FieldSessionID    = "trans_session_id"
	FieldOrderID      = "trans_order_id"
	FieldTransID      = "trans_id"
	FieldPayType      = "trans_pay_type"
	FieldPayGwName    = "trans_pay_gw_name"
	FieldAmount       = "trans_amount"
	FieldDesc         = "trans_desc"
	FieldSig          = "trans_sig"
	FieldErrorNr      = "error_nr"
	FieldErrorMessage = "error_message"
)

// responseKeys is the allow-list applied to every state query response.
var responseKeys = []string{
	FieldStatus, FieldTransStatus, FieldSessionID, FieldOrderID, FieldTransID,
	FieldPayType, FieldPayGwName, FieldAmount, FieldDesc, FieldSig,
	FieldErrorNr, FieldErrorMessage,
}

// Top-level status value reported when the gateway rejects a request.
const statusError = "ERROR"

// Transaction status codes.
const (
	TransNew          = "1"
	TransCancelled    = "2"
	TransRejected     = "3"
	TransStarted      = "4"
	TransAwaiting     = "5"
	TransAuthDeclined = "6"
	TransPayRejected  = "7"
	TransCompleted    = "99"
	TransBadStatus    = "888"
)

var cancelledStatuses = map[string]bool{
	TransCancelled:    true,
	TransRejected:     true,
	TransAuthDeclined: true,
	TransPayRejected:  true,
	TransBadStatus:    true,
}

// statusMessages describes transaction lifecycle codes.
var statusMessages = map[string]string{
	TransNew:          "new",
	TransCancelled:    "cancelled",
	TransRejected:     "rejected",
	TransStarted:      "started",
	TransAwaiting:     "awaiting collection",
	TransAuthDeclined: "authorization declined",
	TransPayRejected:  "payment rejected",
	TransCompleted:    "completed",
	TransBadStatus:    "invalid status",
}

// errorMessages describes protocol error codes returned in error_nr.
var errorMessages = map[string]string{
	"100": "missing or invalid pos_id parameter",
	"101": "missing session_id parameter",
	"102": "missing ts parameter",
	"103": "missing or invalid sig parameter",
	"104": "missing desc parameter",
	"105": "missing client_ip parameter",
	"106": "missing first_name parameter",
	"107": "missing last_name parameter",
	"108": "missing street parameter",
	"109": "missing city parameter",
	"110": "missing post_code parameter",
	"111": "missing amount parameter",
	"112": "invalid bank account number",
	"113": "missing email parameter",
	"114": "missing phone number",
	"200": "other temporary error",
	"201": "other temporary database error",
	"202": "pos with the given id is blocked",
	"203": "pay_type value not allowed for the given pos_id",
	"204": "pay_type temporarily blocked for the given pos_id, e.g. gateway maintenance",
	"205": "transaction amount below the minimum",
	"206": "transaction amount above the maximum",
	"207": "total value of a client's transactions in the last period exceeded",
	"208": "pos runs the ExpressPayment variant but it has not been activated yet",
	"209": "invalid pos_id or pos_auth_key",
	"500": "transaction does not exist",
	"501": "no authorization for the transaction",
	"502": "transaction started earlier",
	"503": "transaction authorization already performed",
	"504": "transaction cancelled earlier",
	"505": "transaction handed over for collection earlier",
	"506": "transaction already collected",
	"507": "error while returning funds to the client",
	"599": "invalid transaction state, e.g. accepting a transaction several times; contact support",
	"999": "other critical error; contact support",
}

// ErrorMessage looks up a protocol error code.
func ErrorMessage(code string) (string, bool) {
	msg, ok := errorMessages[code]
	return msg, ok
}

// StatusMessage looks up a transaction status code.
func StatusMessage(code string) (string, bool) {
	msg, ok := statusMessages[code]
	return msg, ok
}

// Encodings returns the encodings the gateway accepts, default first.
func Encodings() []string {
	return append([]string(nil), encodings...)
}

// ResponseKeys returns the keys kept from a state query response.
func ResponseKeys() []string {
	return append([]string(nil), responseKeys...)
}
