package types

// SuccessEnvelope wraps every 2xx body. Handlers write SuccessEnvelope[any];
// clients and tests decode into a concrete T.
type SuccessEnvelope[T any] struct {
	Data T `json:"data"`
}

// APIError is the body of every non-2xx response. RequestID echoes the
// X-Request-Id header so a cashier's report can be matched to server logs.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
