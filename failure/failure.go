// Package failure defines the expected-failure value carried in-band
// inside service responses. Modules report recoverable request
// problems (bad fields, missing entities, denied actions) as a Failure
// instead of an error, so only unexpected conditions travel the error
// path and every expected condition reaches the API layer with enough
// shape to build the response envelope.
package failure

// Kinds of expected failures. The API layer maps each kind to an HTTP
// status.
const (
	KindValidation   = "validation"   // 400
	KindNotFound     = "not_found"    // 404
	KindUnauthorized = "unauthorized" // 401
	KindForbidden    = "forbidden"    // 403
	KindRedirect     = "redirect"     // 200, no-op outcome
)

// Failure describes an expected request failure.
type Failure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Validation builds a field/format failure.
func Validation(message string) *Failure {
	return &Failure{Kind: KindValidation, Message: message}
}

// NotFound builds a missing-entity failure. Ownership failures use the
// same kind so foreign entities are indistinguishable from absent ones.
func NotFound(message string) *Failure {
	return &Failure{Kind: KindNotFound, Message: message}
}

// Unauthorized builds an authentication failure.
func Unauthorized(message string) *Failure {
	return &Failure{Kind: KindUnauthorized, Message: message}
}

// Forbidden builds a capability failure.
func Forbidden(message string) *Failure {
	return &Failure{Kind: KindForbidden, Message: message}
}

// Redirect builds a no-op outcome that routes the caller elsewhere
// rather than reporting an error.
func Redirect(message string) *Failure {
	return &Failure{Kind: KindRedirect, Message: message}
}
