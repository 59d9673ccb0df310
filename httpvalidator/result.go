package httpvalidator

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/erraggy/oasgate/oaserrors"
)

// Rejection describes a request or response that failed validation and
// is about to be replaced by an error response.
type Rejection struct {
	// Status is the HTTP status the error response is sent with.
	Status int
	// Message is the human-readable summary, e.g.
	// "Response schema validation failed for GET /status".
	Message string
	// Errors holds the violations. It is populated even when they are not
	// returned to the client; see IncludeErrors.
	Errors []FieldError
	// IncludeErrors reports whether Errors belong in the payload sent to the
	// client.
	IncludeErrors bool
	// Err is the typed error describing the failure.
	Err *oaserrors.ValidationError
}

// RejectionPayload is the JSON body of an error response.
type RejectionPayload struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func newRejection(dir oaserrors.Direction, r *http.Request, status int, errs []FieldError, include, malformed bool) *Rejection {
	label := "Request"
	if dir == oaserrors.DirectionResponse {
		label = "Response"
	}
	url := r.URL.RequestURI()
	return &Rejection{
		Status:        status,
		Message:       fmt.Sprintf("%s schema validation failed for %s %s", label, r.Method, url),
		Errors:        errs,
		IncludeErrors: include,
		Err: &oaserrors.ValidationError{
			Direction: dir,
			Method:    r.Method,
			URL:       url,
			Malformed: malformed,
			Count:     len(errs),
		},
	}
}

// Error implements error.
func (r *Rejection) Error() string {
	return r.Message
}

// Unwrap returns the typed validation error.
func (r *Rejection) Unwrap() error {
	if r.Err == nil {
		return nil
	}
	return r.Err
}

// Payload returns the body to send to the client.
func (r *Rejection) Payload() RejectionPayload {
	p := RejectionPayload{Message: r.Message}
	if r.IncludeErrors {
		p.Errors = r.Errors
	}
	return p
}

// WriteJSONRejection is the default ErrorHandler. It replaces whatever
// Content-Type and Content-Length the handler set and writes the payload as
// JSON.
func WriteJSONRejection(w http.ResponseWriter, _ *http.Request, rej *Rejection) {
	data, err := json.Marshal(rej.Payload())
	if err != nil {
		// RejectionPayload holds only strings; this cannot fail in practice.
		data = []byte(`{"message":"schema validation failed"}`)
	}
	h := w.Header()
	h.Del("Content-Length")
	h.Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(rej.Status)
	_, _ = w.Write(data)
}
