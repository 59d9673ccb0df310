package httpvalidator

import (
	"errors"
	"net/http"

	"github.com/erraggy/oasgate/oaserrors"
	"github.com/erraggy/oasgate/parser"
)

// errInvalidRequestJSON is reported when the request body cannot be decoded.
const errInvalidRequestJSON = "request body is not valid JSON"

// Middleware returns a handler that validates traffic to next.
//
// Requests that match no route reach next untouched. For a matched route
// the request body is checked before next runs and, when the operation
// exists, the response is buffered and checked before anything is sent.
// Failures are rejected through the error handler or, when a validation
// func is configured, reported to it and let through.
//
// A schema the engine cannot compile is a programming error: the handler
// panics with a *oaserrors.EngineError.
func (v *Validator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v.serve(w, r, next)
	})
}

// Middleware builds a Validator from opts and returns its middleware.
func Middleware(opts ...Option) (func(http.Handler) http.Handler, error) {
	v, err := NewWithOptions(opts...)
	if err != nil {
		return nil, err
	}
	return v.Middleware, nil
}

func (v *Validator) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	route, ok := v.index.Match(r.URL.EscapedPath())
	if !ok {
		v.logger.Debug("no route matched", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
		return
	}
	log := v.logger.With("method", r.Method, "route", route.Template)

	if v.cfg.validateRequest {
		var proceed bool
		r, proceed = v.checkRequest(w, r, route, log)
		if !proceed {
			return
		}
	}

	if !v.cfg.validateResponse || route.Operation(r.Method) == nil {
		next.ServeHTTP(w, r)
		return
	}

	capture := acquireCapture(w)
	defer capture.release()
	next.ServeHTTP(capture, r)
	status, body := capture.finalize()

	if capture.hijacked {
		log.Debug("response hijacked, skipping validation")
		return
	}
	if err := r.Context().Err(); err != nil {
		log.Debug("request cancelled, discarding response", "error", err)
		return
	}
	v.checkResponse(capture, r, route, status, body, log)
}

// checkRequest validates the request body. It returns the request to hand
// downstream and false when the request was rejected.
func (v *Validator) checkRequest(w http.ResponseWriter, r *http.Request, route *RouteDefinition, log parser.Logger) (*http.Request, bool) {
	schema, err := v.resolver.ResolveRequestSchema(route, r.Method)
	if err != nil {
		log.Warn("cannot resolve request schema", "error", err)
		return r, true
	}
	if schema == nil {
		log.Debug("no request schema")
		return r, true
	}

	body, err := v.cfg.bodyParser(r)
	if err != nil {
		log.Warn("request body rejected", "error", err)
		errs := []FieldError{{Message: errInvalidRequestJSON, Path: "$"}}
		return r, v.requestFailed(w, r, nil, errs, true)
	}
	r = r.WithContext(contextWithBody(r.Context(), body))

	res := v.validate(v.requestEngine, schema, body, r, "request")
	if res.Valid {
		log.Debug("request body valid")
		return r, true
	}
	log.Warn("request body invalid", "errors", len(res.Errors))
	return r, v.requestFailed(w, r, body, res.Errors, false)
}

func (v *Validator) requestFailed(w http.ResponseWriter, r *http.Request, body any, errs []FieldError, malformed bool) bool {
	if fn := v.cfg.requestValidationFn; fn != nil {
		fn(r, body, errs)
		return true
	}
	rej := newRejection(oaserrors.DirectionRequest, r, v.cfg.requestRejectionStatus,
		errs, v.cfg.returnRequestErrors, malformed)
	v.cfg.errorHandler(w, r, rej)
	return false
}

// checkResponse validates a captured response and sends either it or a
// rejection to the client.
func (v *Validator) checkResponse(c *responseCapture, r *http.Request, route *RouteDefinition, status int, body []byte, log parser.Logger) {
	emit := func() {
		if err := c.emit(status, body); err != nil {
			log.Debug("writing response failed", "error", err)
		}
	}
	if !hasBody(r.Method, status) {
		emit()
		return
	}

	schema, err := v.resolver.ResolveResponseSchema(route, r.Method, status)
	if err != nil {
		log.Warn("cannot resolve response schema", "status", status, "error", err)
		emit()
		return
	}
	if schema == nil {
		log.Debug("no response schema", "status", status)
		emit()
		return
	}

	info := classifyPayload(c.Header(), body)
	if info.binary {
		log.Debug("binary response, skipping validation", "status", status, "mediaType", info.mediaType)
		emit()
		return
	}

	value, err := decodeJSON(decodeText(body, info.charset, log))
	if err != nil {
		log.Warn("response body malformed", "status", status, "error", err)
		if !v.cfg.preserveResponseContentType {
			// A nil entry also stops net/http from sniffing a type.
			c.Header()["Content-Type"] = nil
		}
		errs := []FieldError{{Message: malformedMessage, Path: "$"}}
		if v.responseFailed(c, r, string(body), errs, true) {
			emit()
		}
		return
	}

	res := v.validate(v.responseEngine, schema, value, r, "response")
	if res.Valid {
		log.Debug("response body valid", "status", status)
		emit()
		return
	}
	log.Warn("response body invalid", "status", status, "errors", len(res.Errors))
	if v.responseFailed(c, r, value, res.Errors, false) {
		emit()
	}
}

// responseFailed reports a failed response. It returns true when the
// original response should still be sent.
func (v *Validator) responseFailed(c *responseCapture, r *http.Request, body any, errs []FieldError, malformed bool) bool {
	if fn := v.cfg.responseValidationFn; fn != nil {
		fn(r, body, errs)
		return true
	}
	rej := newRejection(oaserrors.DirectionResponse, r, v.cfg.responseRejectionStatus,
		errs, v.cfg.returnResponseErrors, malformed)
	v.cfg.errorHandler(c.w, r, rej)
	return false
}

// validate runs e on a private copy of value. Engine failures panic.
func (v *Validator) validate(e Engine, schema *parser.Schema, value any, r *http.Request, side string) *ValidationResult {
	res, err := e.Validate(schema, cloneValue(value))
	if err == nil && res == nil {
		err = errors.New("engine returned no result")
	}
	if err != nil {
		op := r.Method + " " + r.URL.Path + " " + side
		var ee *oaserrors.EngineError
		if !errors.As(err, &ee) {
			ee = &oaserrors.EngineError{Operation: op, Cause: err}
		} else if ee.Operation == "" {
			ee.Operation = op
		}
		v.logger.Error("schema engine failed", "operation", op, "error", err)
		panic(ee)
	}
	return res
}

// hasBody reports whether a response to method with status may carry a
// body worth validating.
func hasBody(method string, status int) bool {
	if method == http.MethodHead {
		return false
	}
	switch {
	case status < http.StatusOK,
		status == http.StatusNoContent,
		status == http.StatusNotModified:
		return false
	}
	return true
}
