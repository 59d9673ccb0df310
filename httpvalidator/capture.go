package httpvalidator

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var errCaptureReleased = errors.New("httpvalidator: response already finalized")

// responseCapture buffers a handler's response so it can be validated
// before anything reaches the client. Headers go straight to the wrapped
// writer's map; status and body are held until finalize.
type responseCapture struct {
	w        http.ResponseWriter
	status   int
	segments [][]byte
	size     int
	hijacked bool
	released bool
}

var (
	_ http.ResponseWriter = (*responseCapture)(nil)
	_ http.Flusher        = (*responseCapture)(nil)
	_ http.Hijacker       = (*responseCapture)(nil)
)

// Header returns the wrapped writer's header map.
func (c *responseCapture) Header() http.Header {
	return c.w.Header()
}

// WriteHeader records the first status code; later calls are ignored.
func (c *responseCapture) WriteHeader(code int) {
	if c.released || c.status != 0 {
		return
	}
	c.status = code
}

// Write appends a copy of p to the buffered body.
func (c *responseCapture) Write(p []byte) (int, error) {
	if c.released {
		return 0, errCaptureReleased
	}
	if c.hijacked {
		return 0, http.ErrHijacked
	}
	if c.status == 0 {
		c.status = http.StatusOK
	}
	if len(p) == 0 {
		return 0, nil
	}
	seg := make([]byte, len(p))
	copy(seg, p)
	c.segments = append(c.segments, seg)
	c.size += len(p)
	return len(p), nil
}

// Unwrap returns the wrapped writer for http.ResponseController.
func (c *responseCapture) Unwrap() http.ResponseWriter {
	return c.w
}

// Flush is a no-op: nothing can be sent before validation.
func (c *responseCapture) Flush() {}

// Hijack hands the connection to the handler. A hijacked response is
// never emitted by the middleware.
func (c *responseCapture) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := c.w.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("httpvalidator: %T does not implement http.Hijacker", c.w)
	}
	conn, rw, err := hj.Hijack()
	if err == nil {
		c.hijacked = true
	}
	return conn, rw, err
}

// finalize detaches the capture and returns the recorded status (200 when
// the handler set none) and the concatenated body.
func (c *responseCapture) finalize() (int, []byte) {
	c.released = true
	status := c.status
	if status == 0 {
		status = http.StatusOK
	}
	switch len(c.segments) {
	case 0:
		return status, nil
	case 1:
		return status, c.segments[0]
	}
	body := make([]byte, 0, c.size)
	for _, seg := range c.segments {
		body = append(body, seg...)
	}
	return status, body
}

// emit writes status and body to the wrapped writer.
func (c *responseCapture) emit(status int, body []byte) error {
	c.w.WriteHeader(status)
	if len(body) == 0 {
		return nil
	}
	_, err := c.w.Write(body)
	return err
}
