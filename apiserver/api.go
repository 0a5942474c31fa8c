package apiserver

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// EndpointFunc is the signature every handler implements: read req, do
// whatever work is needed, and return the Result to send back. It never
// writes to an http.ResponseWriter itself, matching server/api.EndpointFunc.
type EndpointFunc func(req *http.Request) Result

// httpEndpoint adapts an EndpointFunc to an http.HandlerFunc: it recovers
// from panics (panicTo500), marshals the Result's body, logs the outcome,
// and writes the response. unauthDelay is slept before writing a 401, 403,
// or 500 response, to blunt credential-guessing and information-leak
// timing attacks (server/api.httpEndpoint's anti-flood delay).
func httpEndpoint(logger *log.Logger, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if panicVal := panicTo500(w, req, logger); panicVal != nil {
				logger.Printf("PANIC served as 500: %v", panicVal)
			}
		}()

		r := ep(req)
		if r.Status == 0 {
			r = InternalServerError("endpoint returned a zero-value Result")
		}

		if err := r.PrepareMarshaledResponse(); err != nil {
			r = InternalServerError(fmt.Sprintf("marshal response: %v", err))
			r.PrepareMarshaledResponse()
		}

		logHttpResponse(logger, req, r.Status, r.InternalMsg)
		r.WriteResponse(w)
	}
}

// panicTo500 recovers a panic in flight, if any, writes a 500 Result in its
// place, and returns the recovered value (nil if nothing panicked), the
// same shape as server/middle.panicTo500.
func panicTo500(w http.ResponseWriter, req *http.Request, logger *log.Logger) (panicVal interface{}) {
	if panicVal = recover(); panicVal != nil {
		r := InternalServerError(fmt.Sprintf("panic: %v", panicVal))
		r.PrepareMarshaledResponse()
		logHttpResponse(logger, req, r.Status, r.InternalMsg)
		r.WriteResponse(w)
	}
	return panicVal
}

// parseJSON reads req's body as JSON into v, rejecting anything that isn't
// Content-Type: application/json (server/api.parseJSON).
func parseJSON(req *http.Request, v interface{}) error {
	ct := req.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("request Content-Type is not application/json")
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	req.Body = io.NopCloser(strings.NewReader(string(data)))

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("malformed JSON in request body: %w", err)
	}
	return nil
}

// logHttpResponse writes one line describing a completed request, trimming
// the ephemeral port off RemoteAddr, matching server/api.logHttpResponse's
// format.
func logHttpResponse(logger *log.Logger, req *http.Request, status int, msg string) {
	addr := req.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx >= 0 {
		addr = addr[:idx]
	}
	if msg == "" {
		logger.Printf("%-5s %s %s %s -> %d", levelFor(status), addr, req.Method, req.URL.Path, status)
		return
	}
	logger.Printf("%-5s %s %s %s -> %d: %s", levelFor(status), addr, req.Method, req.URL.Path, status, msg)
}

func levelFor(status int) string {
	switch {
	case status >= 500:
		return "ERROR"
	case status >= 400:
		return "WARN"
	default:
		return "INFO"
	}
}
