// Package apiserver exposes the normalization pipeline, table builder, and
// predictive parser over HTTP, grounded on server/api/api.go's chi-based
// endpoint plumbing (server/result, server/middle, server/token.go for the
// auth pattern).
package apiserver

import (
	"encoding/json"
	"net/http"
)

// Result is the outcome of one endpoint call: a status code plus either a
// JSON-serializable response body or a redirect, mirroring
// server/result.Result. Endpoints build one and return it; httpEndpoint
// writes it to the wire.
type Result struct {
	Status      int
	IsErr       bool
	InternalMsg string

	resp          interface{}
	respJSONBytes []byte
	hdrs          [][2]string
}

// ErrorResponse is the JSON body of any Result built by an Err-family
// constructor.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// OK builds a 200 Result with resp as its JSON body.
func OK(resp interface{}) Result {
	return Result{Status: http.StatusOK, resp: resp}
}

// Created builds a 201 Result with resp as its JSON body.
func Created(resp interface{}) Result {
	return Result{Status: http.StatusCreated, resp: resp}
}

// NoContent builds a 204 Result with no body.
func NoContent() Result {
	return Result{Status: http.StatusNoContent}
}

// Err builds an error Result at the given status, with internalMsg recorded
// for logging (never sent to the client) and userMsg sent as the response
// body's message.
func Err(status int, userMsg string, internalMsg string) Result {
	return Result{
		Status:      status,
		IsErr:       true,
		InternalMsg: internalMsg,
		resp:        ErrorResponse{Status: status, Message: userMsg},
	}
}

// BadRequest builds a 400 Result.
func BadRequest(userMsg string, internalMsg string) Result {
	return Err(http.StatusBadRequest, userMsg, internalMsg)
}

// NotFound builds a 404 Result.
func NotFound(userMsg string, internalMsg string) Result {
	return Err(http.StatusNotFound, userMsg, internalMsg)
}

// Unauthorized builds a 401 Result.
func Unauthorized(userMsg string, internalMsg string) Result {
	return Err(http.StatusUnauthorized, userMsg, internalMsg)
}

// UnprocessableEntity builds a 422 Result, used for a grammar or token
// stream that is well-formed JSON but rejected by the normalization
// pipeline, table builder, or parser (§7 structured errors).
func UnprocessableEntity(userMsg string, internalMsg string) Result {
	return Err(http.StatusUnprocessableEntity, userMsg, internalMsg)
}

// InternalServerError builds a 500 Result.
func InternalServerError(internalMsg string) Result {
	return Err(http.StatusInternalServerError, "an internal server error occurred", internalMsg)
}

// WithHeader sets a response header to be written alongside the status
// line. Returns r for chaining.
func (r Result) WithHeader(name, value string) Result {
	r.hdrs = append(r.hdrs, [2]string{name, value})
	return r
}

// PrepareMarshaledResponse marshals r.resp to JSON ahead of time, so
// WriteResponse itself cannot fail partway through writing a status line.
func (r *Result) PrepareMarshaledResponse() error {
	if r.resp == nil {
		return nil
	}
	b, err := json.Marshal(r.resp)
	if err != nil {
		return err
	}
	r.respJSONBytes = b
	return nil
}

// WriteResponse writes r's status line, headers, and body to w. Call
// PrepareMarshaledResponse first; WriteResponse itself never returns an
// error, matching server/result.Result.WriteResponse's signature.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.respJSONBytes != nil {
		w.Header().Set("Content-Type", "application/json")
	}
	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}
	w.WriteHeader(r.Status)
	if r.respJSONBytes != nil {
		w.Write(r.respJSONBytes)
	}
}
