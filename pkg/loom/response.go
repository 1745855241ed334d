// Package loom provides the runtime surface consumed by loom-generated code.
package loom

// Response represents an HTTP response with a custom status code and body.
// Return *loom.Response from a handler when the default 200/JSON envelope is
// not enough.
type Response struct {
	// StatusCode is the HTTP status code to return
	StatusCode int `json:"-"`

	// Body is JSON-encoded and sent to the client
	Body interface{} `json:"body,omitempty"`
}

// NewResponse creates a Response with the given status code and body
func NewResponse(statusCode int, body interface{}) *Response {
	return &Response{StatusCode: statusCode, Body: body}
}

// OK creates a 200 OK response
func OK(body interface{}) *Response {
	return NewResponse(200, body)
}

// Created creates a 201 Created response
func Created(body interface{}) *Response {
	return NewResponse(201, body)
}

// NoContent creates a 204 No Content response
func NoContent() *Response {
	return NewResponse(204, nil)
}

// BadRequest creates a 400 Bad Request response with an error message
func BadRequest(message string) *Response {
	return NewResponse(400, map[string]string{"error": message})
}

// NotFound creates a 404 Not Found response with an error message
func NotFound(message string) *Response {
	return NewResponse(404, map[string]string{"error": message})
}

// InternalServerError creates a 500 response with an error message
func InternalServerError(message string) *Response {
	return NewResponse(500, map[string]string{"error": message})
}
