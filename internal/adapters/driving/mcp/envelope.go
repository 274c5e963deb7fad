package mcp

import (
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the single result shape of every tool.
type Envelope struct {
	Status string     `json:"status" jsonschema:"success or error"`
	Data   any        `json:"data,omitempty" jsonschema:"the tool result when status is success"`
	Error  *ErrorBody `json:"error,omitempty" jsonschema:"the failure when status is error"`
}

// ErrorBody describes a failed tool call.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Operation string `json:"operation,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

// success wraps a tool result.
func success(data any) (*mcp.CallToolResult, Envelope, error) {
	return nil, Envelope{Status: StatusSuccess, Data: data}, nil
}

// failure converts err into an error envelope. The call itself succeeds at
// the protocol level; IsError tells the client the tool failed.
func failure(op string, err error) (*mcp.CallToolResult, Envelope, error) {
	return &mcp.CallToolResult{IsError: true}, Envelope{Status: StatusError, Error: errorBody(op, err)}, nil
}

// errorBody maps err onto the stable error codes. The operation defaults to
// the tool name when err carries none.
func errorBody(op string, err error) *ErrorBody {
	body := &ErrorBody{
		Code:      domain.ErrorCode(err),
		Message:   err.Error(),
		Operation: op,
	}
	var opErr *domain.OperationError
	if errors.As(err, &opErr) {
		if opErr.Op != "" {
			body.Operation = opErr.Op
		}
		body.Parameter = opErr.Param
	}
	return body
}

// invalidInput reports a tool argument the adapter itself rejected.
func invalidInput(op, param, value, reason string) (*mcp.CallToolResult, Envelope, error) {
	return failure(op, domain.InvalidArgument(op, param, value, reason))
}
