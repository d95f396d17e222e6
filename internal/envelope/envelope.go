// Package envelope renders operation results and faults into the JSON
// envelope shared by the HTTP and MCP surfaces. Every body carries "success".
package envelope

import (
	"encoding/json"
	"fmt"

	"github.com/marcus-qen/hragent/internal/fault"
)

// Failure is the body of every failed operation.
type Failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// FromFault renders f for the caller.
func FromFault(f fault.Fault) Failure {
	return Failure{
		Success: false,
		Error:   f.Code,
		Message: f.Message,
		Details: f.Details,
	}
}

// Success merges "success": true into the top level of payload, which must
// encode as a JSON object.
func Success(payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("payload is not a JSON object: %w", err)
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	fields["success"] = json.RawMessage("true")
	return json.Marshal(fields)
}
