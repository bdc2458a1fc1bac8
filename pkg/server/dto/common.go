package dto

import (
	"errors"
	"strings"
)

// Result is the generic API envelope.
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data interface{}) Result {
	return Result{Success: true, Data: data}
}

// Fail wraps an error message in a failure envelope.
func Fail(msg string) Result {
	return Result{Success: false, Error: msg}
}

// QueryRequest asks for a boolean search expression.
type QueryRequest struct {
	Text        string `json:"text" binding:"required"`
	UseConcepts bool   `json:"use_concepts"`
}

// Validate performs validation on QueryRequest.
func (r *QueryRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text cannot be empty")
	}
	return nil
}

// ValidateNodeRequest records a controlled-vocabulary identifier on a node.
type ValidateNodeRequest struct {
	CUI string `json:"cui" binding:"required"`
}

// Validate performs validation on ValidateNodeRequest.
func (r *ValidateNodeRequest) Validate() error {
	if strings.TrimSpace(r.CUI) == "" {
		return errors.New("cui cannot be empty")
	}
	return nil
}

// ExpandRequest triggers expansion cycles.
type ExpandRequest struct {
	// Cycles limits how many cycles to run; 0 runs until the configured
	// maximum or exhaustion.
	Cycles int `json:"cycles"`
}
