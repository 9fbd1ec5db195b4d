package core

import (
	"encoding/json"
	"fmt"
)

// Status classifies the outcome of an agent execution.
type Status string

const (
	// StatusSuccess means the agent produced a final answer.
	StatusSuccess Status = "success"
	// StatusError covers configuration, transport and validation failures.
	StatusError Status = "error"
	// StatusMaxIterations means the reasoning budget ran out before a final
	// answer. Distinct from StatusError so callers can tell "ran out of
	// budget" from "broke".
	StatusMaxIterations Status = "max_iterations_reached"
)

// Response is the single channel through which results propagate up the
// agent tree. Content is either plain text or a hydrated structured value;
// expected failures travel here as StatusError rather than as Go errors or
// panics across agent boundaries.
type Response struct {
	Status   Status         `json:"status"`
	Content  any            `json:"final_content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Success builds a success response.
func Success(content any) *Response {
	return &Response{Status: StatusSuccess, Content: content}
}

// Errorf builds an error response with a formatted cause.
func Errorf(format string, args ...any) *Response {
	return &Response{Status: StatusError, Content: fmt.Sprintf(format, args...)}
}

// MaxIterations builds a budget-exhausted response carrying a summary.
func MaxIterations(content any) *Response {
	return &Response{Status: StatusMaxIterations, Content: content}
}

// IsStructured reports whether Content is something other than plain text.
func (r *Response) IsStructured() bool {
	if r == nil || r.Content == nil {
		return false
	}
	_, isString := r.Content.(string)
	return !isString
}

// Text renders Content as a transcript-safe string: plain text verbatim,
// structured values as compact JSON, anything unserializable via fmt.
func (r *Response) Text() string {
	if r == nil || r.Content == nil {
		return ""
	}
	if s, ok := r.Content.(string); ok {
		return s
	}
	if data, err := json.Marshal(r.Content); err == nil {
		return string(data)
	}
	return fmt.Sprintf("%v", r.Content)
}

// WithMetadata attaches a metadata entry, allocating the map lazily.
func (r *Response) WithMetadata(key string, value any) *Response {
	if r.Metadata == nil {
		r.Metadata = map[string]any{}
	}
	r.Metadata[key] = value
	return r
}
