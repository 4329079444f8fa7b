package service

import "noteboard/internal/session"

// Result is what a form submission renders: an optional success flag, a
// human-readable message, field-level validation errors, and echoed input for
// redisplay. Success is a pointer because the observed contract sometimes
// omits the flag on failure instead of sending an explicit false.
type Result struct {
	Success *bool               `json:"success,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Data    any                 `json:"data,omitempty"`
}

// Outcome is the tagged variant every operation returns: either a Result to
// render, or a navigation. ClearSession tells the caller to revoke the
// session token and drop the cookie before redirecting.
type Outcome struct {
	Redirect     string
	Permanent    bool
	ClearSession bool
	Result       *Result
}

// Caller is the resolved identity of the request making the mutation. It is
// passed in explicitly; operations never re-derive it.
type Caller struct {
	Session *session.Session
	Token   string
}

func (c Caller) is(userID int64) bool {
	return c.Session != nil && c.Session.UserID == userID
}

func render(r Result) Outcome {
	return Outcome{Result: &r}
}

func boolPtr(b bool) *bool {
	return &b
}
