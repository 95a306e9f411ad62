package types

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// MessageResponse acknowledges mutations that return no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// SubmissionResponse acknowledges a public contact submission.
type SubmissionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
