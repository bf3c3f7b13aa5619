package api

// StartSessionRequest is the payload for /start_session.
type StartSessionRequest struct {
	FileName string `json:"file_name"`
	FullFile string `json:"full_file"`
}

// StartSessionResponse is the reply for /start_session.
type StartSessionResponse struct {
	SessionID string `json:"session_id"`
}

// SnippetRequest is the shared payload for the snippet operations.
// Question and ProgrammingLang are optional; absent values simply leave
// their lines out of the prompt.
type SnippetRequest struct {
	SessionID       string `json:"session_id"`
	Snippet         string `json:"snippet"`
	Question        string `json:"question,omitempty"`
	ProgrammingLang string `json:"programming_lang,omitempty"`
}

// ExplainResponse is the reply for /explain.
type ExplainResponse struct {
	Explanation string `json:"explanation"`
}

// FixResponse is the reply for /fix.
type FixResponse struct {
	FixedCode string `json:"fixed_code"`
}

// CompletionResponse is the reply for /method_completion.
type CompletionResponse struct {
	CompletedMethod string `json:"completed_method"`
}

// FullExplanationRequest is the payload for /get_full_explanation.
type FullExplanationRequest struct {
	SessionID string `json:"session_id"`
}

// FullExplanationResponse is the reply for /get_full_explanation.
type FullExplanationResponse struct {
	FullExplanation string `json:"full_explanation"`
}

// ErrorResponse is the error reply body for every endpoint.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
