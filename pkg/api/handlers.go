package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/haikal/sidekick/pkg/llm"
	"github.com/haikal/sidekick/pkg/prompt"
	"github.com/haikal/sidekick/pkg/session"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if !s.decode(w, r, &req) {
		return
	}

	id := s.store.Create(req.FileName, req.FullFile)
	s.metrics.SessionsTotal.Inc()

	s.writeJSON(w, http.StatusOK, StartSessionResponse{SessionID: id})
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req SnippetRequest
	if !s.decode(w, r, &req) {
		return
	}

	sess, ok := s.lookup(w, req.SessionID)
	if !ok {
		return
	}

	p := prompt.Explain(prompt.ExplainInput{
		Snippet:  req.Snippet,
		Question: req.Question,
		Language: req.ProgrammingLang,
		FullFile: sess.FullFile,
		History:  sess.History,
	})

	explanation, ok := s.generate(w, r, p, s.options.Timeout)
	if !ok {
		return
	}

	s.recordExchange(req.SessionID, req.Snippet, explanation)
	s.writeJSON(w, http.StatusOK, ExplainResponse{Explanation: explanation})
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	var req SnippetRequest
	if !s.decode(w, r, &req) {
		return
	}

	if _, ok := s.lookup(w, req.SessionID); !ok {
		return
	}

	p := prompt.Fix(prompt.FixInput{
		Snippet:  req.Snippet,
		Language: req.ProgrammingLang,
	})

	fixed, ok := s.generate(w, r, p, s.options.LongTimeout)
	if !ok {
		return
	}

	s.recordExchange(req.SessionID, req.Snippet, fixed)
	s.writeJSON(w, http.StatusOK, FixResponse{FixedCode: fixed})
}

func (s *Server) handleMethodCompletion(w http.ResponseWriter, r *http.Request) {
	var req SnippetRequest
	if !s.decode(w, r, &req) {
		return
	}

	sess, ok := s.lookup(w, req.SessionID)
	if !ok {
		return
	}

	p := prompt.Completion(prompt.CompletionInput{
		Snippet:  req.Snippet,
		Language: req.ProgrammingLang,
		FullFile: sess.FullFile,
	})

	completed, ok := s.generate(w, r, p, s.options.LongTimeout)
	if !ok {
		return
	}

	s.recordExchange(req.SessionID, req.Snippet, completed)
	s.writeJSON(w, http.StatusOK, CompletionResponse{CompletedMethod: completed})
}

func (s *Server) handleFullExplanation(w http.ResponseWriter, r *http.Request) {
	var req FullExplanationRequest
	if !s.decode(w, r, &req) {
		return
	}

	transcript, err := s.store.AssistantTranscript(req.SessionID)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	s.writeJSON(w, http.StatusOK, FullExplanationResponse{FullExplanation: transcript})
}

// decode parses the JSON request body, replying 400 on failure and 405
// on non-POST methods. Returns false when the request was already
// answered.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}

	return true
}

// lookup fetches the session, replying 404 when it does not exist.
func (s *Server) lookup(w http.ResponseWriter, sessionID string) (*session.Session, bool) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "Session not found")
		} else {
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return sess, true
}

// generate performs the blocking upstream call, replying 500 with the
// underlying message on any failure. No state is mutated on failure.
func (s *Server) generate(w http.ResponseWriter, r *http.Request, promptText string, timeout time.Duration) (string, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	start := time.Now()
	answer, err := s.provider.Generate(ctx, promptText)
	duration := time.Since(start)

	if err != nil {
		kind := "unknown"
		var upErr *llm.UpstreamError
		if errors.As(err, &upErr) {
			kind = string(upErr.Kind)
		}
		s.metrics.ObserveUpstreamCall(s.provider.Provider(), duration, kind)

		s.logger.Error().
			Err(err).
			Str("kind", kind).
			Dur("duration", duration).
			Msg("Upstream call failed")

		s.writeError(w, http.StatusInternalServerError, err.Error())
		return "", false
	}

	s.metrics.ObserveUpstreamCall(s.provider.Provider(), duration, "")
	return answer, true
}

// recordExchange appends the user snippet and the assistant answer to
// the session history, in that order.
func (s *Server) recordExchange(sessionID, snippet, answer string) {
	if err := s.store.AppendTurn(sessionID, session.RoleUser, snippet); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to record user turn")
		return
	}
	s.metrics.TurnsTotal.WithLabelValues(session.RoleUser).Inc()

	if err := s.store.AppendTurn(sessionID, session.RoleAssistant, answer); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to record assistant turn")
		return
	}
	s.metrics.TurnsTotal.WithLabelValues(session.RoleAssistant).Inc()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, ErrorResponse{Detail: detail})
}
