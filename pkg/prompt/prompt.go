// Package prompt assembles the text prompts sent to the upstream model.
// Field order and wording match what the editor plugin has been tuned
// against, so changes here change answer quality.
package prompt

import (
	"fmt"
	"strings"

	"github.com/haikal/sidekick/pkg/session"
)

// ExplainInput holds the fields interpolated into an explain prompt.
type ExplainInput struct {
	Snippet  string
	Question string
	Language string
	FullFile string
	History  []session.Turn
}

// Explain builds the prompt for the explain operation. The optional
// language hint goes first, then the instruction and snippet, the
// optional question, the full file, and finally prior history turns.
func Explain(in ExplainInput) string {
	var b strings.Builder

	if in.Language != "" {
		fmt.Fprintf(&b, "Programming language: %s\n", in.Language)
	}
	fmt.Fprintf(&b, "Explain the following code snippet in context of the full file in concisely:\n%s\n", in.Snippet)
	if in.Question != "" {
		fmt.Fprintf(&b, "Question: %s\n", in.Question)
	}
	fmt.Fprintf(&b, "\nFull file:\n%s\n\n", in.FullFile)

	for _, turn := range in.History {
		fmt.Fprintf(&b, "%s:\n%s\n", turn.Role, turn.Content)
	}

	return b.String()
}

// FixInput holds the fields interpolated into a fix prompt.
type FixInput struct {
	Snippet  string
	Language string
}

// Fix builds the prompt for the fix operation. Only the snippet is
// included; the stored file and history stay out of this one.
func Fix(in FixInput) string {
	var b strings.Builder

	if in.Language != "" {
		fmt.Fprintf(&b, "Programming language: %s\n\n", in.Language)
	}
	fmt.Fprintf(&b, "Fix any bugs in the following code snippet:\n\n```\n%s\n```\n\n", in.Snippet)
	b.WriteString("Return only the corrected code snippet.")

	return b.String()
}

// CompletionInput holds the fields interpolated into a completion prompt.
type CompletionInput struct {
	Snippet  string
	Language string
	FullFile string
}

// Completion builds the prompt for the method completion operation.
func Completion(in CompletionInput) string {
	var b strings.Builder

	if in.Language != "" {
		fmt.Fprintf(&b, "Programming language: %s\n", in.Language)
	}
	fmt.Fprintf(&b, "Complete the following method within the context of the code:\n%s\n\nFull context:\n%s\n", in.Snippet, in.FullFile)
	b.WriteString("\nReturn only the completed method implementation.")

	return b.String()
}
