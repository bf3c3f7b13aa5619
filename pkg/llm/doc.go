// Package llm provides the upstream text-generation providers. The
// default provider speaks the Gemini generateContent REST API; Anthropic
// and OpenAI alternates are available through their official SDKs.
package llm
