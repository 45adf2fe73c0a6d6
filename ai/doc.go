// Package ai defines the interfaces and configuration for the AI services
// used by profilematch: text embedding for semantic candidate search and
// bounded-context reasoning for explained match decisions.
//
// Implementations live in subpackages. The openai subpackage talks to any
// OpenAI-compatible API (Ollama, LocalAI, vLLM, OpenAI itself); the mock
// subpackage provides deterministic test doubles.
package ai
