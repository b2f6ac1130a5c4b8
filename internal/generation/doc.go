// Package generation provides interfaces and implementations for
// turning scraped source text into proposed flashcards via an external
// AI/LLM service. It abstracts the details of the LLM integration
// (Gemini) so the rest of the application can request card drafts
// without coupling to a specific provider.
package generation
