// Package gemini implements the generation.Generator interface using
// Google's Gemini API.
package gemini
