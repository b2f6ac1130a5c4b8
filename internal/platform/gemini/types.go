package gemini

// promptData represents the data passed to the prompt template
type promptData struct {
	SourceText string
}

// ResponseSchema represents the expected structure of the model's JSON
// response.
type ResponseSchema struct {
	// Cards is the array of flashcard proposals generated from the
	// source text
	Cards []CardSchema `json:"cards"`
}

// CardSchema represents a single flashcard in the API response
type CardSchema struct {
	// Front is the question or prompt side of the flashcard
	Front string `json:"front"`

	// Back is the answer side of the flashcard
	Back string `json:"back"`

	// Context is optional supplementary explanation
	Context string `json:"context,omitempty"`

	// Tags are optional categories or labels for the flashcard
	Tags []string `json:"tags,omitempty"`
}
