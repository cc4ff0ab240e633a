package models

// ContentUnit is one role-labeled piece of input content.
type ContentUnit struct {
	// Index is the position of the entry in the original input.
	Index int `json:"index"`
	// Role is the author label, e.g. "user" or "assistant".
	Role string `json:"role"`
	// Text is the trimmed content.
	Text string `json:"text"`
}
