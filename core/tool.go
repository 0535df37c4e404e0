package core

// ToolDefinition describes a tool exposed to the model and served by the
// remote tool server. InputSchema is a JSON Schema object built with the
// helpers in the tools package.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]interface{}

	// RequiresConfirmation marks side-effecting tools that must pass through
	// the human-in-the-loop confirmation node before execution.
	RequiresConfirmation bool
}

// TextContent is a single text block in a tool call result.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolCallResult is the wire shape a tool server returns for one call.
type ToolCallResult struct {
	Content []TextContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// Text concatenates all text blocks of the result.
func (r *ToolCallResult) Text() string {
	var out string
	for _, c := range r.Content {
		if c.Type == "text" {
			out += c.Text
		}
	}
	return out
}
