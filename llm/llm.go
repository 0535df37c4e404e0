// Package llm abstracts the chat model behind a single-turn interface. The
// conversation graph owns the loop; this package only performs one model call
// and converts between the wire message format and core messages.
package llm

import (
	"context"

	"github.com/kumusha/remitflow/core"
)

// ChatModel produces one assistant turn from the conversation so far. The
// returned message may carry tool calls for the caller to execute.
type ChatModel interface {
	Chat(ctx context.Context, system string, messages []core.Message, tools []core.ToolDefinition) (core.Message, error)
}
