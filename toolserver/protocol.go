// Package toolserver exposes the gateway-backed tools over a websocket
// JSON-RPC 2.0 connection: initialize, tools/list, and tools/call. The agent
// backend dials in with the Client; the server side owns the gateway
// credentials so the agent process never sees them.
package toolserver

import "encoding/json"

const protocolVersion = "2024-11-05"

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// toolDescriptor is the wire form of a tool definition in tools/list.
type toolDescriptor struct {
	Name                 string                 `json:"name"`
	Description          string                 `json:"description"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	RequiresConfirmation bool                   `json:"requiresConfirmation,omitempty"`
}
