package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/kumusha/remitflow/core"
)

// Client dials the tool server and issues JSON-RPC calls over one websocket
// connection. Calls are serialized; the server answers in order.
type Client struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	nextID int64
	logger zerolog.Logger
}

// Dial connects to the tool server and performs the initialize handshake.
func Dial(ctx context.Context, url string, logger zerolog.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial tool server %s: %w", url, err)
	}

	c := &Client{
		conn:   conn,
		logger: logger.With().Str("component", "toolclient").Logger(),
	}

	if _, err := c.call(ctx, "initialize", map[string]interface{}{
		"protocolVersion": protocolVersion,
		"clientInfo": map[string]string{
			"name":    "remitflow-agent",
			"version": "1.0.0",
		},
		"capabilities": map[string]interface{}{},
	}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize: %w", err)
	}

	c.notify("notifications/initialized")
	return c, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The context deadline bounds the whole exchange; a zero deadline
	// clears any deadline left by an earlier call.
	deadline, _ := ctx.Deadline()
	_ = c.conn.SetWriteDeadline(deadline)
	_ = c.conn.SetReadDeadline(deadline)

	c.nextID++
	req := rpcRequest{JSONRPC: "2.0", ID: c.nextID, Method: method}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal params: %w", err)
		}
		req.Params = data
	}

	if err := c.conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	var resp struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      int64           `json:"id"`
		Result  json.RawMessage `json:"result,omitempty"`
		Error   *rpcError       `json:"error,omitempty"`
	}
	if err := c.conn.ReadJSON(&resp); err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("RPC error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	return resp.Result, nil
}

func (c *Client) notify(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	req := rpcRequest{JSONRPC: "2.0", Method: method}
	if err := c.conn.WriteJSON(req); err != nil {
		c.logger.Warn().Err(err).Str("method", method).Msg("notify failed")
	}
}

// ListTools fetches the tool definitions the server exposes.
func (c *Client) ListTools(ctx context.Context) ([]core.ToolDefinition, error) {
	result, err := c.call(ctx, "tools/list", nil)
	if err != nil {
		return nil, err
	}

	var list struct {
		Tools []toolDescriptor `json:"tools"`
	}
	if err := json.Unmarshal(result, &list); err != nil {
		return nil, fmt.Errorf("unmarshal tool list: %w", err)
	}

	defs := make([]core.ToolDefinition, len(list.Tools))
	for i, t := range list.Tools {
		defs[i] = core.ToolDefinition{
			Name:                 t.Name,
			Description:          t.Description,
			InputSchema:          t.InputSchema,
			RequiresConfirmation: t.RequiresConfirmation,
		}
	}
	return defs, nil
}

// CallTool invokes one tool and returns its result. Tool failures come back
// as a result with IsError set, not as an error; errors mean the transport
// or protocol failed.
func (c *Client) CallTool(ctx context.Context, name string, args json.RawMessage) (*core.ToolCallResult, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	result, err := c.call(ctx, "tools/call", map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		return nil, err
	}

	var callResult core.ToolCallResult
	if err := json.Unmarshal(result, &callResult); err != nil {
		return nil, fmt.Errorf("unmarshal tool result: %w", err)
	}
	return &callResult, nil
}
