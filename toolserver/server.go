package toolserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/kumusha/remitflow/config"
	"github.com/kumusha/remitflow/gateway"
	"github.com/kumusha/remitflow/knowledge"
	"github.com/kumusha/remitflow/remit"
	"github.com/kumusha/remitflow/tools"
	"github.com/kumusha/remitflow/wallet"
)

// Server serves the tool surface over websocket JSON-RPC.
type Server struct {
	cfg      *config.Config
	tokens   *gateway.TokenManager
	auth     *gateway.Authenticator
	pipeline *remit.Pipeline
	wallet   *wallet.Service
	kb       *knowledge.Base
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewServer creates a tool server over the given gateway services.
func NewServer(cfg *config.Config, tokens *gateway.TokenManager, auth *gateway.Authenticator,
	pipeline *remit.Pipeline, walletSvc *wallet.Service, kb *knowledge.Base, logger zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		tokens:   tokens,
		auth:     auth,
		pipeline: pipeline,
		wallet:   walletSvc,
		kb:       kb,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With().Str("component", "toolserver").Logger(),
	}
}

// Handler upgrades the request to a websocket and serves RPC until the peer
// disconnects. Requests on one connection are handled sequentially.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		s.logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("tool client connected")
		s.serve(r.Context(), conn)
	})
}

func (s *Server) serve(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn().Err(err).Msg("tool client read error")
			}
			return
		}

		var req rpcRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.write(conn, &rpcResponse{
				JSONRPC: "2.0",
				Error:   &rpcError{Code: codeParseError, Message: "invalid JSON-RPC request"},
			})
			continue
		}

		resp := s.handle(ctx, &req)
		if resp == nil {
			continue // notification
		}
		s.write(conn, resp)
	}
}

func (s *Server) write(conn *websocket.Conn, resp *rpcResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.logger.Warn().Err(err).Msg("tool client write error")
	}
}

func (s *Server) handle(ctx context.Context, req *rpcRequest) *rpcResponse {
	switch req.Method {
	case "initialize":
		return &rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: map[string]interface{}{
				"protocolVersion": protocolVersion,
				"serverInfo": map[string]string{
					"name":    "remitflow-tools",
					"version": "1.0.0",
				},
				"capabilities": map[string]interface{}{
					"tools": map[string]interface{}{},
				},
			},
		}

	case "notifications/initialized":
		return nil

	case "tools/list":
		defs := tools.Definitions()
		descriptors := make([]toolDescriptor, len(defs))
		for i, def := range defs {
			descriptors[i] = toolDescriptor{
				Name:                 def.Name,
				Description:          def.Description,
				InputSchema:          def.InputSchema,
				RequiresConfirmation: def.RequiresConfirmation,
			}
		}
		return &rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{"tools": descriptors},
		}

	case "tools/call":
		var params callParams
		if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
			return &rpcResponse{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error:   &rpcError{Code: codeInvalidParams, Message: "tools/call requires a name"},
			}
		}
		result := s.callTool(ctx, params.Name, params.Arguments)
		return &rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  result,
		}

	default:
		return &rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: codeMethodNotFound, Message: "unknown method " + req.Method},
		}
	}
}
