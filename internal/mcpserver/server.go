// Package mcpserver exposes the HR operations as MCP tools for conversational
// agents. Sessions carry no credential: every tool call acts on behalf of the
// bearer token on the HTTP request that delivered it.
package mcpserver

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/marcus-qen/hragent/internal/auth"
	"github.com/marcus-qen/hragent/internal/fault"
	"github.com/marcus-qen/hragent/internal/hr"
	"github.com/marcus-qen/hragent/internal/workday"
)

// Version is injected from the build metadata.
var Version = "dev"

// MCPServer serves the HR tools over the Streamable HTTP transport.
type MCPServer struct {
	backend workday.ClientConfig
	logger  *zap.Logger
	server  *mcp.Server
	handler http.Handler
}

// New wires the MCP surface. backend is shared; every tool call builds its
// own request-scoped client from it.
func New(backend workday.ClientConfig, logger *zap.Logger) *MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &MCPServer{
		backend: backend,
		logger:  logger.Named("mcp"),
	}
	m.server = m.newServer()
	m.handler = mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return m.server
	}, nil)
	return m
}

// Server returns the MCP server holding the tool set.
func (s *MCPServer) Server() *mcp.Server {
	return s.server
}

func (s *MCPServer) newServer() *mcp.Server {
	implVersion := Version
	if implVersion == "" {
		implVersion = "dev"
	}
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "hragent",
		Version: implVersion,
	}, nil)
	registerTools(srv, &toolSet{
		newService: s.serviceFor,
		logger:     s.logger,
	})
	return srv
}

// serviceFor builds an HR service bound to the credential of the HTTP request
// carrying req. Calls that did not arrive over HTTP, or arrived without a
// bearer token, are rejected.
func (s *MCPServer) serviceFor(req *mcp.CallToolRequest) (*hr.Service, error) {
	var header string
	if req != nil && req.Extra != nil && req.Extra.Header != nil {
		header = req.Extra.Header.Get("Authorization")
	}
	token, ok := auth.BearerToken(header)
	if !ok {
		return nil, fault.ErrUnauthorized
	}
	return hr.NewService(workday.NewClient(s.backend, token), s.logger, hr.WithSurface("mcp")), nil
}

// Handler returns the HTTP transport handler mounted at /mcp. It is expected
// to sit behind auth.Middleware so tokenless requests never open a session.
func (s *MCPServer) Handler() http.Handler {
	if s == nil {
		return http.NotFoundHandler()
	}
	return s.handler
}
