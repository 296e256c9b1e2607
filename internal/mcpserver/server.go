// Package mcpserver exposes the root finders as MCP (Model Context Protocol)
// tools so AI assistants can solve, differentiate and evaluate expressions.
package mcpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	goroots "github.com/njchilds90/goroots"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Recorder persists solve runs. *history.Store satisfies it.
type Recorder interface {
	Save(ctx context.Context, req goroots.Request, res goroots.SolveResult, solveErr error) (string, error)
}

// Config wires the server's collaborators. Only Defaults is required; a nil
// Logger discards logs and a nil History disables persistence.
type Config struct {
	Defaults goroots.Options
	Logger   *zap.Logger
	History  Recorder
}

// Server is the MCP server for goroots.
type Server struct {
	cfg    Config
	log    *zap.Logger
	server *mcp.Server
}

// NewServer creates a new MCP server and registers its tools.
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.Defaults.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	impl := &mcp.Implementation{
		Name:    "goroots",
		Version: Version,
	}

	s := &Server{
		cfg:    cfg,
		log:    logger.Named("mcp"),
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()

	return s, nil
}

// MCP returns the underlying SDK server, for mounting on a custom transport.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Handler returns a streamable HTTP handler serving this server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("serving over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	s.log.Info("serving over http", zap.String("addr", addr))
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
