// Package emulatortest provides an in-process fake of the functions
// emulator HTTP API. The real server is a separate project; this fake
// exists so the lifecycle controller and the CLI can be tested against the
// documented endpoints without it.
package emulatortest

import (
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Function mirrors the server-side description of a deployed function.
type Function struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Path     string         `json:"path"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Server implements the emulator control API over gin. DELETE / shuts the
// listener down, mimicking a graceful stop. Calls echo the received
// payload back so tests can assert on the outgoing bytes.
type Server struct {
	srv *http.Server
	lis net.Listener

	mu        sync.Mutex
	functions map[string]Function
	env       map[string]any
	lastCall  []byte
}

// New builds a fake server for addr ("host:port"). Env is what
// GET /?env=true reports.
func New(addr string, env map[string]any) *Server {
	if env == nil {
		env = map[string]any{}
	}
	s := &Server{
		functions: make(map[string]Function),
		env:       env,
	}
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.Use(gin.Recovery())
	g.GET("/", s.handleRoot)
	g.DELETE("/", s.handleShutdown)
	g.GET("/function/", s.handleList)
	g.DELETE("/function/", s.handleClear)
	g.PATCH("/function/", s.handlePrune)
	g.POST("/function/:name", s.handleDeploy)
	g.GET("/function/:name", s.handleDescribe)
	g.DELETE("/function/:name", s.handleUndeploy)
	// POST /{name} invokes a function; registered via NoRoute so the
	// param segment cannot collide with the static /function routes.
	g.NoRoute(s.handleCall)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           g,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.lis = lis
	go func() { _ = s.srv.Serve(lis) }()
	return nil
}

// Close releases the listener immediately.
func (s *Server) Close() error { return s.srv.Close() }

// Port returns the bound port; useful when the server was started on ":0".
func (s *Server) Port() int {
	return s.lis.Addr().(*net.TCPAddr).Port
}

// LastCall returns the body bytes of the most recent function invocation.
func (s *Server) LastCall() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCall
}

func (s *Server) handleRoot(c *gin.Context) {
	if c.Query("env") != "true" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.env)
}

func (s *Server) handleShutdown(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
	// Let the response flush before dropping the listener.
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = s.srv.Close()
	}()
}

func (s *Server) handleList(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.functions)
}

func (s *Server) handleClear(c *gin.Context) {
	s.mu.Lock()
	s.functions = make(map[string]Function)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handlePrune(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pruned := 0
	for name, fn := range s.functions {
		if _, err := os.Stat(fn.Path); err != nil {
			delete(s.functions, name)
			pruned++
		}
	}
	c.JSON(http.StatusOK, gin.H{"pruned": pruned})
}

func (s *Server) handleDeploy(c *gin.Context) {
	name := c.Param("name")
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path required"})
		return
	}
	typ := "HTTP"
	if c.Query("type") == "B" {
		typ = "BACKGROUND"
	}
	fn := Function{Name: name, Type: typ, Path: path}
	s.mu.Lock()
	s.functions[name] = fn
	s.mu.Unlock()
	c.JSON(http.StatusOK, fn)
}

func (s *Server) handleDescribe(c *gin.Context) {
	s.mu.Lock()
	fn, ok := s.functions[c.Param("name")]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "function not found: " + c.Param("name")})
		return
	}
	c.JSON(http.StatusOK, fn)
}

func (s *Server) handleUndeploy(c *gin.Context) {
	name := c.Param("name")
	s.mu.Lock()
	_, ok := s.functions[name]
	delete(s.functions, name)
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "function not found: " + name})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// handleCall serves POST /{name}: it echoes the request payload back,
// standing in for whatever the deployed function would return.
func (s *Server) handleCall(c *gin.Context) {
	name := strings.TrimPrefix(c.Request.URL.Path, "/")
	if c.Request.Method != http.MethodPost || name == "" || strings.Contains(name, "/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	s.mu.Lock()
	_, ok := s.functions[name]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "function not found: " + name})
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	s.lastCall = body
	s.mu.Unlock()
	if len(body) == 0 {
		body = []byte("null")
	}
	c.Data(http.StatusOK, "application/json", body)
}
