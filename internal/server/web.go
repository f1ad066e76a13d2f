package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
	"github.com/dctransfer/dctransfer/pkg/queuecore"
)

// WebServer exposes the JSON-RPC control plane over two transports on one
// HTTP listener: a POST bridge at /jsonrpc for request/response calls, and a
// WebSocket upgrade at /jsonrpc/ws that also carries server-initiated push
// notifications (bundle added/removed, status updates) from RPCNotifier.
type WebServer struct {
	port int
	l    *log.Logger
	qm   *queuecore.QueueManager
	cm   *queuecore.ConnectionManager
	pool *Pool
	rpc  *RPCServer

	mu     sync.Mutex
	server *http.Server
}

// NewWebServer builds a WebServer bound to qm/cm for RPC dispatch. notifier
// may be nil, in which case WebServer creates its own.
func NewWebServer(l *log.Logger, qm *queuecore.QueueManager, pool *Pool, port int, cm *queuecore.ConnectionManager, notifier *RPCNotifier, cfg *RPCConfig) *WebServer {
	if notifier == nil {
		notifier = NewRPCNotifier(l)
	}
	return &WebServer{
		port: port,
		l:    l,
		qm:   qm,
		cm:   cm,
		pool: pool,
		rpc:  NewRPCServer(cfg, qm, notifier),
	}
}

func (s *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/jsonrpc", requireToken(s.rpc.secret, s.rpc.bridge))
	mux.Handle("/jsonrpc/ws", requireWSToken(s.rpc.secret, http.HandlerFunc(s.handleWebSocket)))
	return mux
}

// requireWSToken rejects WebSocket upgrade attempts lacking a valid bearer
// token before the protocol switch, returning a plain 401 (a WebSocket
// handshake can't carry a JSON-RPC error body).
func requireWSToken(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !validToken(secret, r.Header.Get("Authorization")) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *WebServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, nil)
	if err != nil {
		s.l.Println("websocket accept failed:", err)
		return
	}

	ch := &wsChannel{conn: conn, ctx: r.Context()}
	srv := jrpc2.NewServer(s.rpc.methods, &jrpc2.ServerOptions{AllowPush: true}).Start(ch)

	s.rpc.notifier.Register(srv)
	defer s.rpc.notifier.Unregister(srv)

	srv.Wait()
}

func (s *WebServer) addr() string {
	return fmt.Sprintf(":%d", s.port)
}

func (s *WebServer) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:    s.addr(),
		Handler: s.handler(),
	}
	srv := s.server
	s.mu.Unlock()

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil // Expected during shutdown
	}
	return err
}

// Shutdown gracefully stops the web server.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
