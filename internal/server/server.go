package server

import (
	"context"
	"log"
	"net"
	"sync"

	"github.com/dctransfer/dctransfer/common"
)

type Server struct {
	port    int
	log     *log.Logger
	pool    *Pool
	handler map[common.UpdateType]HandlerFunc

	mu sync.Mutex
	ln net.Listener
}

func NewServer(l *log.Logger, port int) *Server {
	return &Server{
		port:    port,
		log:     l,
		pool:    NewPool(l),
		handler: make(map[common.UpdateType]HandlerFunc),
	}
}

func (s *Server) RegisterHandler(method common.UpdateType, handler HandlerFunc) {
	s.handler[method] = handler
}

// Start listens on the daemon's control socket (Unix socket with TCP
// fallback) and serves connections until ctx is cancelled or Shutdown
// is called.
func (s *Server) Start(ctx context.Context) error {
	l, err := s.createListener()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ln = l
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			s.log.Println("Error accepting: ", err.Error())
			return err
		}
		go s.handleConnection(conn)
	}
}

// Shutdown closes the listening socket, unblocking any in-progress Accept.
// Safe to call multiple times and safe to call before Start.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	err := s.ln.Close()
	s.ln = nil
	return err
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	sc := NewSyncConn(conn)
	for {
		b, err := sc.Read()
		if err != nil {
			s.log.Println("Error reading:", err.Error())
			return
		}
		_ = s.handlerWrapper(sc, b)
	}
}

func (s *Server) handlerWrapper(conn *SyncConn, b []byte) error {
	req, err := ParseRequest(b)
	if err != nil {
		s.log.Println("Error parsing request:", err.Error())
		return err
	}
	rHandler, ok := s.handler[req.Method]
	if !ok {
		return conn.Write(CreateError("unknown method: " + string(req.Method)))
	}
	utype, msg, err := rHandler(conn, s.pool, req.Message)
	if err != nil {
		return conn.Write(InitError(err))
	}
	return conn.Write(MakeResult(utype, msg))
}
