package warpcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/dctransfer/dctransfer/common"
)

type Client struct {
	mu     *sync.RWMutex
	d      *Dispatcher
	conn   net.Conn
	listen bool
}

// dialFunc is overridden in tests to mock the network layer.
var dialFunc = net.Dial

// ensureDaemonFunc is overridden in tests to skip daemon auto-spawn.
var ensureDaemonFunc = ensureDaemon

// dialURIFunc is overridden in tests to mock explicit-URI dialing.
var dialURIFunc = dialURI

// NewClient connects to the daemon using the Unix socket / named pipe / TCP
// transport selected by the WARPDL_SOCKET_PATH, WARPDL_TCP_PORT and
// WARPDL_FORCE_TCP environment variables, starting the daemon if it is not
// already running.
func NewClient() (*Client, error) {
	if err := ensureDaemonFunc(); err != nil {
		return nil, fmt.Errorf("error connecting to server: %s", err.Error())
	}
	conn, err := dial()
	if err != nil {
		return nil, fmt.Errorf("error connecting to server: %s", err.Error())
	}
	return newClientFromConn(conn), nil
}

// NewClientWithURI connects to the daemon at an explicit URI
// (unix:///path, tcp://host:port or pipe://name), skipping daemon auto-spawn
// since an explicit address implies the daemon is expected to already exist.
func NewClientWithURI(rawURI string) (*Client, error) {
	uri, err := ParseDaemonURI(rawURI)
	if err != nil {
		return nil, err
	}
	conn, err := dialURIFunc(uri)
	if err != nil {
		return nil, fmt.Errorf("error connecting to server: %s", err.Error())
	}
	return newClientFromConn(conn), nil
}

func newClientFromConn(conn net.Conn) *Client {
	return &Client{
		conn: conn,
		mu:   &sync.RWMutex{},
		d:    &Dispatcher{Handlers: make(map[common.UpdateType][]Handler)},
	}
}

// AddHandler registers a handler to be invoked for updates of the given type
// received while Listen is running.
func (c *Client) AddHandler(t common.UpdateType, h Handler) {
	c.d.AddHandler(t, h)
}

// RemoveHandler unregisters every handler previously registered for t.
func (c *Client) RemoveHandler(t common.UpdateType) {
	c.d.RemoveHandler(t)
}

func (c *Client) Listen() (err error) {
	defer c.conn.Close()
	c.listen = true
	defer func() { c.listen = false }()
	for {
		c.mu.RLock()
		var buf []byte
		buf, err = read(c.conn)
		if err != nil {
			c.mu.RUnlock()
			err = fmt.Errorf("error reading: %s", err.Error())
			return
		}
		err = c.d.process(buf)
		if err != nil {
			c.mu.RUnlock()
			if err == ErrDisconnect {
				err = nil
				break
			}
			err = fmt.Errorf("error processing: %s", err.Error())
			return
		}
		c.mu.RUnlock()
	}
	return
}

// Disconnect stops Listen's read loop and closes the underlying connection.
func (c *Client) Disconnect() {
	c.listen = false
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Close closes the client's connection to the daemon.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) invoke(method common.UpdateType, message any) (json.RawMessage, error) {
	// block updates listener while invoking a method
	// to retrieve the message update here instead
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, err := json.Marshal(&Request{
		Method:  method,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	err = write(c.conn, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	buf, err = read(c.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %s", method, err.Error())
	}
	var res Response
	err = json.Unmarshal(buf, &res)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %s", method, err.Error())
	}
	if !res.Ok {
		return nil, errors.New(res.Error)
	}
	return res.Update.Message, nil
}
