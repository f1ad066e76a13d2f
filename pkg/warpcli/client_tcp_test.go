package warpcli

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dctransfer/dctransfer/common"
)

// TestClientServer_TCPRoundtrip verifies full client-server communication over TCP.
// This test simulates a daemon server listening on TCP and a client connecting to it.
func TestClientServer_TCPRoundtrip(t *testing.T) {
	// Create TCP listener on dynamic port
	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("failed to create TCP listener: %v", err)
	}
	defer listener.Close()

	// Extract the dynamically assigned port
	port := listener.Addr().(*net.TCPAddr).Port
	t.Logf("TCP listener started on port %d", port)

	// Set environment variables to force TCP connection
	t.Setenv("WARPDL_TCP_PORT", fmt.Sprintf("%d", port))
	t.Setenv("WARPDL_FORCE_TCP", "1")

	// Mock ensureDaemonFunc to skip daemon spawning
	oldEnsure := ensureDaemonFunc
	ensureDaemonFunc = func() error { return nil }
	defer func() { ensureDaemonFunc = oldEnsure }()

	// Mock dialFunc to connect via TCP instead of Unix socket
	oldDial := dialFunc
	dialFunc = func(network, address string) (net.Conn, error) {
		// When WARPDL_FORCE_TCP=1, dial TCP instead
		if forceTCP() {
			return net.Dial("tcp", tcpAddress())
		}
		return net.Dial(network, address)
	}
	defer func() { dialFunc = oldDial }()

	// Start server goroutine to handle connections
	serverReady := make(chan struct{})
	serverErr := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		close(serverReady)

		conn, err := listener.Accept()
		if err != nil {
			serverErr <- fmt.Errorf("accept failed: %w", err)
			return
		}
		defer conn.Close()

		// Read request
		reqBytes, err := read(conn)
		if err != nil {
			serverErr <- fmt.Errorf("read request failed: %w", err)
			return
		}

		var req Request
		if err := json.Unmarshal(reqBytes, &req); err != nil {
			serverErr <- fmt.Errorf("unmarshal request failed: %w", err)
			return
		}

		// Echo response based on request method
		var respMsg json.RawMessage
		switch req.Method {
		case common.UPDATE_QUEUE_ADD:
			respMsg, _ = json.Marshal(common.QueueAddResponse{DownloadId: "tcp-test-id"})
		case common.UPDATE_QUEUE_LIST:
			respMsg, _ = json.Marshal(common.QueueListResponse{
				Bundles: []*common.BundleInfo{
					{DownloadId: "test-hash-1", Target: "test-file-1.bin"},
				},
			})
		default:
			respMsg = json.RawMessage(`{}`)
		}

		resp := Response{
			Ok: true,
			Update: &Update{
				Type:    req.Method,
				Message: respMsg,
			},
		}

		respBytes, _ := json.Marshal(resp)
		if err := write(conn, respBytes); err != nil {
			serverErr <- fmt.Errorf("write response failed: %w", err)
			return
		}
	}()

	// Wait for server to be ready
	<-serverReady

	// Create client (should connect via TCP)
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	defer client.Close()

	// Test AddFile request
	addResp, err := client.AddFile("/tmp/test-file.bin", 100, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", nil)
	if err != nil {
		t.Fatalf("AddFile() failed: %v", err)
	}

	if addResp.DownloadId != "tcp-test-id" {
		t.Errorf("unexpected DownloadId: got %q, want %q", addResp.DownloadId, "tcp-test-id")
	}

	// Wait for server goroutine to finish
	wg.Wait()

	// Check for server errors
	select {
	case err := <-serverErr:
		t.Fatalf("server error: %v", err)
	default:
	}
}

// TestClientServer_FallbackScenario verifies TCP fallback when Unix socket is unavailable.
// This simulates the scenario where the Unix socket path doesn't exist or is inaccessible,
// and the client falls back to TCP.
func TestClientServer_FallbackScenario(t *testing.T) {
	// Create TCP listener on dynamic port
	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("failed to create TCP listener: %v", err)
	}
	defer listener.Close()

	// Extract the dynamically assigned port
	port := listener.Addr().(*net.TCPAddr).Port
	t.Logf("TCP listener started on port %d", port)

	// Set Unix socket path to non-existent location
	t.Setenv("WARPDL_SOCKET_PATH", "/tmp/nonexistent-warpdl-test-socket-12345.sock")
	// Set TCP port to the test server
	t.Setenv("WARPDL_TCP_PORT", fmt.Sprintf("%d", port))

	// Mock ensureDaemonFunc to return nil (simulate daemon is "running" on TCP)
	oldEnsure := ensureDaemonFunc
	ensureDaemonFunc = func() error { return nil }
	defer func() { ensureDaemonFunc = oldEnsure }()

	// Mock dialFunc to implement fallback logic:
	// 1. Try Unix socket first (will fail)
	// 2. Fall back to TCP
	oldDial := dialFunc
	dialFunc = func(network, address string) (net.Conn, error) {
		// First attempt: Unix socket (should fail)
		if network == "unix" {
			conn, err := net.Dial(network, address)
			if err != nil {
				// Fallback to TCP
				debugLog("Unix socket dial failed, falling back to TCP: %v", err)
				return net.Dial("tcp", tcpAddress())
			}
			return conn, nil
		}
		return net.Dial(network, address)
	}
	defer func() { dialFunc = oldDial }()

	// Start server goroutine
	serverReady := make(chan struct{})
	serverErr := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		close(serverReady)

		conn, err := listener.Accept()
		if err != nil {
			serverErr <- fmt.Errorf("accept failed: %w", err)
			return
		}
		defer conn.Close()

		// Read request
		reqBytes, err := read(conn)
		if err != nil {
			serverErr <- fmt.Errorf("read request failed: %w", err)
			return
		}

		var req Request
		if err := json.Unmarshal(reqBytes, &req); err != nil {
			serverErr <- fmt.Errorf("unmarshal request failed: %w", err)
			return
		}

		// Create response
		var respMsg json.RawMessage
		if req.Method == common.UPDATE_QUEUE_LIST {
			respMsg, _ = json.Marshal(common.QueueListResponse{
				Bundles: []*common.BundleInfo{
					{DownloadId: "fallback-1", Target: "fallback-file.bin"},
				},
			})
		} else {
			respMsg = json.RawMessage(`{}`)
		}

		resp := Response{
			Ok: true,
			Update: &Update{
				Type:    req.Method,
				Message: respMsg,
			},
		}

		respBytes, _ := json.Marshal(resp)
		if err := write(conn, respBytes); err != nil {
			serverErr <- fmt.Errorf("write response failed: %w", err)
			return
		}
	}()

	// Wait for server to be ready
	<-serverReady

	// Give server a moment to stabilize
	time.Sleep(50 * time.Millisecond)

	// Create client (should fallback to TCP)
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	defer client.Close()

	// Test QueueList request to verify TCP connection works
	listResp, err := client.QueueList()
	if err != nil {
		t.Fatalf("QueueList() failed: %v", err)
	}

	if listResp.Bundles == nil || len(listResp.Bundles) == 0 {
		t.Fatal("expected non-empty list response")
	}
	if listResp.Bundles[0].DownloadId != "fallback-1" {
		t.Errorf("unexpected DownloadId: got %q, want %q", listResp.Bundles[0].DownloadId, "fallback-1")
	}

	// Wait for server goroutine to finish
	wg.Wait()

	// Check for server errors
	select {
	case err := <-serverErr:
		t.Fatalf("server error: %v", err)
	default:
	}
}

// TestClientServer_TCPStatusUpdates verifies that bundle status push updates
// work over TCP, the same mechanism attachHandler uses to notify attached
// clients of pause/resume/priority changes.
func TestClientServer_TCPStatusUpdates(t *testing.T) {
	// Create TCP listener on dynamic port
	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("failed to create TCP listener: %v", err)
	}
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	t.Setenv("WARPDL_TCP_PORT", fmt.Sprintf("%d", port))
	t.Setenv("WARPDL_FORCE_TCP", "1")

	// Mock functions
	oldEnsure := ensureDaemonFunc
	ensureDaemonFunc = func() error { return nil }
	defer func() { ensureDaemonFunc = oldEnsure }()

	oldDial := dialFunc
	dialFunc = func(network, address string) (net.Conn, error) {
		if forceTCP() {
			return net.Dial("tcp", tcpAddress())
		}
		return net.Dial(network, address)
	}
	defer func() { dialFunc = oldDial }()

	// Start server
	serverReady := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		close(serverReady)

		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		// Send a running status update
		running, _ := json.Marshal(common.BundleInfo{DownloadId: "id", Status: "running", Percentage: 50})
		resp := Response{
			Ok:     true,
			Update: &Update{Type: common.UPDATE_QUEUE_STATUS, Message: running},
		}
		respBytes, _ := json.Marshal(resp)
		_ = write(conn, respBytes)

		// Send a completed status update
		time.Sleep(100 * time.Millisecond)
		completed, _ := json.Marshal(common.BundleInfo{DownloadId: "id", Status: "completed", Percentage: 100})
		resp.Update.Message = completed
		respBytes, _ = json.Marshal(resp)
		_ = write(conn, respBytes)
	}()

	<-serverReady

	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}

	var updates []common.BundleInfo
	client.AddHandler(common.UPDATE_QUEUE_STATUS, HandlerFunc(func(b json.RawMessage) error {
		var info common.BundleInfo
		if err := json.Unmarshal(b, &info); err != nil {
			return err
		}
		updates = append(updates, info)
		if info.Status == "completed" {
			return ErrDisconnect
		}
		return nil
	}))

	// Start listening (blocks until ErrDisconnect)
	if err := client.Listen(); err != nil {
		t.Fatalf("Listen() failed: %v", err)
	}

	wg.Wait()

	if len(updates) != 2 {
		t.Fatalf("expected 2 status updates, got %d", len(updates))
	}
	if updates[0].Status != "running" || updates[0].Percentage != 50 {
		t.Errorf("unexpected first update: %+v", updates[0])
	}
	if updates[1].Status != "completed" || updates[1].Percentage != 100 {
		t.Errorf("unexpected second update: %+v", updates[1])
	}
}
