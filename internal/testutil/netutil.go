// Package testutil holds shared networking helpers for tests.
package testutil

import (
	"net"
	"testing"
)

// ListenTCP opens a TCP listener on a random loopback port. The listener is
// closed when the test finishes.
func ListenTCP(t testing.TB) (net.Listener, string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create TCP listener: %v", err)
	}

	t.Cleanup(func() {
		_ = ln.Close()
	})

	return ln, ln.Addr().String()
}

// TCPPair returns both ends of one loopback TCP connection. Both ends are
// closed when the test finishes.
func TCPPair(t testing.TB) (client, server net.Conn) {
	t.Helper()

	ln, _ := ListenTCP(t)

	type accepted struct {
		conn net.Conn
		err  error
	}
	ch := make(chan accepted, 1)
	go func() {
		conn, err := ln.Accept()
		ch <- accepted{conn: conn, err: err}
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("failed to dial test listener: %v", err)
	}
	a := <-ch
	if a.err != nil {
		t.Fatalf("failed to accept test connection: %v", a.err)
	}

	t.Cleanup(func() {
		_ = client.Close()
		_ = a.conn.Close()
	})

	return client, a.conn
}
