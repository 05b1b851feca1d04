package e2e

import (
	"context"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mireadev/cso2go/internal/master"
)

func TestHolepunchEchoesObservedEndpoint(t *testing.T) {
	server, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- master.NewHolepunch("").Serve(ctx, server) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.Error("holepunch endpoint did not stop")
		}
	})

	client, err := net.DialUDP("udp", nil, server.LocalAddr().(*net.UDPAddr))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Write([]byte("ping"))
	require.NoError(t, err)

	reply := make([]byte, 16)
	require.NoError(t, client.SetReadDeadline(time.Now().Add(3*time.Second)))
	n, err := client.Read(reply)
	require.NoError(t, err)
	require.Equal(t, 6, n)

	assert.Equal(t, net.IPv4(127, 0, 0, 1).To4(), net.IP(reply[:4]))
	local := client.LocalAddr().(*net.UDPAddr)
	assert.Equal(t, uint16(local.Port), binary.LittleEndian.Uint16(reply[4:6]))
}
