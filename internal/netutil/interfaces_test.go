package netutil

import (
	"bytes"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubInterfaces(t *testing.T, ifaces []net.Interface, addrs map[string][]net.Addr) {
	t.Helper()

	origLister, origAddrs := interfaceLister, interfaceAddrs
	interfaceLister = func() ([]net.Interface, error) { return ifaces, nil }
	interfaceAddrs = func(iface net.Interface) ([]net.Addr, error) { return addrs[iface.Name], nil }
	t.Cleanup(func() {
		interfaceLister, interfaceAddrs = origLister, origAddrs
	})
}

func ipv4Addr(a, b, c, d byte) net.Addr {
	return &net.IPNet{IP: net.IPv4(a, b, c, d), Mask: net.CIDRMask(24, 32)}
}

func ipv6Addr(s string) net.Addr {
	return &net.IPNet{IP: net.ParseIP(s), Mask: net.CIDRMask(64, 128)}
}

func stubTwoInterfaces(t *testing.T) {
	t.Helper()
	stubInterfaces(t,
		[]net.Interface{
			{Name: "lo", Flags: net.FlagUp | net.FlagLoopback},
			{Name: "eth0", Flags: net.FlagUp},
			{Name: "wlan0", Flags: 0},
			{Name: "eth1", Flags: net.FlagUp},
		},
		map[string][]net.Addr{
			"lo":   {ipv4Addr(127, 0, 0, 1)},
			"eth0": {ipv4Addr(192, 168, 1, 10)},
			"eth1": {ipv4Addr(10, 0, 0, 7)},
		},
	)
}

func TestUsableInterfacesFilters(t *testing.T) {
	stubInterfaces(t,
		[]net.Interface{
			{Name: "lo", Flags: net.FlagUp | net.FlagLoopback},
			{Name: "eth0", Flags: net.FlagUp},
			{Name: "wlan0", Flags: 0}, // down
			{Name: "tun0", Flags: net.FlagUp},
		},
		map[string][]net.Addr{
			"lo":    {ipv4Addr(127, 0, 0, 1)},
			"eth0":  {ipv4Addr(192, 168, 1, 10)},
			"wlan0": {ipv4Addr(192, 168, 1, 11)},
			"tun0":  {ipv6Addr("fe80::1")}, // no IPv4
		},
	)

	ifaces, err := UsableInterfaces()
	require.NoError(t, err)
	require.Len(t, ifaces, 1)
	assert.Equal(t, "eth0", ifaces[0].Name)
	assert.Equal(t, net.IPv4(192, 168, 1, 10).To4(), ifaces[0].IP)
}

func TestResolveInterface(t *testing.T) {
	stubTwoInterfaces(t)

	ip, err := ResolveInterface("eth1")
	require.NoError(t, err)
	assert.Equal(t, net.IPv4(10, 0, 0, 7).To4(), ip)

	_, err = ResolveInterface("bond0")
	require.ErrorIs(t, err, ErrInterfaceNotFound)
}

func TestPromptSelectSingleInterfaceSkipsPrompt(t *testing.T) {
	stubInterfaces(t,
		[]net.Interface{{Name: "eth0", Flags: net.FlagUp}},
		map[string][]net.Addr{"eth0": {ipv4Addr(192, 168, 1, 10)}},
	)

	var out bytes.Buffer
	ip, err := PromptSelect(strings.NewReader(""), &out)
	require.NoError(t, err)
	assert.Equal(t, net.IPv4(192, 168, 1, 10).To4(), ip)
	assert.Empty(t, out.String())
}

func TestPromptSelectReadsPick(t *testing.T) {
	stubTwoInterfaces(t)

	var out bytes.Buffer
	ip, err := PromptSelect(strings.NewReader("2\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, net.IPv4(10, 0, 0, 7).To4(), ip)
	assert.Contains(t, out.String(), "1) eth0")
	assert.Contains(t, out.String(), "2) eth1")
}

func TestPromptSelectRejectsBadInput(t *testing.T) {
	stubTwoInterfaces(t)

	for _, input := range []string{"", "zero\n", "0\n", "3\n"} {
		var out bytes.Buffer
		_, err := PromptSelect(strings.NewReader(input), &out)
		assert.ErrorIs(t, err, ErrInterfaceNotFound, "input %q", input)
	}
}

func TestPromptSelectNoUsableInterfaces(t *testing.T) {
	stubInterfaces(t, nil, nil)

	var out bytes.Buffer
	_, err := PromptSelect(strings.NewReader("1\n"), &out)
	require.ErrorIs(t, err, ErrInterfaceNotFound)
}
