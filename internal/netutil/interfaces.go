// Package netutil resolves the bind address for the listeners: either a
// named network interface or an interactive pick from the usable ones.
package netutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
)

// ErrInterfaceNotFound reports that no usable interface matched the request.
var ErrInterfaceNotFound = errors.New("network interface not found")

// Interface is one usable network interface: up, not loopback, with an IPv4
// address.
type Interface struct {
	Name string
	IP   net.IP
}

// interfaceLister and interfaceAddrs are swapped in tests.
var (
	interfaceLister = net.Interfaces
	interfaceAddrs  = func(iface net.Interface) ([]net.Addr, error) { return iface.Addrs() }
)

// UsableInterfaces lists interfaces the server can bind to.
func UsableInterfaces() ([]Interface, error) {
	ifaces, err := interfaceLister()
	if err != nil {
		return nil, fmt.Errorf("listing network interfaces: %w", err)
	}

	var out []Interface
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		ip, err := ipv4Of(iface)
		if err != nil {
			continue
		}
		out = append(out, Interface{Name: iface.Name, IP: ip})
	}
	return out, nil
}

// ResolveInterface returns the IPv4 address of the named interface.
func ResolveInterface(name string) (net.IP, error) {
	ifaces, err := UsableInterfaces()
	if err != nil {
		return nil, err
	}
	for _, iface := range ifaces {
		if iface.Name == name {
			return iface.IP, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInterfaceNotFound, name)
}

// PromptSelect prints the usable interfaces to w and reads a 1-based pick
// from r. A single usable interface is chosen without prompting.
func PromptSelect(r io.Reader, w io.Writer) (net.IP, error) {
	ifaces, err := UsableInterfaces()
	if err != nil {
		return nil, err
	}
	if len(ifaces) == 0 {
		return nil, fmt.Errorf("%w: no usable interfaces", ErrInterfaceNotFound)
	}
	if len(ifaces) == 1 {
		return ifaces[0].IP, nil
	}

	fmt.Fprintln(w, "Select the interface to listen on:")
	for i, iface := range ifaces {
		fmt.Fprintf(w, "  %d) %s (%s)\n", i+1, iface.Name, iface.IP)
	}
	fmt.Fprint(w, "> ")

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: no selection read", ErrInterfaceNotFound)
	}

	pick, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || pick < 1 || pick > len(ifaces) {
		return nil, fmt.Errorf("%w: invalid selection %q", ErrInterfaceNotFound, scanner.Text())
	}
	return ifaces[pick-1].IP, nil
}

func ipv4Of(iface net.Interface) (net.IP, error) {
	addrs, err := interfaceAddrs(iface)
	if err != nil {
		return nil, fmt.Errorf("reading addresses of %s: %w", iface.Name, err)
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if ip := ipNet.IP.To4(); ip != nil {
			return ip, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no IPv4 address", ErrInterfaceNotFound, iface.Name)
}
