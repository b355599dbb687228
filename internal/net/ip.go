package net

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
)

// LinkScheme prefixes share links, e.g. slideboard://192.168.1.20:8888.
const LinkScheme = "slideboard://"

// RelayPath is where the relay accepts websocket upgrades.
const RelayPath = "/ws/draw/"

var ErrBadLink = errors.New("invalid relay address")

// GetOutgoingIP finds the LAN address other devices should use to reach this
// host. No packets are sent; dialing UDP only selects a route.
func GetOutgoingIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return localIPFallback()
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

// localIPFallback is used on networks without a default route.
func localIPFallback() string {
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, address := range addrs {
			if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	slog.Warn("no suitable local IP found, share link will use loopback")
	return "127.0.0.1"
}

// ShareLink formats the address a relay on this host can be joined with.
func ShareLink(port int) string {
	return fmt.Sprintf("%s%s:%d", LinkScheme, GetOutgoingIP(), port)
}

func RelayURL(hostport string) string {
	return "ws://" + hostport + RelayPath
}

// ParseLink accepts a share link, a bare host:port or a full ws:// URL and
// returns the websocket URL to dial.
func ParseLink(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrBadLink
	}
	if strings.HasPrefix(s, "ws://") || strings.HasPrefix(s, "wss://") {
		u, err := url.Parse(s)
		if err != nil || u.Host == "" {
			return "", fmt.Errorf("%w: %q", ErrBadLink, s)
		}
		if u.Path == "" || u.Path == "/" {
			u.Path = RelayPath
		}
		return u.String(), nil
	}

	hostport := strings.TrimSuffix(strings.TrimPrefix(s, LinkScheme), "/")
	host, port, err := net.SplitHostPort(hostport)
	if err != nil || host == "" || port == "" {
		return "", fmt.Errorf("%w: %q", ErrBadLink, s)
	}
	return RelayURL(net.JoinHostPort(host, port)), nil
}
