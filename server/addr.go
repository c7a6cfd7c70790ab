package server

import (
	"fmt"
	"net"
	"os"
)

func genericInterface(host string) bool {
	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
}

// PublicURL returns the externally reachable url of the listen address
func PublicURL(listen string) (string, error) {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "", err
	}

	if host == "" || genericInterface(host) {
		if host, err = os.Hostname(); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("http://%s", net.JoinHostPort(host, port)), nil
}
