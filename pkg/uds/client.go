package uds

import "net"

// Dial connects to the Unix domain socket at path.
func Dial(path string) (*net.UnixConn, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	return net.DialUnix(unixNetwork, nil, &net.UnixAddr{Name: path, Net: unixNetwork})
}
