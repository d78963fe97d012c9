// Package remote talks to the companion keyboard half.
package remote

// Poller refreshes the remote-owned columns.
//
// Poll writes one mask per remote column into cols and reports whether the
// transaction succeeded. On failure the contents of cols are undefined.
type Poller interface {
	Poll(cols []byte) bool
}

// Disconnected is a poller for builds without a remote half.
type Disconnected struct{}

func (Disconnected) Poll([]byte) bool { return false }
