package systemd

import (
	"fmt"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier reports service state to systemd when running as a Type=notify unit.
// Outside systemd (no NOTIFY_SOCKET) every call is a no-op.
type Notifier struct {
	send func(unsetEnvironment bool, state string) (bool, error)
}

// NewNotifier creates a notifier backed by sd_notify
func NewNotifier() *Notifier {
	return &Notifier{send: daemon.SdNotify}
}

// Ready tells systemd the HTTP listener is about to accept connections
func (n *Notifier) Ready() (bool, error) {
	return n.notify(daemon.SdNotifyReady)
}

// Stopping tells systemd a graceful shutdown has started
func (n *Notifier) Stopping() (bool, error) {
	return n.notify(daemon.SdNotifyStopping)
}

// Status sets the free-form status line shown by systemctl status
func (n *Notifier) Status(status string) (bool, error) {
	return n.notify("STATUS=" + status)
}

func (n *Notifier) notify(state string) (bool, error) {
	sent, err := n.send(false, state)
	if err != nil {
		return false, fmt.Errorf("sd_notify %q: %w", state, err)
	}
	return sent, nil
}
