package systemd

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NoSocket(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")

	sent, err := NewNotifier().Ready()
	assert.NoError(t, err)
	assert.False(t, sent)
}

func TestNotifier_SendsStates(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "notify.sock")
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: sock, Net: "unixgram"})
	require.NoError(t, err)
	defer conn.Close()

	t.Setenv("NOTIFY_SOCKET", sock)
	n := NewNotifier()

	read := func() string {
		buf := make([]byte, 256)
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		size, err := conn.Read(buf)
		require.NoError(t, err)
		return string(buf[:size])
	}

	sent, err := n.Ready()
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, "READY=1", read())

	_, err = n.Status("serving")
	require.NoError(t, err)
	assert.Equal(t, "STATUS=serving", read())

	_, err = n.Stopping()
	require.NoError(t, err)
	assert.Equal(t, "STOPPING=1", read())
}
