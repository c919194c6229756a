package gelf

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_SendsZapEntryAsGELF(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	w, err := New(conn.LocalAddr().String(), "formbuilder")
	require.NoError(t, err)
	defer w.Close()

	line := `{"level":"warn","ts":1700000000.5,"msg":"upload cleanup failed","path":"x.pdf","id":3}` + "\n"
	n, err := w.Write([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, len(line), n)

	buf := make([]byte, 4096)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	m, _, err := conn.ReadFrom(buf)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf[:m], &got))
	assert.Equal(t, "1.1", got["version"])
	assert.Equal(t, "upload cleanup failed", got["short_message"])
	assert.Equal(t, 4.0, got["level"])
	assert.Equal(t, 1700000000.5, got["timestamp"])
	assert.Equal(t, "x.pdf", got["_path"])
	assert.Equal(t, 3.0, got["_field_id"])
	assert.Equal(t, "formbuilder", got["_service"])
}

func TestWriter_PlainLine(t *testing.T) {
	w := &Writer{hostname: "h", service: "formbuilder"}
	msg := w.message([]byte("not json\n"))
	assert.Equal(t, "not json", msg["short_message"])
	assert.Equal(t, 6, msg["level"])
}
