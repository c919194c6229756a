package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Writer sends GELF messages over UDP. It expects one JSON encoded zap entry per
// Write call, which is how a zapcore.Core with a JSON encoder writes.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New creates a GELF UDP writer connected to addr (e.g. "172.17.0.1:12201").
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service + "-server"
	}

	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

// Write implements io.Writer. Each call sends one GELF message.
func (w *Writer) Write(p []byte) (int, error) {
	payload, err := json.Marshal(w.message(p))
	if err != nil {
		return len(p), nil // don't fail the log call
	}

	// Fire-and-forget
	w.conn.Write(payload)
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer. UDP has nothing to flush.
func (w *Writer) Sync() error { return nil }

func (w *Writer) Close() error { return w.conn.Close() }

func (w *Writer) message(p []byte) map[string]any {
	line := strings.TrimRight(string(p), "\n")
	msg := map[string]any{
		"version":  "1.1",
		"host":     w.hostname,
		"level":    6, // Informational
		"_service": w.service,
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		msg["short_message"] = line
		msg["timestamp"] = float64(time.Now().UnixNano()) / 1e9
		return msg
	}

	short, _ := entry["msg"].(string)
	if short == "" {
		short = "-"
	}
	msg["short_message"] = short
	if lvl, ok := entry["level"].(string); ok {
		msg["level"] = syslogLevel(lvl)
	}
	if ts, ok := entry["ts"].(float64); ok {
		msg["timestamp"] = ts
	} else {
		msg["timestamp"] = float64(time.Now().UnixNano()) / 1e9
	}
	if st, ok := entry["stacktrace"].(string); ok {
		msg["full_message"] = st
	}
	for k, v := range entry {
		switch k {
		case "msg", "level", "ts", "stacktrace":
			continue
		case "id":
			// GELF reserves _id.
			k = "field_id"
		}
		msg["_"+k] = v
	}
	return msg
}

func syslogLevel(level string) int {
	switch level {
	case "debug":
		return 7
	case "info":
		return 6
	case "warn":
		return 4
	case "error":
		return 3
	case "dpanic", "panic":
		return 2
	case "fatal":
		return 1
	default:
		return 6
	}
}
