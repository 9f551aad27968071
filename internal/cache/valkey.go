// Package cache is a thin client for a Valkey/Redis-compatible store,
// speaking RESP directly over pooled TCP connections. It keeps hot
// read models (alerts, asset state, statistics rollups) close to the
// dashboard; every entry expires, the cache is never authoritative.
package cache

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/config"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

const (
	dialTimeout  = 2 * time.Second
	ioTimeout    = 500 * time.Millisecond
	poolSize     = 4
	maxAttempts  = 2
	retryBackoff = 25 * time.Millisecond
)

// Valkey is a pooled RESP client. A nil *Valkey is a valid no-op
// client, returned when caching is disabled.
type Valkey struct {
	addr     string
	password string
	db       int

	idle   chan net.Conn
	logger *logger.Logger
}

// New connects to the configured store and verifies it with a ping so
// bad credentials or connectivity fail at startup, not first use.
// Returns (nil, nil) when caching is disabled.
func New(cfg config.CacheConfig, log *logger.Logger) (*Valkey, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	v := &Valkey{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		password: cfg.Password,
		db:       cfg.DB,
		idle:     make(chan net.Conn, poolSize),
		logger:   log.Component("cache"),
	}
	if err := v.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("cache unreachable at %s: %w", v.addr, err)
	}
	v.logger.Infof("Cache connected at %s", v.addr)
	return v, nil
}

// Addr reports the connected server, for status reporting.
func (v *Valkey) Addr() string {
	if v == nil {
		return ""
	}
	return v.addr
}

// Ping round-trips a PING command.
func (v *Valkey) Ping(ctx context.Context) error {
	if v == nil {
		return errors.New("cache disabled")
	}
	return v.do(ctx, func(w *wire) error {
		if err := w.command("PING"); err != nil {
			return err
		}
		typ, data, err := w.reply()
		if err != nil {
			return err
		}
		if typ != '+' || string(data) != "PONG" {
			return fmt.Errorf("unexpected PING reply: %s", data)
		}
		return nil
	})
}

// Get fetches raw bytes by key. Absent keys return ErrCacheMiss.
func (v *Valkey) Get(ctx context.Context, key string) ([]byte, error) {
	if v == nil {
		return nil, ErrCacheMiss
	}
	var payload []byte
	err := v.do(ctx, func(w *wire) error {
		if err := w.command("GET", key); err != nil {
			return err
		}
		typ, data, err := w.reply()
		if err != nil {
			return err
		}
		switch typ {
		case '_':
			return ErrCacheMiss
		case '$':
			payload = data
			return nil
		default:
			return fmt.Errorf("unexpected GET reply type %q", typ)
		}
	})
	return payload, err
}

// Set stores bytes under key with a TTL. Zero or negative TTLs store
// without expiry.
func (v *Valkey) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if v == nil {
		return nil
	}
	return v.do(ctx, func(w *wire) error {
		args := []string{key, string(value)}
		if ttl > 0 {
			args = append(args, "EX", strconv.Itoa(int(ttl.Seconds())))
		}
		if err := w.command("SET", args...); err != nil {
			return err
		}
		typ, data, err := w.reply()
		if err != nil {
			return err
		}
		if typ != '+' || string(data) != "OK" {
			return fmt.Errorf("unexpected SET reply: %s", data)
		}
		return nil
	})
}

// Del removes a key.
func (v *Valkey) Del(ctx context.Context, key string) error {
	if v == nil {
		return nil
	}
	return v.do(ctx, func(w *wire) error {
		if err := w.command("DEL", key); err != nil {
			return err
		}
		_, _, err := w.reply()
		return err
	})
}

// Close drains the connection pool.
func (v *Valkey) Close() error {
	if v == nil {
		return nil
	}
	for {
		select {
		case c := <-v.idle:
			_ = c.Close()
		default:
			return nil
		}
	}
}

// do runs fn against a pooled connection, retrying transient network
// failures on a fresh connection.
func (v *Valkey) do(ctx context.Context, fn func(*wire) error) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w, fresh, err := v.acquire(ctx)
		if err != nil {
			lastErr = err
			if !transient(err) {
				return err
			}
			time.Sleep(retryBackoff << attempt)
			continue
		}

		err = fn(w)
		if err == nil {
			v.release(w)
			return nil
		}
		_ = w.conn.Close()
		lastErr = err
		// A pooled connection may simply have gone stale; dial fresh
		// before giving up.
		if !fresh || transient(err) {
			time.Sleep(retryBackoff << attempt)
			continue
		}
		return err
	}
	return lastErr
}

func (v *Valkey) acquire(ctx context.Context) (*wire, bool, error) {
	select {
	case c := <-v.idle:
		return newWire(c), false, nil
	default:
	}

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", v.addr)
	if err != nil {
		return nil, true, err
	}
	w := newWire(conn)
	if err := v.handshake(w); err != nil {
		_ = conn.Close()
		return nil, true, err
	}
	return w, true, nil
}

func (v *Valkey) release(w *wire) {
	select {
	case v.idle <- w.conn:
	default:
		_ = w.conn.Close()
	}
}

func (v *Valkey) handshake(w *wire) error {
	if v.password != "" {
		if err := w.command("AUTH", v.password); err != nil {
			return err
		}
		typ, data, err := w.reply()
		if err != nil {
			return err
		}
		if typ != '+' || !strings.EqualFold(string(data), "OK") {
			return fmt.Errorf("auth rejected: %s", data)
		}
	}
	if v.db > 0 {
		if err := w.command("SELECT", strconv.Itoa(v.db)); err != nil {
			return err
		}
		typ, data, err := w.reply()
		if err != nil {
			return err
		}
		if typ != '+' || !strings.EqualFold(string(data), "OK") {
			return fmt.Errorf("select rejected: %s", data)
		}
	}
	return nil
}

func transient(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// wire frames RESP commands and replies on one connection.
type wire struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
}

func newWire(c net.Conn) *wire {
	return &wire{conn: c, r: bufio.NewReader(c), w: bufio.NewWriter(c)}
}

func (w *wire) command(name string, args ...string) error {
	if err := w.conn.SetWriteDeadline(time.Now().Add(ioTimeout)); err != nil {
		return err
	}
	fmt.Fprintf(w.w, "*%d\r\n", len(args)+1)
	fmt.Fprintf(w.w, "$%d\r\n%s\r\n", len(name), name)
	for _, a := range args {
		fmt.Fprintf(w.w, "$%d\r\n%s\r\n", len(a), a)
	}
	return w.w.Flush()
}

// reply reads one RESP reply. The returned type byte is '+' simple
// string, '$' bulk string, ':' integer or '_' nil; server errors come
// back as Go errors.
func (w *wire) reply() (byte, []byte, error) {
	if err := w.conn.SetReadDeadline(time.Now().Add(ioTimeout)); err != nil {
		return 0, nil, err
	}
	prefix, err := w.r.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	switch prefix {
	case '+', ':':
		line, err := w.line()
		return prefix, line, err
	case '-':
		line, err := w.line()
		if err != nil {
			return 0, nil, err
		}
		return 0, nil, errors.New(string(line))
	case '$':
		line, err := w.line()
		if err != nil {
			return 0, nil, err
		}
		size, err := strconv.Atoi(string(line))
		if err != nil {
			return 0, nil, err
		}
		if size < 0 {
			return '_', nil, nil
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(w.r, buf); err != nil {
			return 0, nil, err
		}
		if buf[size] != '\r' || buf[size+1] != '\n' {
			return 0, nil, errors.New("malformed bulk string terminator")
		}
		return '$', buf[:size], nil
	default:
		return 0, nil, fmt.Errorf("unexpected RESP prefix %q", prefix)
	}
}

func (w *wire) line() ([]byte, error) {
	line, err := w.r.ReadString('\n')
	if err != nil {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
