package assets

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/vk/capreg/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	// EventResolve is emitted with {"path": ...} to ask the render host for a texture.
	EventResolve = "texture:resolve"
	// EventResolved is the render host's reply: {"path", "found", "id", "location"}.
	EventResolved = "texture:resolved"
)

// RemoteConfig configures a Remote provider.
type RemoteConfig struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	// Timeout bounds both the initial connection and every resolution.
	Timeout time.Duration
}

// Remote resolves textures on an out-of-process render host over socket.io.
// The render host owns the graphics context; the registry only sees the
// handle it hands back.
type Remote struct {
	io      *socket.Socket
	timeout time.Duration

	mu      sync.Mutex
	pending map[string][]chan remoteReply
}

type remoteReply struct {
	handle Handle
	found  bool
	err    error
}

// DialRemote connects to the render host and waits for the connection to be
// established.
func DialRemote(ctx context.Context, cfg RemoteConfig) (*Remote, error) {
	logger := ctxlog.FromContext(ctx).With("provider", "remote", "url", cfg.URL)
	logger.Debug("Connecting to render host...")

	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse render host URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	r := &Remote{
		io:      io,
		timeout: cfg.Timeout,
		pending: make(map[string][]chan remoteReply),
	}

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to render host", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})
	io.On(types.EventName(EventResolved), func(data ...any) {
		r.handleReply(logger, data...)
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("render host connection failed: %w", err)
		}
		return r, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while connecting to render host: %w", ctx.Err())
	case <-time.After(cfg.Timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for render host connection", cfg.Timeout)
	}
}

// Resolve implements Provider.
func (r *Remote) Resolve(ctx context.Context, path string) (Handle, error) {
	ch := make(chan remoteReply, 1)
	r.mu.Lock()
	r.pending[path] = append(r.pending[path], ch)
	r.mu.Unlock()
	defer r.forget(path, ch)

	r.io.Emit(EventResolve, map[string]any{"path": path})

	opCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	select {
	case reply := <-ch:
		if reply.err != nil {
			return Handle{}, reply.err
		}
		if !reply.found {
			return Handle{}, fmt.Errorf("%w: %s (render host)", ErrNotFound, path)
		}
		return reply.handle, nil
	case <-opCtx.Done():
		if ctx.Err() != nil {
			return Handle{}, ctx.Err()
		}
		return Handle{}, fmt.Errorf("timed out after %s resolving %s on render host", r.timeout, path)
	}
}

// Close disconnects from the render host.
func (r *Remote) Close() error {
	r.io.Disconnect()
	return nil
}

// handleReply routes one EventResolved payload to its waiter. A reply that
// cannot be matched to a path fails every pending resolution.
func (r *Remote) handleReply(logger *slog.Logger, data ...any) {
	if len(data) == 0 {
		logger.Warn("Render host sent an empty reply")
		r.failAll(errors.New("render host sent an empty reply"))
		return
	}
	path, reply := parseRemoteReply(data[0])
	if path == "" {
		err := reply.err
		if err == nil {
			err = errors.New("render host reply has no path")
		}
		logger.Warn("Render host sent a malformed reply", "error", err)
		r.failAll(err)
		return
	}
	r.deliver(path, reply)
}

func (r *Remote) failAll(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for path, waiters := range r.pending {
		for _, w := range waiters {
			w <- remoteReply{err: fmt.Errorf("malformed render host reply while resolving %s: %w", path, err)}
		}
		delete(r.pending, path)
	}
}

func (r *Remote) deliver(path string, reply remoteReply) {
	r.mu.Lock()
	defer r.mu.Unlock()
	waiters := r.pending[path]
	if len(waiters) == 0 {
		return
	}
	waiters[0] <- reply
	r.pending[path] = waiters[1:]
	if len(r.pending[path]) == 0 {
		delete(r.pending, path)
	}
}

func (r *Remote) forget(path string, ch chan remoteReply) {
	r.mu.Lock()
	defer r.mu.Unlock()
	waiters := r.pending[path]
	for i, w := range waiters {
		if w == ch {
			r.pending[path] = append(waiters[:i], waiters[i+1:]...)
			break
		}
	}
	if len(r.pending[path]) == 0 {
		delete(r.pending, path)
	}
}

// parseRemoteReply decodes the JSON object sent with EventResolved.
func parseRemoteReply(data any) (string, remoteReply) {
	obj, ok := data.(map[string]any)
	if !ok {
		return "", remoteReply{err: fmt.Errorf("unexpected render host reply of type %T", data)}
	}
	path, _ := obj["path"].(string)
	found, _ := obj["found"].(bool)
	if msg, ok := obj["error"].(string); ok && msg != "" {
		return path, remoteReply{err: fmt.Errorf("render host: %s", msg)}
	}
	if !found {
		return path, remoteReply{}
	}

	h := Handle{Path: path}
	switch id := obj["id"].(type) {
	case string:
		h.ID = id
	case float64:
		h.ID = fmt.Sprintf("%d", int64(id))
	}
	if h.ID == "" {
		h.ID = "remote:" + path
	}
	h.Location, _ = obj["location"].(string)
	return path, remoteReply{handle: h, found: true}
}
