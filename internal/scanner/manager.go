package scanner

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrCaptureNotFound = errors.New("capture not found")

// DeviceFactory produces a fresh capture device per session
type DeviceFactory func() CaptureDevice

// Manager tracks the active capture sessions
type Manager struct {
	mu        sync.RWMutex
	captures  map[uuid.UUID]*Capture
	newDevice DeviceFactory
	opts      Options
	logger    *zap.Logger
}

// NewManager creates a Manager. A nil factory defaults to the simulated camera.
func NewManager(newDevice DeviceFactory, opts Options, logger *zap.Logger) *Manager {
	if newDevice == nil {
		newDevice = func() CaptureDevice { return &SimulatedCamera{} }
	}
	return &Manager{
		captures:  make(map[uuid.UUID]*Capture),
		newDevice: newDevice,
		opts:      opts,
		logger:    logger,
	}
}

// StartCapture creates and starts a new capture session
func (m *Manager) StartCapture(ctx context.Context, kind CodeKind) (*Capture, error) {
	if kind != KindBarcode && kind != KindEAN {
		return nil, ErrUnknownKind
	}

	c := NewCapture(m.newDevice(), kind, m.opts, m.logger)
	if err := c.Start(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.captures[c.ID] = c
	m.mu.Unlock()

	return c, nil
}

// Get returns the capture session with the given id
func (m *Manager) Get(id uuid.UUID) (*Capture, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.captures[id]
	if !ok {
		return nil, ErrCaptureNotFound
	}
	return c, nil
}

// StopCapture stops and forgets the capture session with the given id
func (m *Manager) StopCapture(id uuid.UUID) error {
	m.mu.Lock()
	c, ok := m.captures[id]
	if ok {
		delete(m.captures, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrCaptureNotFound
	}

	c.Stop()
	return nil
}

// Shutdown stops every active session. Used on server teardown so no camera
// handles or timers outlive the process.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	captures := make([]*Capture, 0, len(m.captures))
	for id, c := range m.captures {
		captures = append(captures, c)
		delete(m.captures, id)
	}
	m.mu.Unlock()

	for _, c := range captures {
		c.Stop()
	}
}
