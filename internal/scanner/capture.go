package scanner

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCameraUnavailable = errors.New("unable to access camera, please check permissions")
	ErrCaptureNotActive  = errors.New("capture is not active")
)

const detectionWindow = 3

// CapturePreferences describe the requested capture stream
type CapturePreferences struct {
	FacingMode string // "environment" prefers the rear-facing camera
	Width      int
	Height     int
}

// DefaultPreferences matches the web client's getUserMedia request
func DefaultPreferences() CapturePreferences {
	return CapturePreferences{FacingMode: "environment", Width: 1920, Height: 1080}
}

// CaptureDevice is a camera capture stream. Open acquires the stream and
// Close releases it; Close must be safe to call more than once.
type CaptureDevice interface {
	Open(ctx context.Context, prefs CapturePreferences) error
	Close() error
}

// SimulatedCamera is a CaptureDevice that produces no frames. It stands in
// for a real camera in this demo build.
type SimulatedCamera struct {
	mu   sync.Mutex
	open bool
}

func (c *SimulatedCamera) Open(ctx context.Context, prefs CapturePreferences) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	return nil
}

func (c *SimulatedCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	return nil
}

// Detection is a single simulated code sighting
type Detection struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Kind       CodeKind  `json:"type"`
	Confidence int       `json:"confidence"` // synthetic, in [70, 100)
	DetectedAt time.Time `json:"timestamp"`
}

// Options tune the simulation timings
type Options struct {
	GenerateDelay     time.Duration // simulated decode delay on Scan
	DetectInterval    time.Duration // auto-detection tick
	DetectProbability float64       // chance of a detection per tick
}

// DefaultOptions mirrors the web client: a 2s detection interval with a 0.3
// hit chance and a 500ms generation delay.
func DefaultOptions() Options {
	return Options{
		GenerateDelay:     500 * time.Millisecond,
		DetectInterval:    2 * time.Second,
		DetectProbability: 0.3,
	}
}

// Capture is one scanning session. While active it runs a periodic
// auto-detection loop producing random codes; stopping the session releases
// the camera and the timer deterministically.
type Capture struct {
	ID   uuid.UUID
	Kind CodeKind

	mu         sync.Mutex
	device     CaptureDevice
	opts       Options
	logger     *zap.Logger
	detections []Detection
	active     bool
	stop       chan struct{}
	done       chan struct{}

	// overridable for deterministic tests
	randFloat func() float64
}

// NewCapture creates an inactive capture session for the given device
func NewCapture(device CaptureDevice, kind CodeKind, opts Options, logger *zap.Logger) *Capture {
	return &Capture{
		ID:        uuid.New(),
		Kind:      kind,
		device:    device,
		opts:      opts,
		logger:    logger,
		randFloat: rand.Float64,
	}
}

// Start acquires the capture device and begins the auto-detection loop.
// A device failure surfaces as ErrCameraUnavailable and leaves the session
// inactive with no resources held.
func (c *Capture) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		return nil
	}

	if err := c.device.Open(ctx, DefaultPreferences()); err != nil {
		c.logger.Warn("Camera access failed",
			zap.String("capture_id", c.ID.String()),
			zap.Error(err),
		)
		c.detections = nil
		return fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}

	c.active = true
	c.detections = nil
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.detectLoop(c.stop, c.done)

	c.logger.Info("Capture started",
		zap.String("capture_id", c.ID.String()),
		zap.String("kind", string(c.Kind)),
	)
	return nil
}

func (c *Capture) detectLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.opts.DetectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

// tick simulates one detection attempt
func (c *Capture) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active || c.randFloat() >= c.opts.DetectProbability {
		return
	}

	code, err := GenerateCode(c.Kind)
	if err != nil {
		return
	}

	d := Detection{
		ID:         uuid.New(),
		Code:       code,
		Kind:       c.Kind,
		Confidence: int(c.randFloat()*30) + 70,
		DetectedAt: time.Now(),
	}

	c.detections = append(c.detections, d)
	if len(c.detections) > detectionWindow {
		c.detections = c.detections[len(c.detections)-detectionWindow:]
	}
}

// Detections returns the most recent detections, oldest first
func (c *Capture) Detections() []Detection {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Detection, len(c.detections))
	copy(out, c.detections)
	return out
}

// Active reports whether the session is currently capturing
func (c *Capture) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Scan waits out the simulated decode delay and returns a random code,
// stopping the session on completion. It honours ctx cancellation.
func (c *Capture) Scan(ctx context.Context) (string, error) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return "", ErrCaptureNotActive
	}
	delay := c.opts.GenerateDelay
	c.mu.Unlock()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		c.Stop()
		return "", ctx.Err()
	case <-timer.C:
	}

	code, err := GenerateCode(c.Kind)
	if err != nil {
		return "", err
	}

	c.Stop()
	return code, nil
}

// Stop tears the session down: the detection loop exits, the camera is
// released and the detection window is cleared. Stop is idempotent.
func (c *Capture) Stop() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	close(c.stop)
	done := c.done
	c.mu.Unlock()

	<-done

	if err := c.device.Close(); err != nil {
		c.logger.Error("Failed to release capture device",
			zap.String("capture_id", c.ID.String()),
			zap.Error(err),
		)
	}

	c.mu.Lock()
	c.detections = nil
	c.mu.Unlock()

	c.logger.Info("Capture stopped", zap.String("capture_id", c.ID.String()))
}
