// Package scroll paces auto-scrolling of a song sheet from its tempo.
//
// The offset added per tick is max(1, bpm/60) times a user multiplier. Units are whatever the caller
// scrolls in: pixels for the API, lines for the terminal UI.
package scroll

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/desertthunder/songsheet/internal/shared"
)

const (
	DefaultBPM       = 60
	MinMultiplier    = 0.25
	MaxMultiplier    = 5.0
	MultiplierStep   = 0.25
	DefaultTolerance = 2.0
)

var bpmPattern = regexp.MustCompile(`\d+`)

// ParseBPM returns the first number in tempo, or [DefaultBPM] when there is none.
func ParseBPM(tempo string) int {
	m := bpmPattern.FindString(tempo)
	if m == "" {
		return DefaultBPM
	}
	bpm, err := strconv.Atoi(m)
	if err != nil {
		return DefaultBPM
	}
	return bpm
}

// Offset is the per-tick scroll offset for bpm at multiplier.
func Offset(bpm int, multiplier float64) float64 {
	return math.Max(1, float64(bpm)/60) * multiplier
}

// ClampMultiplier snaps m to the nearest step inside [MinMultiplier, MaxMultiplier].
func ClampMultiplier(m float64) float64 {
	if math.IsNaN(m) {
		return 1
	}
	m = math.Round(m/MultiplierStep) * MultiplierStep
	return math.Min(MaxMultiplier, math.Max(MinMultiplier, m))
}

// AtBottom reports whether a viewport at position shows the end of content, within tolerance.
func AtBottom(position, viewport, content, tolerance float64) bool {
	return position+viewport >= content-tolerance
}

// Pacer holds auto-scroll state. It is safe for concurrent use.
type Pacer struct {
	mu         sync.Mutex
	bpm        int
	multiplier float64
	position   float64
	running    bool
	tolerance  float64
}

// New creates a halted pacer at the top for tempo.
func New(tempo string) *Pacer {
	return &Pacer{bpm: ParseBPM(tempo), multiplier: 1, tolerance: DefaultTolerance}
}

// SetTolerance changes the distance from the bottom at which scrolling stops.
func (p *Pacer) SetTolerance(t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tolerance = math.Max(0, t)
}

// Tolerance returns the distance from the bottom at which scrolling stops.
func (p *Pacer) Tolerance() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tolerance
}

// BPM returns the tempo the pacer was built with.
func (p *Pacer) BPM() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bpm
}

// Multiplier returns the current speed multiplier.
func (p *Pacer) Multiplier() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.multiplier
}

// SetMultiplier clamps and stores m, returning the stored value.
func (p *Pacer) SetMultiplier(m float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.multiplier = ClampMultiplier(m)
	return p.multiplier
}

// Faster raises the multiplier by one step.
func (p *Pacer) Faster() float64 {
	return p.SetMultiplier(p.Multiplier() + MultiplierStep)
}

// Slower lowers the multiplier by one step.
func (p *Pacer) Slower() float64 {
	return p.SetMultiplier(p.Multiplier() - MultiplierStep)
}

// Offset returns the current per-tick offset.
func (p *Pacer) Offset() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Offset(p.bpm, p.multiplier)
}

// Position returns the current scroll position.
func (p *Pacer) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// SetPosition records a manual scroll.
func (p *Pacer) SetPosition(pos float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = math.Max(0, pos)
}

// Running reports whether ticks advance the position.
func (p *Pacer) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Start resumes scrolling.
func (p *Pacer) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = true
}

// Pause stops advancing without moving.
func (p *Pacer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
}

// Toggle flips between running and paused and returns the new state.
func (p *Pacer) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = !p.running
	return p.running
}

// Reset scrolls back to the top and halts.
func (p *Pacer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = 0
	p.running = false
}

// Step advances one tick for a viewport of the given height over content of the given height.
//
// The position never passes the bottom. Reaching the bottom halts the pacer.
// Returns the new position and whether the pacer is still running.
func (p *Pacer) Step(viewport, content float64) (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return p.position, false
	}

	limit := math.Max(0, content-viewport)
	p.position = math.Min(limit, p.position+Offset(p.bpm, p.multiplier))

	if AtBottom(p.position, viewport, content, p.tolerance) {
		p.running = false
	}
	return p.position, p.running
}

// Measure reports the current viewport and content heights.
type Measure func() (viewport, content float64)

// Run steps p every interval until ctx is done or the pacer halts at the bottom of the content,
// calling onTick with each new position while running.
//
// A paused pacer keeps the ticker alive and resumes on the next tick after Start. Returns nil once the
// bottom is reached and ctx.Err() on cancellation.
func Run(ctx context.Context, interval time.Duration, p *Pacer, measure Measure, onTick func(position float64)) error {
	if interval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive, got %s", shared.ErrInvalidArgument, interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !p.Running() {
				continue
			}
			viewport, content := measure()
			pos, running := p.Step(viewport, content)
			if onTick != nil {
				onTick(pos)
			}
			if !running && AtBottom(pos, viewport, content, p.Tolerance()) {
				return nil
			}
		}
	}
}
