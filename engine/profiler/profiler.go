// Package profiler logs frame rate, player update cost and memory statistics.
package profiler

import (
	"log"
	"runtime"
	"sync"
	"time"
)

// Stats is one logging interval's worth of measurements.
type Stats struct {
	FPS float64
	// Players is the player count of the most recent observed update.
	Players    int
	MeanUpdate time.Duration
	MaxUpdate  time.Duration

	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
}

// Profiler tracks frame rate, update timings and memory statistics.
// Outputs stats to the log at a configurable interval. Safe for concurrent use.
type Profiler struct {
	mu sync.Mutex

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	updates     int
	updateTotal time.Duration
	updateMax   time.Duration
	players     int

	last  Stats
	now   func() time.Time
	quiet bool
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// Observe records the duration of one scene update.
//
// Parameters:
//   - update: how long updating every player took
//   - players: how many players were updated
func (p *Profiler) Observe(update time.Duration, players int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.updates++
	p.updateTotal += update
	p.updateMax = max(p.updateMax, update)
	p.players = players
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	s := Stats{
		FPS:       float64(p.frameCount) / elapsed.Seconds(),
		Players:   p.players,
		MaxUpdate: p.updateMax,
	}
	if p.updates > 0 {
		s.MeanUpdate = p.updateTotal / time.Duration(p.updates)
	}

	runtime.ReadMemStats(&p.memStats)
	s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	s.SysMB = float64(p.memStats.Sys) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 pauses.
	s.GCCount = p.memStats.NumGC
	if s.GCCount > 0 {
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if s.GCCount-startIdx > 256 {
			startIdx = s.GCCount - 256
		}
		for i := startIdx; i < s.GCCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	if !p.quiet {
		log.Printf("[Profiler] FPS: %.2f | Players: %d | Update: %s mean, %s max | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
			s.FPS, s.Players, s.MeanUpdate, s.MaxUpdate, s.HeapMB, s.AllocRateMB, s.GCCount, s.LastPauseUs, s.MaxPauseUs, s.SysMB)
	}

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.updates, p.updateTotal, p.updateMax = 0, 0, 0
	return true
}

// Last returns the stats logged by the most recent successful Tick.
func (p *Profiler) Last() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
