// Package scene groups animated players and advances them together each frame.
package scene

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-ik/engine/player"
	"github.com/Carmen-Shannon/oxy-ik/engine/profiler"
	"github.com/Carmen-Shannon/oxy-ik/engine/renderer/skinning"
)

// BufferSink uploads staged skinning writes. *skinning.QueueWriter implements it.
type BufferSink interface {
	WriteBuffers(writes []skinning.BufferWrite) error
}

var _ BufferSink = &skinning.QueueWriter{}

// Scene manages a registry of players that share a skinning stager.
// Players are updated in parallel; each player's own state is touched by one worker only.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active.
	Active() bool

	// SetActive sets whether this scene is active. Inactive scenes skip Update.
	SetActive(active bool)

	// Stager returns the skinning stager the scene's players write to, or nil.
	Stager() skinning.Stager

	// Add registers a player with the scene.
	//
	// Parameters:
	//   - p: the player to add
	//
	// Returns:
	//   - uint64: the assigned ID
	Add(p player.Player) uint64

	// Get retrieves a player by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the player's ID
	//
	// Returns:
	//   - player.Player: the player or nil
	Get(id uint64) player.Player

	// Remove unregisters a player.
	//
	// Parameters:
	//   - id: the player's ID
	Remove(id uint64)

	// Count returns the number of registered players.
	Count() int

	// Clear removes all players.
	Clear()

	// Update advances every player by deltaTime on the worker pool and blocks until all of
	// them are done. A player that panics is logged and skipped for the frame.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	Update(deltaTime float32)

	// Flush drains the stager and hands its writes to the buffer sink. It is a no-op
	// without a stager or sink.
	//
	// Returns:
	//   - error: the sink's error
	Flush() error

	// Release stops the worker pool. The scene must not be updated afterwards.
	Release()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	registry map[uint64]player.Player
	order    []uint64
	nextID   uint64

	stager skinning.Stager
	sink   BufferSink

	updatePool    worker.DynamicWorkerPool
	updateWorkers int
	panics        atomic.Uint64

	profiler *profiler.Profiler
}

var _ Scene = &scene{}

// NewScene creates an active Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:            &sync.RWMutex{},
		name:          name,
		active:        true,
		registry:      make(map[uint64]player.Player),
		nextID:        1,
		updateWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Created after options so WithUpdateWorkers can override the default.
	s.updatePool = worker.NewDynamicWorkerPool(s.updateWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Stager() skinning.Stager {
	return s.stager
}

func (s *scene) Add(p player.Player) uint64 {
	if p == nil {
		panic("scene: Add requires a non-nil Player")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.registry[id] = p
	s.order = append(s.order, id)
	return id
}

func (s *scene) Get(id uint64) player.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.registry[id]; !ok {
		return
	}
	delete(s.registry, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = make(map[uint64]player.Player)
	s.order = s.order[:0]
}

func (s *scene) Update(deltaTime float32) {
	s.mu.RLock()
	if !s.active {
		s.mu.RUnlock()
		return
	}
	players := make([]player.Player, 0, len(s.order))
	ids := make([]uint64, 0, len(s.order))
	for _, id := range s.order {
		players = append(players, s.registry[id])
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	start := time.Now()
	// The pool's Wait blocks until workers go idle, so a WaitGroup is the per-frame barrier.
	var wg sync.WaitGroup
	for i, p := range players {
		wg.Add(1)
		pCap, id := p, ids[i]
		s.updatePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						s.panics.Add(1)
						log.Printf("[Scene] player %d panicked during update: %v", id, r)
					}
				}()

				pCap.Update(deltaTime)
				return nil, nil
			},
		})
	}
	wg.Wait()

	if s.profiler != nil {
		s.profiler.Observe(time.Since(start), len(players))
		s.profiler.Tick()
	}
}

func (s *scene) Flush() error {
	if s.stager == nil || s.sink == nil {
		return nil
	}
	writes := s.stager.StagedWriteData()
	if len(writes) == 0 {
		return nil
	}
	if err := s.sink.WriteBuffers(writes); err != nil {
		return fmt.Errorf("scene %q flush: %w", s.Name(), err)
	}
	return nil
}

func (s *scene) Release() {
	s.updatePool.Stop()
}

// panicCount returns how many player updates have panicked since creation.
func (s *scene) panicCount() uint64 {
	return s.panics.Load()
}
