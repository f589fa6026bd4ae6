package scene

import (
	"github.com/Carmen-Shannon/oxy-ik/engine/player"
	"github.com/Carmen-Shannon/oxy-ik/engine/profiler"
	"github.com/Carmen-Shannon/oxy-ik/engine/renderer/skinning"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithPlayers adds initial players to the scene, assigning IDs in order from 1.
//
// Parameters:
//   - players: the players to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPlayers(players ...player.Player) SceneBuilderOption {
	return func(s *scene) {
		for _, p := range players {
			if p == nil {
				continue
			}
			s.registry[s.nextID] = p
			s.order = append(s.order, s.nextID)
			s.nextID++
		}
	}
}

// WithUpdateWorkers sets the number of worker goroutines that update players.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of update workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithUpdateWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.updateWorkers = n
	}
}

// WithStager sets the stager the scene's players write their palettes to.
//
// Parameters:
//   - stager: the skinning stager
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithStager(stager skinning.Stager) SceneBuilderOption {
	return func(s *scene) {
		s.stager = stager
	}
}

// WithBufferSink sets where Flush uploads the stager's writes, typically a
// *skinning.QueueWriter.
//
// Parameters:
//   - sink: the upload target
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBufferSink(sink BufferSink) SceneBuilderOption {
	return func(s *scene) {
		s.sink = sink
	}
}

// WithProfiler reports each update's duration and player count to p.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) SceneBuilderOption {
	return func(s *scene) {
		s.profiler = p
	}
}
