// Package loader imports rigs, animation clips and ground geometry from glTF 2.0 files.
package loader

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-ik/engine/animation"
	"github.com/Carmen-Shannon/oxy-ik/engine/collision"
)

// LoaderBackendType identifies the file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// Asset is everything imported from one file. Skeleton joints and clip track ids are glTF
// node indices. A ground-only import leaves Skeleton and Clips nil.
type Asset struct {
	Name      string
	Skeleton  *animation.Skeleton
	Clips     []*animation.Clip
	Triangles []collision.Triangle
}

// Clip returns the first clip with the given name, or nil.
func (a *Asset) Clip(name string) *animation.Clip {
	for _, c := range a.Clips {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Ground builds a collision ground from the asset's triangles.
func (a *Asset) Ground() *collision.Ground {
	return collision.NewGround(a.Triangles)
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	assetCache map[string]*Asset

	backend loaderBackend
}

// Loader loads and caches assets. The file format is hidden behind a backend.
type Loader interface {
	// Load imports a file and caches the result by path. A cached full import is returned
	// without touching the file.
	//
	// Parameters:
	//   - path: the file path to the .gltf or .glb file
	//
	// Returns:
	//   - *Asset: the loaded asset
	//   - error: error if loading fails
	Load(path string) (*Asset, error)

	// LoadGround imports only the triangles of a file, for static ground meshes.
	//
	// Parameters:
	//   - path: the file path to the .gltf or .glb file
	//
	// Returns:
	//   - *Asset: the loaded asset with only Triangles populated
	//   - error: error if loading fails
	LoadGround(path string) (*Asset, error)

	// LoadReader imports an asset from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded asset
	//   - r: the reader providing the data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - *Asset: the loaded asset
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) (*Asset, error)

	// Get retrieves a cached asset by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *Asset: the cached asset or nil
	Get(name string) *Asset

	// Assets returns a copy of the cache.
	//
	// Returns:
	//   - map[string]*Asset: all cached assets keyed by name
	Assets() map[string]*Asset
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		assetCache: make(map[string]*Asset),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (*Asset, error) {
	if cached := l.Get(path); cached != nil && cached.Skeleton != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}
	asset, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	log.Printf("[Loader] loaded %q: %d joints, %d clips, %d triangles",
		asset.Name, asset.Skeleton.Len(), len(asset.Clips), len(asset.Triangles))
	l.store(path, asset)
	return asset, nil
}

func (l *loader) LoadGround(path string) (*Asset, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}
	asset, err := backend.LoadGround(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	log.Printf("[Loader] loaded ground %q: %d triangles", asset.Name, len(asset.Triangles))
	l.store(path, asset)
	return asset, nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (*Asset, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}
	if l.backend == nil {
		return nil, fmt.Errorf("loader has no backend")
	}

	asset, err := l.backend.LoadReader(r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	if asset.Name == "unnamed_asset" {
		asset.Name = name
	}

	l.store(name, asset)
	return asset, nil
}

func (l *loader) Get(name string) *Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.assetCache[name]
}

func (l *loader) Assets() map[string]*Asset {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*Asset, len(l.assetCache))
	for k, v := range l.assetCache {
		result[k] = v
	}
	return result
}

func (l *loader) store(key string, asset *Asset) {
	l.mu.Lock()
	l.assetCache[key] = asset
	l.mu.Unlock()
}

// resolveBackend selects a loader backend based on the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		if l.backend == nil {
			return nil, fmt.Errorf("loader has no backend for %s", ext)
		}
		return l.backend, nil
	default:
		return nil, fmt.Errorf("unsupported model format: %q", ext)
	}
}
