// Package scenes is the cookbook's scene registry.
package scenes

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-shade/engine/scene"
	"github.com/Carmen-Shannon/oxy-shade/scenes/bloom"
	"github.com/Carmen-Shannon/oxy-shade/scenes/blur"
	"github.com/Carmen-Shannon/oxy-shade/scenes/deferred"
	"github.com/Carmen-Shannon/oxy-shade/scenes/edge"
	"github.com/Carmen-Shannon/oxy-shade/scenes/hdr"
	"github.com/Carmen-Shannon/oxy-shade/scenes/shadow"
	"github.com/Carmen-Shannon/oxy-shade/scenes/ssao"
)

// ErrUnknownScene is returned by Lookup for a name no scene is registered under.
var ErrUnknownScene = errors.New("unknown scene")

// Factory creates a scene with its default options.
type Factory func() scene.Scene

var registry = map[string]Factory{
	blur.Name:     func() scene.Scene { return blur.New() },
	deferred.Name: func() scene.Scene { return deferred.New() },
	shadow.Name:   func() scene.Scene { return shadow.New(shadow.WithPCF(3)) },
	ssao.Name:     func() scene.Scene { return ssao.New() },
	hdr.Name:      func() scene.Scene { return hdr.New() },
	bloom.Name:    func() scene.Scene { return bloom.New() },
	edge.Name:     func() scene.Scene { return edge.New() },
}

// Names returns every registered scene name in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup creates the scene registered under name.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - scene.Scene: a new scene
//   - error: wraps ErrUnknownScene if nothing is registered under name
func Lookup(name string) (scene.Scene, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%q (have %v): %w", name, Names(), ErrUnknownScene)
	}
	return factory(), nil
}
