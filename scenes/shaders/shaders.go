// Package shaders holds the cookbook's shader programs in two forms: Go functions for the
// CPU reference device and embedded WGSL for the WebGPU device. Both forms of a program share
// a name and a uniform interface.
package shaders

import (
	"embed"
	"io/fs"
	"sort"

	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/device"
	"github.com/Carmen-Shannon/oxy-shade/engine/renderer/soft"
)

// Program names.
const (
	Lit            = "lit"
	BlurH          = "blur_h"
	BlurV          = "blur_v"
	GBuffer        = "gbuffer"
	DeferredLight  = "deferred_light"
	ShadowDepth    = "shadow_depth"
	ShadowShade    = "shadow_shade"
	ShadowDebug    = "shadow_debug"
	SSAO           = "ssao"
	SSAOBlur       = "ssao_blur"
	SSAOComposite  = "ssao_composite"
	Luminance      = "luminance"
	Downsample     = "downsample"
	Tonemap        = "tonemap"
	Bright         = "bright"
	BloomComposite = "bloom_composite"
	Edge           = "edge"
	Present        = "present"
)

var softPrograms = map[string]func() *soft.Program{
	Lit:            newLit,
	BlurH:          newBlurH,
	BlurV:          newBlurV,
	GBuffer:        newGBuffer,
	DeferredLight:  newDeferredLight,
	ShadowDepth:    newShadowDepth,
	ShadowShade:    newShadowShade,
	ShadowDebug:    newShadowDebug,
	SSAO:           newSSAO,
	SSAOBlur:       newSSAOBlur,
	SSAOComposite:  newSSAOComposite,
	Luminance:      newLuminance,
	Downsample:     newDownsample,
	Tonemap:        newTonemap,
	Bright:         newBright,
	BloomComposite: newBloomComposite,
	Edge:           newEdge,
	Present:        newPresent,
}

// Names returns every program name in sorted order.
func Names() []string {
	names := make([]string, 0, len(softPrograms))
	for name := range softPrograms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Soft returns a library holding a fresh instance of every CPU program, so invocation
// counters start at zero.
func Soft() *device.Library {
	options := make([]device.LibraryBuilderOption, 0, len(softPrograms))
	for name, build := range softPrograms {
		options = append(options, device.WithNamedProgram(name, build()))
	}
	return device.NewLibrary(options...)
}

//go:embed wgsl
var wgslFiles embed.FS

// WGSL returns the WGSL sources: one <name>.wgsl file per program plus shared snippets
// under include/.
func WGSL() fs.FS {
	sub, err := fs.Sub(wgslFiles, "wgsl")
	if err != nil {
		panic(err)
	}
	return sub
}
