// Package shaders loads compiled SPIR-V shader bytecode.
//
// The GLSL sources of the default triangle live next to this file. Run
// `go generate` in order to compile them into vert.spv and frag.spv.
package shaders

import (
	"io/fs"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ironsmile/vkframe/gpu"
)

//go:generate ./compile.sh

// Default file names of the compiled triangle shaders.
const (
	VertexFile   = "vert.spv"
	FragmentFile = "frag.spv"
)

// Shader is the bytecode of one pipeline stage.
type Shader struct {
	Stage gpu.ShaderStage
	Path  string
	Code  []byte
}

// Loader reads shader bytecode from a file system. The bytes are returned as
// they are; validating them is left to the driver.
type Loader struct {
	FS fs.FS
}

// Load reads the shader stored at path.
func (l Loader) Load(path string, stage gpu.ShaderStage) (Shader, error) {
	code, err := fs.ReadFile(l.FS, path)
	if err != nil {
		return Shader{}, errors.Wrapf(err, "reading %s shader bytecode", stage)
	}

	return Shader{
		Stage: stage,
		Path:  path,
		Code:  code,
	}, nil
}

// LoadPair reads a vertex and a fragment shader concurrently.
func (l Loader) LoadPair(vertexPath, fragmentPath string) (vertex, fragment Shader, err error) {
	var g errgroup.Group

	g.Go(func() error {
		var err error
		vertex, err = l.Load(vertexPath, gpu.ShaderStageVertex)
		return err
	})
	g.Go(func() error {
		var err error
		fragment, err = l.Load(fragmentPath, gpu.ShaderStageFragment)
		return err
	})

	if err := g.Wait(); err != nil {
		return Shader{}, Shader{}, err
	}
	return vertex, fragment, nil
}
