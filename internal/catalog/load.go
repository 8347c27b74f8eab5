package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/arbowl/ma-legislature-stipends/internal/compiler"
	"github.com/arbowl/ma-legislature-stipends/internal/ir"
)

//go:embed default.cue
var defaultCatalog []byte

// Default compiles the built-in Massachusetts catalog.
func Default() (*Catalog, error) {
	spec, err := DefaultSpec()
	if err != nil {
		return nil, err
	}
	return New(spec)
}

// MustDefault is like Default but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultSpec compiles the built-in catalog without validating it.
func DefaultSpec() (*ir.CatalogSpec, error) {
	return CompileBytes("default.cue", defaultCatalog)
}

// CompileBytes compiles a single CUE document into a spec.
func CompileBytes(filename string, src []byte) (*ir.CatalogSpec, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling %s: %w", filename, err)
	}
	return compiler.CompileCatalog(v)
}

// CompileDefaultWith unifies extra CUE with the built-in catalog. Extra can
// add sources, tiers and roles; redefining an existing value to something
// else is a CUE conflict.
func CompileDefaultWith(filename string, extra []byte) (*ir.CatalogSpec, error) {
	ctx := cuecontext.New()
	base := ctx.CompileBytes(defaultCatalog, cue.Filename("default.cue"))
	if err := base.Err(); err != nil {
		return nil, fmt.Errorf("compiling default.cue: %w", err)
	}
	more := ctx.CompileBytes(extra, cue.Filename(filename))
	if err := more.Err(); err != nil {
		return nil, fmt.Errorf("compiling %s: %w", filename, err)
	}
	v := base.Unify(more)
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("unifying %s with default.cue: %w", filename, err)
	}
	return compiler.CompileCatalog(v)
}

// LoadDir compiles every CUE file in dir as one catalog and validates it.
func LoadDir(dir string) (*Catalog, error) {
	spec, err := LoadDirSpec(dir)
	if err != nil {
		return nil, err
	}
	return New(spec)
}

// LoadDirSpec compiles a catalog directory without validating it.
func LoadDirSpec(dir string) (*ir.CatalogSpec, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", err)
	}
	return compiler.CompileCatalog(value)
}
