// Package cmake constructs and executes CMake configure and build commands
package cmake

import (
	"context"
	"fmt"

	"github.com/cmakekit/cmakekit/pkg/presets"
	"github.com/cmakekit/cmakekit/pkg/utils"
)

// toolName is the executable both phases are dispatched to.
const toolName = "cmake"

// DefaultBuildDir is used for both the binary and output directories when
// the caller does not set them.
const DefaultBuildDir = "build"

// Define is one CMake cache variable override, passed to the configure
// phase as -D<Name>=<Value>. Ordering among defines is preserved.
type Define struct {
	Name  string
	Value string
}

// Invocation accumulates the parameters of one configure + build run.
//
// Configure an Invocation through its chained setters, then execute it with
// Run (blocking) or Start (background). Execution consumes the Invocation:
// it must not be reused or mutated afterwards. Setters perform no
// validation; every constraint is checked at execution time.
//
// The execution protocol is:
//  1. Resolve the cmake executable (ErrCMakeNotFound on failure).
//  2. Resolve the preset, if one was requested, from the source
//     directory's CMakePresets.json (PresetNotFoundError on a miss).
//  3. Create the binary and output directories.
//  4. Run `cmake -S <source> -B <binary>` with the preset flag, defines,
//     derived output-directory flags, and extra arguments.
//  5. Run `cmake --build <binary>` with the extra arguments, only if the
//     configure phase exited zero.
//
// Any failure is terminal for the invocation; there are no retries.
type Invocation struct {
	args      []string
	sourceDir string
	buildDir  string
	outputDir string
	preset    string
	defines   []Define

	resolver ToolResolver
	runner   Runner
}

// New creates an Invocation with default settings: source directory ".",
// binary and output directories both "build", no preset, no defines.
func New() *Invocation {
	return &Invocation{
		buildDir:  DefaultBuildDir,
		outputDir: DefaultBuildDir,
		resolver:  PathResolver{},
		runner:    ExecRunner{},
	}
}

// SourceDir sets the CMake source directory, passed as -S. It is also where
// CMakePresets.json is looked up when a preset is requested.
func (i *Invocation) SourceDir(path string) *Invocation {
	i.sourceDir = path
	return i
}

// BuildDir sets the CMake binary directory, passed as -B. It is created
// before the configure phase if it does not exist.
func (i *Invocation) BuildDir(path string) *Invocation {
	i.buildDir = path
	return i
}

// OutputDir sets the directory that all produced artifacts land in. It
// binds CMAKE_RUNTIME_OUTPUT_DIRECTORY, CMAKE_LIBRARY_OUTPUT_DIRECTORY and
// CMAKE_ARCHIVE_OUTPUT_DIRECTORY to its canonical absolute form, and is
// created before the configure phase if it does not exist.
func (i *Invocation) OutputDir(path string) *Invocation {
	i.outputDir = path
	return i
}

// Preset selects a configure preset by name, passed as --preset=<name>.
// The name is resolved against the source directory's CMakePresets.json at
// execution time; hidden presets are not selectable.
func (i *Invocation) Preset(name string) *Invocation {
	i.preset = name
	return i
}

// Arg appends a free-form argument passed to both the configure and build
// phases, e.g. "-Wno-dev" or "--log-level=WARNING".
func (i *Invocation) Arg(arg string) *Invocation {
	i.args = append(i.args, arg)
	return i
}

// Define appends a cache variable override passed to the configure phase
// as -D<name>=<value>.
func (i *Invocation) Define(name, value string) *Invocation {
	i.defines = append(i.defines, Define{Name: name, Value: value})
	return i
}

// WithResolver replaces the executable resolver. Intended for tests.
func (i *Invocation) WithResolver(r ToolResolver) *Invocation {
	i.resolver = r
	return i
}

// WithRunner replaces the subprocess runner. Intended for tests.
func (i *Invocation) WithRunner(r Runner) *Invocation {
	i.runner = r
	return i
}

// Run executes the configure and build phases on the calling goroutine,
// blocking until both complete or one fails. It consumes the Invocation.
func (i *Invocation) Run(ctx context.Context) error {
	return i.execute(ctx)
}

// Start executes the configure and build phases on a background goroutine
// and returns immediately. The result is delivered exactly once on the
// returned channel; the channel is buffered, so a caller that never reads
// it does not block the goroutine. Start consumes the Invocation.
//
// Start and Run share one execution path, so for identical settings they
// produce results of identical kind.
func (i *Invocation) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- i.execute(ctx)
	}()
	return done
}

func (i *Invocation) execute(ctx context.Context) error {
	if _, err := i.resolver.Resolve(toolName); err != nil {
		return ErrCMakeNotFound
	}

	sourceDir := i.sourceDir
	if sourceDir == "" {
		sourceDir = "."
	}

	// Preset resolution happens before any directory side effect so a bad
	// preset name leaves the filesystem untouched.
	var presetArgs []string
	if i.preset != "" {
		catalog, err := presets.Load(sourceDir)
		if err != nil {
			return fmt.Errorf("failed to load presets from %s: %w", sourceDir, err)
		}
		preset, found := catalog.Lookup(i.preset)
		if !found {
			return &PresetNotFoundError{Name: i.preset}
		}
		presetArgs = append(presetArgs, "--preset="+preset.Name)
	}

	// Both directories must exist before the output path can be
	// canonicalized; canonicalization of a missing path fails.
	if err := utils.EnsureDirectory(i.buildDir); err != nil {
		return fmt.Errorf("failed to create build directory %s: %w", i.buildDir, err)
	}
	if err := utils.EnsureDirectory(i.outputDir); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", i.outputDir, err)
	}

	outputDir, err := utils.CanonicalPath(i.outputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory %s: %w", i.outputDir, err)
	}

	configureArgs := []string{"-S", sourceDir, "-B", i.buildDir}
	configureArgs = append(configureArgs, presetArgs...)
	for _, d := range i.defines {
		configureArgs = append(configureArgs, "-D"+d.Name+"="+d.Value)
	}
	configureArgs = append(configureArgs,
		"-DCMAKE_RUNTIME_OUTPUT_DIRECTORY="+outputDir,
		"-DCMAKE_LIBRARY_OUTPUT_DIRECTORY="+outputDir,
		"-DCMAKE_ARCHIVE_OUTPUT_DIRECTORY="+outputDir,
	)
	configureArgs = append(configureArgs, i.args...)

	status, err := i.runner.Run(ctx, toolName, configureArgs...)
	if err != nil {
		return fmt.Errorf("failed to run cmake configure: %w", err)
	}
	if status != 0 {
		return &PhaseError{Phase: PhaseConfigure, ExitStatus: status}
	}

	buildArgs := append([]string{"--build", i.buildDir}, i.args...)
	status, err = i.runner.Run(ctx, toolName, buildArgs...)
	if err != nil {
		return fmt.Errorf("failed to run cmake build: %w", err)
	}
	if status != 0 {
		return &PhaseError{Phase: PhaseBuild, ExitStatus: status}
	}

	return nil
}
