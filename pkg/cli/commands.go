package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmakekit/cmakekit/pkg/batch"
	"github.com/cmakekit/cmakekit/pkg/cmake"
	"github.com/cmakekit/cmakekit/pkg/config"
	"github.com/cmakekit/cmakekit/pkg/logger"
	"github.com/cmakekit/cmakekit/pkg/presets"
)

func newBuildCmd() *cobra.Command {
	var (
		sourceDir string
		buildDir  string
		outputDir string
		preset    string
		defines   []string
	)

	cmd := &cobra.Command{
		Use:   "build [-- extra cmake args...]",
		Short: "Configure and build a CMake project",
		Long: `Run the CMake configure phase followed by the build phase. Arguments
after -- are passed through to both phases.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, sourceDir, buildDir, outputDir, preset, defines, args)
		},
	}

	cmd.Flags().StringVarP(&sourceDir, "source", "S", "", "source directory (default: project root)")
	cmd.Flags().StringVarP(&buildDir, "build-dir", "B", "", "binary directory (default: build)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "artifact output directory (default: build)")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "configure preset from CMakePresets.json")
	cmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "cache variable override, NAME=VALUE (repeatable)")

	return cmd
}

// buildOptions are the invocation parameters resolvable from more than
// one source.
type buildOptions struct {
	SourceDir string
	BuildDir  string
	OutputDir string
	Preset    string
}

// resolveBuildOptions merges flag values, CMAKEKIT_* environment overrides
// (via viper's env layer) and file settings, in that precedence order.
func resolveBuildOptions(flags buildOptions, settings *config.Settings) buildOptions {
	resolve := func(flag, envKey, file string) string {
		if flag != "" {
			return flag
		}
		if env := viper.GetString(envKey); env != "" {
			return env
		}
		return file
	}

	return buildOptions{
		SourceDir: resolve(flags.SourceDir, "source-dir", settings.SourceDir),
		BuildDir:  resolve(flags.BuildDir, "build-dir", settings.BuildDir),
		OutputDir: resolve(flags.OutputDir, "output-dir", settings.OutputDir),
		Preset:    resolve(flags.Preset, "preset", settings.Preset),
	}
}

func runBuild(cmd *cobra.Command, sourceDir, buildDir, outputDir, preset string, defines, extraArgs []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	opts := resolveBuildOptions(buildOptions{
		SourceDir: sourceDir,
		BuildDir:  buildDir,
		OutputDir: outputDir,
		Preset:    preset,
	}, settings)
	if opts.SourceDir == "" {
		opts.SourceDir = projectRoot
	}

	invocation := cmake.New().SourceDir(opts.SourceDir)
	if opts.BuildDir != "" {
		invocation.BuildDir(opts.BuildDir)
	}
	if opts.OutputDir != "" {
		invocation.OutputDir(opts.OutputDir)
	}
	if opts.Preset != "" {
		invocation.Preset(opts.Preset)
	}

	for _, d := range settings.Defines {
		invocation.Define(d.Name, d.Value)
	}
	for _, d := range defines {
		name, value, err := parseDefine(d)
		if err != nil {
			return err
		}
		invocation.Define(name, value)
	}

	for _, arg := range settings.Args {
		invocation.Arg(arg)
	}
	for _, arg := range extraArgs {
		invocation.Arg(arg)
	}

	printInfo(fmt.Sprintf("Building %s", opts.SourceDir))
	if err := invocation.Run(cmd.Context()); err != nil {
		printError(err.Error())
		return err
	}

	printSuccess("Configure and build completed")
	return nil
}

func newPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Inspect CMake configure presets",
	}

	var sourceDir string
	listCmd := &cobra.Command{
		Use:          "list",
		Short:        "List configure presets declared in CMakePresets.json",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := sourceDir
			if dir == "" {
				dir = projectRoot
			}
			return runPresetsList(dir)
		},
	}
	listCmd.Flags().StringVarP(&sourceDir, "source", "S", "", "source directory (default: project root)")

	cmd.AddCommand(listCmd)
	return cmd
}

func runPresetsList(dir string) error {
	catalog, err := presets.Load(dir)
	if err != nil {
		return err
	}

	all := catalog.Presets()
	if len(all) == 0 {
		printInfo("No configure presets declared")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDISPLAY NAME\tHIDDEN")
	for _, p := range all {
		hidden := ""
		if p.Hidden {
			hidden = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.DisplayName, hidden)
	}
	return w.Flush()
}

func newBatchCmd() *cobra.Command {
	var (
		sourceDir string
		buildRoot string
		parallel  int
	)

	cmd := &cobra.Command{
		Use:   "batch <preset>...",
		Short: "Build several presets concurrently",
		Long: `Run one full configure + build invocation per preset, in parallel.
Each preset gets its own binary and output directory under the build root,
so invocations share no state.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, sourceDir, buildRoot, parallel, args)
		},
	}

	cmd.Flags().StringVarP(&sourceDir, "source", "S", "", "source directory (default: project root)")
	cmd.Flags().StringVar(&buildRoot, "build-root", "build", "directory holding one subdirectory per preset")
	cmd.Flags().IntVarP(&parallel, "parallel", "j", 2, "maximum concurrent invocations")

	return cmd
}

func runBatch(cmd *cobra.Command, sourceDir, buildRoot string, parallel int, presetNames []string) error {
	if sourceDir == "" {
		sourceDir = projectRoot
	}

	log := logger.CreateLogger("", verbosity)

	jobs := make([]batch.Job, 0, len(presetNames))
	for _, name := range presetNames {
		dir := filepath.Join(buildRoot, name)
		jobs = append(jobs, batch.Job{
			Name: name,
			Invocation: cmake.New().
				SourceDir(sourceDir).
				BuildDir(dir).
				OutputDir(dir).
				Preset(name),
		})
	}

	results, err := batch.NewRunner(log, parallel).Run(cmd.Context(), jobs)

	for _, r := range results {
		if r.Err != nil {
			printError(fmt.Sprintf("%s: %v", r.Name, r.Err))
		} else {
			printSuccess(r.Name)
		}
	}

	return err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cmakekit v%s\n", version)
		},
	}
}

// parseDefine splits a NAME=VALUE cache variable override. An empty value
// is allowed; an empty name or a missing separator is not.
func parseDefine(s string) (string, string, error) {
	name, value, found := strings.Cut(s, "=")
	if !found || name == "" {
		return "", "", fmt.Errorf("invalid define %q, expected NAME=VALUE", s)
	}
	return name, value, nil
}

// loadSettings loads the project settings file when one is present,
// returning empty settings otherwise.
func loadSettings() (*config.Settings, error) {
	path := settingsPath()
	if path == "" {
		return &config.Settings{}, nil
	}
	return config.NewManager().LoadSettings(path)
}
