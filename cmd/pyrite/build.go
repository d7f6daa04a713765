package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pyrite/internal/bytecode"
	"pyrite/internal/driver"
	"pyrite/internal/fnbuild"
	"pyrite/internal/ir"
	"pyrite/internal/observ"
	"pyrite/internal/project"
	"pyrite/internal/trace"
)

var (
	buildMode    string
	buildOut     string
	buildJobs    int
	buildNoCache bool
	buildTimings bool
	buildTrace   string
)

func init() {
	buildCmd.Flags().StringVar(&buildMode, "mode", "", "build mode (debug|release), overrides pyrite.toml")
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output file or directory (default: stdout)")
	buildCmd.Flags().IntVarP(&buildJobs, "jobs", "j", 0, "parallel translation jobs (0 = all CPUs)")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "bypass the translation cache")
	buildCmd.Flags().BoolVar(&buildTimings, "timings", false, "show per-phase timing information")
	buildCmd.Flags().StringVar(&buildTrace, "trace", "", "trace level (off|phase|op), overrides pyrite.toml")
}

var buildCmd = &cobra.Command{
	Use:   "build [flags] <path>",
	Short: "Translate code objects to IR",
	Long:  "Translate encoded code objects (*.pbc files) into IR modules. Accepts a file or a directory.",
	Args:  cobra.ExactArgs(1),
	RunE:  buildExecution,
}

// fileOutput is one translated function ready to write out.
type fileOutput struct {
	Path   string
	Text   string
	Timing []observ.Phase
	Cached bool
}

func buildExecution(cmd *cobra.Command, args []string) error {
	applyColorMode(cmd)

	cfg, err := project.Load(project.ManifestName)
	if err != nil {
		return err
	}
	if buildMode != "" {
		mode, err := fnbuild.ParseMode(buildMode)
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	if buildTrace != "" {
		level, err := trace.ParseLevel(buildTrace)
		if err != nil {
			return err
		}
		cfg.TraceLevel = level
	}

	var tracer trace.Tracer = trace.Nop
	if cfg.TraceLevel > trace.LevelOff {
		tracer = trace.NewStreamTracer(cmd.ErrOrStderr(), cfg.TraceLevel)
	}
	opts := driver.Options{Mode: cfg.Mode, Target: cfg.Target, Tracer: tracer}

	var cache *driver.DiskCache
	if !buildNoCache {
		if cache, err = driver.OpenDiskCache("pyrite"); err != nil {
			// Cache failures degrade to uncached builds.
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache unavailable: %v\n", err)
			cache = nil
		}
	}

	paths, err := collectInputs(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no code object files found")
	}

	var outputs []fileOutput
	if cache == nil {
		outputs, err = translateParallel(cmd, paths, opts)
	} else {
		outputs, err = translateCached(cmd, paths, opts, cfg, cache)
	}
	if err != nil {
		return err
	}

	for _, out := range outputs {
		if err := writeOutput(cmd, out.Path, out.Text); err != nil {
			return err
		}
		if buildTimings && out.Timing != nil {
			printTimings(cmd, out.Path, out.Timing)
		}
	}
	if !quietFlag(cmd) {
		okColor := color.New(color.FgGreen)
		fmt.Fprintln(cmd.ErrOrStderr(), okColor.Sprintf("translated %d function(s) [%s]", len(outputs), cfg.Mode))
	}
	return nil
}

func collectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), driver.FileExt) {
			paths = append(paths, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// translateParallel lowers every input concurrently with no cache in
// the way.
func translateParallel(cmd *cobra.Command, paths []string, opts driver.Options) ([]fileOutput, error) {
	codes := make([]*bytecode.CodeObject, len(paths))
	for i, path := range paths {
		code, err := bytecode.ReadFile(path)
		if err != nil {
			return nil, err
		}
		codes[i] = code
	}
	results, err := driver.TranslateAll(cmd.Context(), codes, opts, buildJobs)
	if err != nil {
		return nil, err
	}
	outputs := make([]fileOutput, len(results))
	for i, res := range results {
		text, err := irText(res)
		if err != nil {
			return nil, err
		}
		outputs[i] = fileOutput{Path: paths[i], Text: text, Timing: res.Timing}
	}
	return outputs, nil
}

func translateCached(cmd *cobra.Command, paths []string, opts driver.Options, cfg project.Config, cache *driver.DiskCache) ([]fileOutput, error) {
	outputs := make([]fileOutput, 0, len(paths))
	for _, path := range paths {
		out, err := translateOne(cmd, path, opts, cfg, cache)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func translateOne(cmd *cobra.Command, path string, opts driver.Options, cfg project.Config, cache *driver.DiskCache) (fileOutput, error) {
	code, err := bytecode.ReadFile(path)
	if err != nil {
		return fileOutput{}, err
	}

	var key driver.Digest
	if cache != nil {
		if key, err = driver.TranslationKey(code, cfg.Mode, cfg.Target); err != nil {
			return fileOutput{}, err
		}
		var payload driver.DiskPayload
		hit, err := cache.Get(key, &payload)
		if err != nil {
			return fileOutput{}, err
		}
		if hit {
			return fileOutput{Path: path, Text: payload.IRText, Cached: true}, nil
		}
	}

	res, err := driver.Translate(cmd.Context(), code, opts)
	if err != nil {
		return fileOutput{}, err
	}
	text, err := irText(res)
	if err != nil {
		return fileOutput{}, err
	}
	if cache != nil {
		payload := driver.DiskPayload{
			Name:   code.Name,
			Mode:   cfg.Mode.String(),
			Target: cfg.Target.Triple,
			IRText: text,
		}
		if err := cache.Put(key, &payload); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache write failed: %v\n", err)
		}
	}
	return fileOutput{Path: path, Text: text, Timing: res.Timing}, nil
}

func applyColorMode(cmd *cobra.Command) {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		if !isTerminal(os.Stderr) {
			color.NoColor = true
		}
	}
}

func quietFlag(cmd *cobra.Command) bool {
	quiet, err := cmd.Flags().GetBool("quiet")
	return err == nil && quiet
}

func writeOutput(cmd *cobra.Command, inPath, text string) error {
	if buildOut == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}
	out := buildOut
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		base := strings.TrimSuffix(filepath.Base(inPath), driver.FileExt)
		out = filepath.Join(out, base+".ll")
	}
	return os.WriteFile(out, []byte(text), 0o644)
}

func printTimings(cmd *cobra.Command, path string, phases []observ.Phase) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s:\n", path)
	for _, p := range phases {
		if p.Note != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %-12s %10s  %s\n", p.Name, p.Dur, p.Note)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %-12s %10s\n", p.Name, p.Dur)
		}
	}
}

// irText renders the result module once.
func irText(res *driver.Result) (string, error) {
	var sb strings.Builder
	if err := ir.DumpModule(&sb, res.Module); err != nil {
		return "", err
	}
	return sb.String(), nil
}
