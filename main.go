package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/joho/godotenv/autoload"
	"go.opentelemetry.io/otel/attribute"

	"github.com/localizedstringkit/lsk/cmd/lsk"
	"github.com/localizedstringkit/lsk/internal/config"
	"github.com/localizedstringkit/lsk/internal/lifecycle"
	"github.com/localizedstringkit/lsk/internal/perf"
)

const (
	perfLifecycleStartup  = "lsk.lifecycle.startup"
	perfLifecycleExecute  = "lsk.lifecycle.execute"
	perfLifecycleShutdown = "lsk.lifecycle.shutdown"
)

type shutdownTrigger string

const (
	shutdownTriggerExit   shutdownTrigger = "exit"
	shutdownTriggerSignal shutdownTrigger = "signal"
)

type runDeps struct {
	execute    func(context.Context) error
	register   func(lifecycle.Handler) lifecycle.HandlerID
	unregister func(lifecycle.HandlerID)
	args       []string
	cwd        string
	stderr     io.Writer
}

func main() {
	listener := lifecycle.NewListener()

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	code := runWithDeps(runDeps{
		execute:    lsk.ExecuteContext,
		register:   listener.Register,
		unregister: listener.Unregister,
		args:       os.Args[1:],
		cwd:        cwd,
		stderr:     os.Stderr,
	})
	listener.Close()
	if code != 0 {
		os.Exit(code)
	}
}

func runWithDeps(deps runDeps) int {
	ctx := context.Background()
	perfCfg := perfExportConfigFromArgs(deps.args, deps.cwd)
	if err := perf.Init(perf.Config{Enabled: perfCfg.enabled}); err != nil {
		_, _ = fmt.Fprintf(deps.stderr, "failed to start performance tracing: %v\n", err)
	}

	_, startup := perf.StartSpan(ctx, perfLifecycleStartup, perf.WithAttributes(attribute.Int("args", len(deps.args))))

	var shutdownOnce sync.Once
	shutdown := func(trigger shutdownTrigger, sig os.Signal) {
		shutdownOnce.Do(func() {
			_, span := perf.StartSpan(ctx, perfLifecycleShutdown, perf.WithAttributes(attribute.String("trigger", string(trigger))))
			if sig != nil {
				span.SetAttributes(attribute.String("signal", sig.String()))
			}
			span.End()
			exportPerf(perfCfg, deps.stderr)
		})
	}

	id := deps.register(func(sig os.Signal) {
		shutdown(shutdownTriggerSignal, sig)
	})
	defer deps.unregister(id)
	startup.End()

	execCtx, execute := perf.StartSpan(ctx, perfLifecycleExecute)
	err := deps.execute(execCtx)
	if err != nil {
		execute.RecordError(err)
	}
	execute.End()

	shutdown(shutdownTriggerExit, nil)
	return exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return 1
}

type perfExportConfig struct {
	enabled bool
	debug   bool
	baseDir string
	outDir  string
}

// perfExportConfigFromArgs reads the tracing flags before cobra parses them so
// the whole run, including command construction, can be traced.
func perfExportConfigFromArgs(args []string, cwd string) perfExportConfig {
	cfg := perfExportConfig{}
	configPath := config.DefaultFileName
	outDir := ""

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--perf":
			cfg.enabled = true
		case arg == "--debug" || arg == "-d":
			cfg.debug = true
		case arg == "--config" && i+1 < len(args):
			i++
			configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--perf-out-dir" && i+1 < len(args):
			i++
			outDir = args[i]
		case strings.HasPrefix(arg, "--perf-out-dir="):
			outDir = strings.TrimPrefix(arg, "--perf-out-dir=")
		}
	}

	cfg.baseDir = filepath.Dir(absoluteFrom(cwd, configPath))
	cfg.outDir = cfg.baseDir
	if outDir != "" {
		cfg.outDir = absoluteFrom(cfg.baseDir, outDir)
	}
	return cfg
}

func absoluteFrom(base string, path string) string {
	path = filepath.FromSlash(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func exportPerf(cfg perfExportConfig, stderr io.Writer) {
	if !cfg.enabled {
		return
	}

	spans, err := perf.GetSpans()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "failed to collect performance spans: %v\n", err)
		return
	}

	path, err := perf.ExportToFile(cfg.outDir, cfg.baseDir, spans)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "failed to export performance spans: %v\n", err)
		return
	}

	if !cfg.debug {
		return
	}
	_, _ = fmt.Fprintf(stderr, "perf: wrote %s\n", path)
	durations, err := perf.GetRunDurations()
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(stderr, "perf: total %s\n", durations.Total)
	for _, stage := range durations.Stages {
		_, _ = fmt.Fprintf(stderr, "perf:   %s %s\n", strings.TrimPrefix(stage.Name, perf.StagePrefix), stage.Duration)
	}
}
