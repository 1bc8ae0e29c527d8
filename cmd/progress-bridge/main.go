package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tiger/build-progress-bridge/internal/bridge"
	"github.com/tiger/build-progress-bridge/internal/stream"
	"github.com/tiger/build-progress-bridge/internal/tooling/validation"
	wire "github.com/tiger/build-progress-bridge/pkg/wire/v1"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, os.Stdin); err != nil {
		fmt.Fprintf(os.Stderr, "progress-bridge: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer, stdin io.Reader) error {
	if len(args) == 0 {
		printUsage(stdout)
		return nil
	}

	switch args[0] {
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	case "generate":
		return runGenerate(args[1:], stdout)
	case "tail":
		return runTail(args[1:], stdout, stdin)
	case "validate-contracts":
		return runValidateContracts(args[1:], stdout)
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "progress-bridge usage:")
	fmt.Fprintln(w, "  progress-bridge generate [-suite name] [-class name] [-out path]")
	fmt.Fprintln(w, "  progress-bridge tail [-in path] [-config path]")
	fmt.Fprintln(w, "  progress-bridge validate-contracts [fixture_root]")
}

func runGenerate(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	suite := fs.String("suite", "sample-run", "suite name for the generated stream")
	class := fs.String("class", "com.example.SampleTest", "class name for the generated stream")
	out := fs.String("out", "-", "output path, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	written, err := stream.Generate(w, stream.GenerateConfig{SuiteName: *suite, ClassName: *class})
	if err != nil {
		return err
	}
	if *out != "-" {
		fmt.Fprintf(stdout, "wrote %d wire messages to %s\n", written, *out)
	}
	return nil
}

func runTail(args []string, stdout io.Writer, stdin io.Reader) error {
	fs := flag.NewFlagSet("tail", flag.ContinueOnError)
	in := fs.String("in", "", "input stream path, - for stdin (overrides config)")
	configPath := fs.String("config", "", "TOML config path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := defaultTailConfig()
	if *configPath != "" {
		loaded, err := loadTailConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *in != "" {
		cfg.Input = *in
	}

	r := stdin
	if cfg.Input != "-" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	log := newLogger(stdout, cfg)
	adapter := bridge.New(logListener{log: log})

	var sink stream.Sink = adapter
	if !cfg.StopOnProtocolError {
		sink = tolerantSink{adapter: adapter, log: log}
	}

	stats, err := stream.Feed(r, sink)
	if err != nil {
		return err
	}
	if open := adapter.OpenOperations(); open > 0 {
		log.Warn().Int("open_operations", open).Msg("stream ended with unfinished operations")
	}
	log.Info().
		Int("messages", stats.Messages).
		Int("unrecognized", stats.Unrecognized).
		Msg("stream complete")
	return nil
}

func runValidateContracts(args []string, stdout io.Writer) error {
	fixtureRoot := filepath.Join("test", "contract", "fixtures")
	if len(args) >= 1 {
		fixtureRoot = args[0]
	}
	summary, err := validation.ValidateWireFixtures(fixtureRoot)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, validation.RenderSummary(summary))
	if summary.Failed > 0 {
		return fmt.Errorf("%d wire fixtures failed validation", summary.Failed)
	}
	return nil
}

func newLogger(w io.Writer, cfg tailConfig) zerolog.Logger {
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(cfg.LogLevel).With().Timestamp().Logger()
}

// tolerantSink keeps feeding after correlation-protocol violations, logging
// each one instead of stopping the stream. Everything else still aborts.
type tolerantSink struct {
	adapter *bridge.Adapter
	log     zerolog.Logger
}

func (s tolerantSink) OnEvent(ev wire.Event) error {
	if err := s.adapter.OnEvent(ev); err != nil {
		if bridge.IsProtocolError(err) {
			s.log.Warn().Err(err).Msg("dropped message after protocol violation")
			return nil
		}
		return err
	}
	return nil
}
