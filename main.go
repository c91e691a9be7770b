package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/joho/godotenv"

	"livecap/capture"
	"livecap/config"
	"livecap/doctor"
	"livecap/filter"
	"livecap/history"
	"livecap/log"
	"livecap/overlay"
	"livecap/shutdown"
	"livecap/transcriber"
)

var version = "dev"

// guiMode and sink are set by initGUI before run starts; the TUI path
// replaces sink after the Bubble Tea program exists.
var guiMode bool
var sink EventSink = nopSink{}

func main() {
	// Check for -gui early: the desktop overlay must own the main thread
	// before anything else runs.
	for _, arg := range os.Args[1:] {
		if arg == "-gui" {
			initGUI()
			return
		}
	}
	run()
}

func run() {
	configFlag := flag.String("config", "", "Path to YAML config file")
	langFlag := flag.String("lang", "", "Language code for transcription (e.g. de, en); overrides config")
	providerFlag := flag.String("provider", "", "Transcription provider: groq or fake; overrides config")
	formatFlag := flag.String("format", "", "Upload format: wav or flac; overrides config")
	chunkFlag := flag.Float64("chunk", 0, "Chunk duration in seconds; overrides config")
	sourceFlag := flag.String("source", "", "Monitor source name; overrides config")
	setupFlag := flag.Bool("setup", false, "Select monitor source interactively")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	flag.Bool("gui", false, "Run with desktop overlay instead of terminal UI")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("livecap %s\n", version)
		os.Exit(0)
	}

	// .env carries GROQ_API_KEY during development; absence is fine.
	godotenv.Load()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *langFlag != "" {
		cfg.Transcriber.Language = *langFlag
	}
	if *providerFlag != "" {
		cfg.Transcriber.Provider = *providerFlag
	}
	if *formatFlag != "" {
		cfg.Transcriber.Format = *formatFlag
	}
	if *chunkFlag > 0 {
		cfg.Audio.ChunkSeconds = *chunkFlag
	}
	if *sourceFlag != "" {
		cfg.Audio.Source = *sourceFlag
	}

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *setupFlag {
		src, err := selectSource()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: source selection failed: %v\n", err)
			fmt.Fprintln(os.Stderr, "Falling back to auto-detected monitor source")
		} else {
			cfg.Audio.Source = src
		}
	}

	source, err := newSource(cfg.Audio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *doctorFlag {
		os.Exit(doctor.Run(source, cfg))
	}

	activeTranscriber, err := transcriber.New(transcriber.Config{
		Provider: cfg.Transcriber.Provider,
		Model:    cfg.Transcriber.Model,
		Language: cfg.Transcriber.Language,
		Format:   cfg.Transcriber.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	histSink, err := history.NewSink(cfg.History.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fade := time.Duration(cfg.Overlay.FadeMS) * time.Millisecond
	state := overlay.New(fade, func(snap overlay.Snapshot) {
		sink.Lines(snap.Older, snap.Current)
	})

	pipe := &Pipeline{
		Source:       source,
		Buffer:       capture.NewBuffer(cfg.Audio.SampleRate),
		Transcriber:  activeTranscriber,
		Filter:       filter.New(cfg.Filter.ExtraPhrases...),
		Sink:         histSink,
		Overlay:      state,
		SampleRate:   cfg.Audio.SampleRate,
		ChunkSeconds: cfg.Audio.ChunkSeconds,
		Format:       cfg.Transcriber.Format,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		cancel()
		tuiMu.Lock()
		p := tuiProgram
		tuiMu.Unlock()
		if p != nil {
			p.Quit()
		}
	}()

	status := statusLine(cfg, activeTranscriber, source)
	if guiMode {
		guiBindClear(state.Clear)
		// Escape and the tray quit item cancel the pipeline; the Fyne
		// loop stays up until guiShutdown after capture has stopped.
		guiBindQuit(cancel)
	} else {
		tuiMu.Lock()
		tuiProgram = NewTUIProgram(status, state.Clear, pipe.LastText)
		tuiMu.Unlock()
		sink = tuiSink{}
	}
	pipe.Events = sink

	started := time.Now()

	go state.Run(ctx.Done(), time.Duration(cfg.Overlay.TickMS)*time.Millisecond)

	pipeDone := make(chan error, 1)
	go func() {
		err := pipe.Run(ctx)
		if err != nil {
			// A dead capture source ends the session; bring the UI down.
			tuiMu.Lock()
			p := tuiProgram
			tuiMu.Unlock()
			if p != nil {
				p.Quit()
			}
		}
		pipeDone <- err
	}()

	var pipeErr error
	gotPipeErr := false
	if guiMode {
		// The Fyne event loop owns the main thread; block here until the
		// pipeline ends or a signal fires.
		select {
		case pipeErr = <-pipeDone:
			gotPipeErr = true
		case <-ctx.Done():
		}
	} else {
		if _, err := tuiProgram.Run(); err != nil {
			log.Errorf("TUI error: %v", err)
		}
	}

	cancel()
	if !gotPipeErr {
		select {
		case pipeErr = <-pipeDone:
		case <-time.After(3 * time.Second):
			log.Warn("pipeline did not stop in time")
		}
	}
	reportPipelineError(pipeErr)

	log.SessionEnd(pipe.Accepted(), started)
	log.Close()

	if guiMode {
		guiShutdown()
	}
}

func statusLine(cfg config.Config, t transcriber.Transcriber, s capture.Source) string {
	label := t.Name()
	if lang := t.GetLanguage(); lang != "" {
		label += " (" + lang + ")"
	}
	return fmt.Sprintf("[%s | %s | %s] -> %s",
		s.Name(), cfg.Transcriber.Format, label, cfg.History.Path)
}

func reportPipelineError(err error) {
	if err == nil {
		return
	}
	log.Errorf("pipeline error: %v", err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
