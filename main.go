package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-marimba/config"
	"go-marimba/debug"
	"go-marimba/gesture"
	"go-marimba/midi"
	"go-marimba/sequencer"
	"go-marimba/theme"
	"go-marimba/tui"
)

var (
	configPath  string
	inputPath   string
	fixturePath string
	outPath     string
	seed        uint64
	portName    string
	palettePath string
	logPath     string
	headless    bool
)

var rootCmd = &cobra.Command{
	Use:   "go-marimba",
	Short: "Turn fingertip heights into a MIDI melody",
	Long: `go-marimba reads hand-tracking frames, turns the height of the index and
middle fingertips into notes, and writes them to a Standard MIDI File once
the note limit is reached, the input ends or you stop it.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runRecord,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "", "config file (default ~/.config/go-marimba/config.yaml)")
	f.StringVar(&inputPath, "input", "-", "NDJSON frame stream, - for stdin")
	f.StringVar(&fixturePath, "fixture", "", "replay frames from a YAML fixture instead of --input")
	f.StringVar(&outPath, "out", "", "output .mid path (default <output_dir>/<output_file> under the working directory)")
	f.Uint64Var(&seed, "seed", 0, "random seed, 0 seeds from the clock")
	f.StringVar(&portName, "port", "", "also play notes live on this MIDI output port")
	f.StringVar(&palettePath, "palette", "", "GIMP .gpl palette for the display")
	f.StringVar(&logPath, "log", "", "debug log file (default ~/.config/go-marimba/debug.log)")
	f.BoolVar(&headless, "headless", false, "log progress instead of drawing the display")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Recording.Seed = seed
	}
	if portName != "" {
		cfg.Monitor.Port = portName
	}

	interactive := !headless && term.IsTerminal(int(os.Stdout.Fd()))

	if logPath == "" {
		if p, err := debug.DefaultPath(); err == nil {
			logPath = p
		}
	}
	if err := debug.Enable(logPath, !interactive); err != nil {
		fmt.Fprintf(os.Stderr, "debug log disabled: %v\n", err)
	}
	defer debug.Disable()
	log := debug.L()

	if outPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		outPath = cfg.OutputPath(wd)
	}
	checkOutputDir(log, outPath)

	source, stdin, err := openSource()
	if err != nil {
		return err
	}

	settings := trackSettings(cfg)
	store := sequencer.FileStore{Path: outPath, Settings: settings}
	rng := sequencer.NewRand(cfg.Recording.Seed)
	opts := sequencer.OptionsFromConfig(cfg)

	var extra []sequencer.SessionOption
	if cfg.Monitor.Port != "" {
		mon, err := midi.OpenMonitor(cfg.Monitor.Port, settings, cfg.Monitor.BPM)
		if err != nil {
			log.Warn("live monitor unavailable", zap.String("port", cfg.Monitor.Port), zap.Error(err))
		} else {
			extra = append(extra, sequencer.WithMonitor(mon))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var res sequencer.Result
	if interactive {
		th, err := loadTheme()
		if err != nil {
			return err
		}
		res = runInteractive(ctx, th, opts, rng, source, store, stdin, extra)
	} else {
		extra = append(extra, sequencer.WithDisplay(&sequencer.LogDisplay{}))
		res = sequencer.NewSession(opts, rng, source, store, extra...).Run(ctx)
	}

	report(cmd.OutOrStdout(), res)
	return nil
}

func runInteractive(ctx context.Context, th *theme.Theme, opts sequencer.Options, rng sequencer.Rand,
	source sequencer.Source, store sequencer.Store, stdin bool, extra []sequencer.SessionOption) sequencer.Result {

	flag := &tui.StopFlag{}
	teaOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if stdin {
		// frames arrive on stdin, keys come from the terminal
		teaOpts = append(teaOpts, tea.WithInputTTY())
	}
	prog := tui.NewProgram(tui.NewModel(th, flag, opts.MaxNotes), teaOpts...)

	extra = append(extra, sequencer.WithDisplay(prog), sequencer.WithStopSignal(flag))
	sess := sequencer.NewSession(opts, rng, source, store, extra...)

	done := make(chan sequencer.Result, 1)
	go func() {
		done <- sess.Run(ctx)
	}()

	if err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		debug.L().Error("display stopped", zap.Error(err))
	}
	// leaving the display early still ends the recording and saves it
	flag.Stop()
	return <-done
}

func openSource() (sequencer.Source, bool, error) {
	if fixturePath != "" {
		src, err := gesture.LoadFixture(fixturePath)
		if err != nil {
			return nil, false, err
		}
		return src, false, nil
	}
	if inputPath == "" || inputPath == "-" {
		return gesture.NewStreamSource(os.Stdin), true, nil
	}
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, false, fmt.Errorf("opening input: %w", err)
	}
	return gesture.NewStreamSource(f), false, nil
}

func loadTheme() (*theme.Theme, error) {
	if palettePath == "" {
		return theme.New(nil), nil
	}
	p, err := theme.LoadGPL(palettePath)
	if err != nil {
		return nil, fmt.Errorf("loading palette: %w", err)
	}
	return theme.New(p), nil
}

func trackSettings(cfg *config.Config) midi.TrackSettings {
	return midi.TrackSettings{
		Channel:           uint8(cfg.Output.Channel),
		Program:           uint8(cfg.Output.Program),
		Volume:            uint8(cfg.Output.Volume),
		TicksPerQuarter:   uint16(cfg.Output.TicksPerQuarter),
		CumulativeOffsets: cfg.Output.CumulativeOffsets,
	}
}

func checkOutputDir(log *zap.Logger, path string) {
	dir := filepath.Dir(path)
	created, err := midi.EnsureDir(dir)
	switch {
	case err != nil:
		log.Warn("output directory unusable", zap.String("dir", dir), zap.Error(err))
	case created:
		log.Info("output directory created", zap.String("dir", dir))
	default:
		log.Info("output directory exists", zap.String("dir", dir))
	}
	log.Info("output file", zap.String("path", path))
}

func report(w io.Writer, res sequencer.Result) {
	fmt.Fprintf(w, "stopped: %s after %d frames, %d notes\n", res.Reason, res.Ticks, res.Notes)
	if res.InputErr != nil {
		fmt.Fprintf(w, "input error: %v\n", res.InputErr)
	}
	switch res.Outcome {
	case sequencer.Saved:
		fmt.Fprintf(w, "saved %s\n", res.Path)
	case sequencer.NothingToPersist:
		fmt.Fprintln(w, "no notes recorded, nothing saved")
	case sequencer.SaveFailed:
		fmt.Fprintf(w, "could not save %s: %v\n", res.Path, res.Err)
	}
}
