package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"strudel-go/config"
	"strudel-go/display"
	"strudel-go/midi"
	"strudel-go/mini"
	"strudel-go/pattern"
	"strudel-go/scheduler"
)

// Global soundfont path (can be set via --soundfont flag)
var soundFontPath string

func main() {
	args := parseArgs(os.Args[1:])

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]

	switch command {
	case "play":
		if len(args) < 2 {
			fmt.Println("Error: play requires a session file or mini-notation source")
			printUsage()
			os.Exit(1)
		}
		playSource(args[1])
	case "query":
		if len(args) < 4 {
			fmt.Println("Error: query requires \"<mini>\" <begin> <end>")
			printUsage()
			os.Exit(1)
		}
		queryPattern(args[1], args[2], args[3])
	case "render":
		if len(args) < 4 {
			fmt.Println("Error: render requires <source> <out.mid> <cycles>")
			printUsage()
			os.Exit(1)
		}
		renderPattern(args[1], args[2], args[3])
	case "sessions":
		if len(args) < 2 {
			fmt.Println("Error: sessions requires a session file")
			printUsage()
			os.Exit(1)
		}
		listSessionPatterns(args[1])
	default:
		printUsage()
		os.Exit(1)
	}
}

// parseArgs extracts flags and returns remaining args
func parseArgs(args []string) []string {
	var remaining []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--soundfont" || arg == "-sf" {
			if i+1 < len(args) {
				soundFontPath = args[i+1]
				i++ // Skip next arg
			} else {
				fmt.Println("Error: --soundfont requires a path")
				os.Exit(1)
			}
		} else if strings.HasPrefix(arg, "--soundfont=") {
			soundFontPath = strings.TrimPrefix(arg, "--soundfont=")
		} else if arg == "--help" || arg == "-h" {
			printUsage()
			os.Exit(0)
		} else {
			remaining = append(remaining, arg)
		}
	}

	if soundFontPath == "" {
		soundFontPath = os.Getenv("SOUNDFONT")
	}

	return remaining
}

// sourcePattern loads a pattern either from a YAML session file (if arg
// ends in .yaml/.yml) or by evaluating arg directly as mini-notation.
func sourcePattern(arg string) (pattern.Pattern, *config.SessionConfig, error) {
	if strings.HasSuffix(arg, ".yaml") || strings.HasSuffix(arg, ".yml") {
		cfg, err := config.Load(arg)
		if err != nil {
			return pattern.Silence, nil, err
		}
		src, err := cfg.MainSource()
		if err != nil {
			return pattern.Silence, nil, err
		}
		p, err := mini.Eval(src)
		return p, cfg, err
	}
	p, err := mini.Eval(arg)
	return p, nil, err
}

func playSource(arg string) {
	p, cfg, err := sourcePattern(arg)
	if err != nil {
		fmt.Printf("Error evaluating pattern: %v\n", err)
		os.Exit(1)
	}

	cps := pattern.FromFloat(0.5)
	title := "strudel-go"
	if cfg != nil {
		cps = pattern.FromFloat(cfg.Cps)
		title = cfg.Title
	}

	sf, err := midi.FindSoundFont(soundFontPath)
	if err != nil {
		fmt.Printf("Error finding soundfont: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Using SoundFont: %s\n", sf)

	live, err := midi.NewLiveSink(sf)
	if err != nil {
		fmt.Printf("Error starting fluidsynth: %v\n", err)
		os.Exit(1)
	}
	defer live.Stop()

	tee := display.NewTeeSink(live)
	clock := scheduler.NewSystemClock()
	sched := scheduler.New(clock, tee)
	sched.SetCps(cps)
	sched.Play(p)

	go sched.Run()
	defer sched.Close()

	model := display.NewLiveModel(title, sched, tee.Events())
	if err := display.Run(model); err != nil {
		fmt.Printf("Error running display: %v\n", err)
		os.Exit(1)
	}
}

func queryPattern(src, beginStr, endStr string) {
	p, err := mini.Eval(src)
	if err != nil {
		fmt.Printf("Error parsing: %v\n", err)
		os.Exit(1)
	}

	begin, err := pattern.ParseRational(beginStr)
	if err != nil {
		fmt.Printf("Error parsing begin: %v\n", err)
		os.Exit(1)
	}
	end, err := pattern.ParseRational(endStr)
	if err != nil {
		fmt.Printf("Error parsing end: %v\n", err)
		os.Exit(1)
	}

	haps := p.Query(pattern.NewArc(begin, end))
	for _, h := range haps {
		whole := "~"
		if h.Whole != nil {
			whole = fmt.Sprintf("%s-%s", h.Whole.Begin, h.Whole.End)
		}
		fmt.Printf("%s-%s whole=%s value=%s\n", h.Part.Begin, h.Part.End, whole, h.Value)
	}
}

func renderPattern(arg, outPath, cyclesStr string) {
	p, cfg, err := sourcePattern(arg)
	if err != nil {
		fmt.Printf("Error evaluating pattern: %v\n", err)
		os.Exit(1)
	}

	cycles, err := strconv.Atoi(cyclesStr)
	if err != nil || cycles <= 0 {
		fmt.Println("Error: cycles must be a positive integer")
		os.Exit(1)
	}

	cps := 0.5
	if cfg != nil {
		cps = cfg.Cps
	}

	start := time.Unix(0, 0)
	sink := midi.NewRenderSink(start)
	haps := p.Query(pattern.NewArc(pattern.Zero, pattern.FromInt(int64(cycles))))
	for _, h := range haps {
		if !h.HasOnset() {
			continue
		}
		whole := *h.Whole
		t := start.Add(cyclesToDuration(whole.Begin, cps))
		dur := cyclesToDuration(whole.End, cps) - cyclesToDuration(whole.Begin, cps)
		sink.Emit(t, h.Value, dur, h.Context)
	}

	if err := sink.WriteSMF(outPath); err != nil {
		fmt.Printf("Error writing MIDI: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Rendered %d notes over %d cycles to %s\n", sink.NoteCount(), cycles, outPath)
}

func cyclesToDuration(cycles pattern.Rational, cps float64) time.Duration {
	seconds := cycles.Float64() / cps
	return time.Duration(seconds * float64(time.Second))
}

func listSessionPatterns(path string) {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Printf("Error loading session: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Session: %s\n", cfg.Title)
	fmt.Printf("  cps=%.3f main=%s sink=%s\n", cfg.Cps, cfg.Main, cfg.Sink.Kind)
	fmt.Println("Patterns:")
	for name, src := range cfg.Patterns {
		fmt.Printf("  %-12s %s\n", name, string(src))
	}
	if len(cfg.Sounds) > 0 {
		fmt.Printf("Sounds: %s\n", strings.Join(cfg.Sounds, ", "))
	}
}

func printUsage() {
	fmt.Println("strudel-go — a live-coding pattern engine")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  strudel-go play <source.yaml|\"mini\">         Evaluate and play live via FluidSynth")
	fmt.Println("  strudel-go query \"<mini>\" <begin> <end>      Print the Haps a pattern produces over an arc")
	fmt.Println("  strudel-go render <source> <out.mid> <n>     Render n cycles to a Standard MIDI File")
	fmt.Println("  strudel-go sessions <file.yaml>               List a session's named patterns")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --soundfont, -sf <path>   Use custom SoundFont (.sf2 file)")
	fmt.Println("  --help, -h                Show this help")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  SOUNDFONT                 Default SoundFont path")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  strudel-go query \"bd sd\" 0 2")
	fmt.Println("  strudel-go render \"bd(3,8) sd\" out.mid 4")
	fmt.Println("  strudel-go play session.yaml")
}
