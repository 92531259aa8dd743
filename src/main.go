package main

import (
	"fmt"
	"os"
	"time"

	"github.com/integrii/flaggy"
	"github.com/rs/zerolog"

	"toruslife/src/config"
	"toruslife/src/universe"
	"toruslife/src/view"
)

const (
	defPattern  = "stills"
	defLogLevel = "info"
)

type EnvOptions struct {
	interactive bool
	randomData  bool
	pattern     string
	configPath  string
	logLevel    string
}

func main() {
	eo, uo, templates, level := initOptions()

	logger := initLogger(level)
	uo.Logger = &logger

	var stateCh chan universe.Status
	if !eo.interactive {
		stateCh = make(chan universe.Status, 10) //the buffered channel for getting the engine status
	}

	e := universe.NewEngine(uo, stateCh)
	for _, tmpl := range universe.BuiltinTemplates {
		e.AddTemplate(tmpl)
	}
	for _, tmpl := range templates {
		e.AddTemplate(tmpl)
	}

	if eo.randomData {
		e.SettleWithRandomData()
	} else {
		e.SettleTemplate(eo.pattern)
	}

	if eo.interactive {
		v := view.NewConsoleUI()
		e.RegisterViewer(v)
		v.Start()
		e.Close()
	} else {
		v := view.NewConsoleOut()
		e.RegisterViewer(v)
		v.Start()
		e.Run()
		for st := range stateCh {
			if st.RunningMode == universe.RunningStateFinished {
				break
			}
		}
		e.Close()
		close(stateCh)
	}
}

func initOptions() (eo *EnvOptions, uo *universe.Options, templates []universe.Template, level zerolog.Level) {

	o := universe.DefaultOptions
	uo = &o
	eo = &EnvOptions{pattern: defPattern, logLevel: defLogLevel}

	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&uo.Width, "x", "width", "Width of the simulation field")
	flaggy.Int(&uo.Height, "y", "height", "Height of the simulation field")
	flaggy.Duration(&uo.Interval, "i", "interval", "Simulation speed (interval between the steps) as a duration, for example 150ms")
	flaggy.Int(&uo.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps")
	flaggy.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.String(&eo.pattern, "p", "pattern", "Seeding pattern to settle with")
	flaggy.String(&eo.configPath, "c", "config", "Path to a TOML configuration file")
	flaggy.String(&eo.logLevel, "l", "logLevel", "Diagnostic log level [trace|debug|info|warn|error|disabled]")

	flaggy.Parse()

	var err error
	level, err = zerolog.ParseLevel(eo.logLevel)
	if err != nil {
		flaggy.ShowHelpAndExit("unknown log level")
	}

	if eo.configPath != "" {
		cfg, err := config.Load(eo.configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		//the file overrides the defaults, explicit flags override the file
		if uo.Width == universe.DefWidth && cfg.Width != 0 {
			uo.Width = cfg.Width
		}
		if uo.Height == universe.DefHeight && cfg.Height != 0 {
			uo.Height = cfg.Height
		}
		if uo.Interval == universe.DefSimulationInterval && cfg.Interval != 0 {
			uo.Interval = cfg.Interval
		}
		if uo.MaxSteps == universe.DefMaxSteps && cfg.MaxSteps != 0 {
			uo.MaxSteps = cfg.MaxSteps
		}
		if eo.pattern == defPattern && cfg.Pattern != "" {
			eo.pattern = cfg.Pattern
		}
		if eo.logLevel == defLogLevel && cfg.LogLevel != zerolog.NoLevel {
			level = cfg.LogLevel
		}
		templates = cfg.Patterns
	}

	if uo.Width < 1 || uo.Height < 1 {
		flaggy.ShowHelpAndExit("field dimensions must be positive")
	}

	if !eo.interactive {
		flaggy.ShowHelp("")
	}

	return
}

func initLogger(level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Str("app", "toruslife").Logger().Level(level)
}
