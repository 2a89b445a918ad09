package debug

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

type debug struct {
	Plan    bool
	Render  bool
	Codegen bool
}

var (
	d      *debug
	logger zerolog.Logger
)

func init() {
	d = &debug{}
	d.Plan = boolEnv("TREEDISPLAY_DEBUG_PLAN")
	d.Render = boolEnv("TREEDISPLAY_DEBUG_RENDER")
	d.Codegen = boolEnv("TREEDISPLAY_DEBUG_CODEGEN")
	logger = newLogger(d.Plan || d.Render || d.Codegen)
}

func newLogger(on bool) zerolog.Logger {
	if !on {
		return zerolog.Nop()
	}
	cw := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(cw).With().Timestamp().Logger()
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Plan() bool {
	return d.Plan
}
func Render() bool {
	return d.Render
}
func Codegen() bool {
	return d.Codegen
}

// Logger returns the diagnostic logger for component. It discards
// everything unless one of the TREEDISPLAY_DEBUG_* variables is set.
func Logger(component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// SetEnabled overrides the environment. Tests use it.
func SetEnabled(plan, render, codegen bool) {
	d.Plan, d.Render, d.Codegen = plan, render, codegen
	logger = newLogger(plan || render || codegen)
}
