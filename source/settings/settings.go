// All this does is contain in one place the constants and environment settings controlling the
// limits of the language engine, where dsh keeps its macros, and which bits of the inner
// workings are logged for debugging purposes.

package settings

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/xyproto/env/v2"
)

const (
	VERSION = "1.0.0"

	MAX_BROADCAST_ELEMENTS = 10000 // The largest list or matrix an arithmetic operation may produce.
	DIVISION_PRECISION     = 34    // Significant figures kept by division, as in an IEEE decimal128.
	MAX_EXACT_EXPONENT     = 10000 // Integer powers larger than this are refused rather than computed exactly.
	DEFAULT_MACRO_DEPTH    = 64    // How deeply macros may invoke one another.
	DEFAULT_MACRO_DRIVER   = "SQLite"
)

// These do what it sounds like. They can be switched on from the environment without recompiling.
var (
	SHOW_TOKENIZER  = env.Bool("DSH_SHOW_TOKENIZER")
	SHOW_DISPATCHER = env.Bool("DSH_SHOW_DISPATCHER")
	SHOW_MACROS     = env.Bool("DSH_SHOW_MACROS")
	SHOW_TESTS      = env.Bool("DSH_SHOW_TESTS")
)

// The settings a session is started with. Flags given on the command line overwrite the fields
// after FromEnvironment has filled them in.
type Config struct {
	Debug         bool
	NoColor       bool
	MacroDriver   string
	MacroDB       string
	MaxMacroDepth int
}

func FromEnvironment() Config {
	return Config{
		Debug:         env.Bool("DSH_DEBUG"),
		NoColor:       env.Bool("DSH_NO_COLOR"),
		MacroDriver:   env.Str("DSH_MACRO_DRIVER", DEFAULT_MACRO_DRIVER),
		MacroDB:       env.Str("DSH_MACRO_DB", DefaultMacroPath()),
		MaxMacroDepth: env.Int("DSH_MAX_MACRO_DEPTH", DEFAULT_MACRO_DEPTH),
	}
}

// The SQLite file macros are kept in unless we're told otherwise.
func DefaultMacroPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dsh-macros.db"
	}
	return filepath.Join(home, ".dsh", "macros.db")
}

var (
	logger     *logrus.Logger
	loggerOnce sync.Once
)

// The one logger everything writes its diagnostics to. It's quiet unless DSH_DEBUG or one of the
// SHOW_ flags is set.
func Logger() *logrus.Logger {
	loggerOnce.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		logger.SetLevel(logrus.WarnLevel)
		if env.Bool("DSH_DEBUG") || SHOW_TOKENIZER || SHOW_DISPATCHER || SHOW_MACROS {
			logger.SetLevel(logrus.DebugLevel)
		}
	})
	return logger
}

// Applies a Config to the logger, for when the command line has changed our minds.
func Configure(cfg Config) {
	if cfg.Debug {
		Logger().SetLevel(logrus.DebugLevel)
	}
}
