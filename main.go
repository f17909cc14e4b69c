//
// dsh version 1.0.0
//
// A small shell language for numbers, lists and matrices, with commands, variables and macros.
//

package main

import (
	"fmt"
	"os"

	"github.com/dnephin/pflag"

	"github.com/tim-hardcastle/dsh/source/builtins"
	"github.com/tim-hardcastle/dsh/source/command"
	"github.com/tim-hardcastle/dsh/source/database"
	"github.com/tim-hardcastle/dsh/source/dispatcher"
	"github.com/tim-hardcastle/dsh/source/hub"
	"github.com/tim-hardcastle/dsh/source/lexer"
	"github.com/tim-hardcastle/dsh/source/macro"
	"github.com/tim-hardcastle/dsh/source/object"
	"github.com/tim-hardcastle/dsh/source/repl"
	"github.com/tim-hardcastle/dsh/source/settings"
	"github.com/tim-hardcastle/dsh/source/text"
)

func main() {
	cfg := settings.FromEnvironment()

	flags := pflag.NewFlagSet("dsh", pflag.ContinueOnError)
	exec := flags.StringP("exec", "e", "", "execute one line and exit")
	file := flags.StringP("file", "f", "", "run a script and exit")
	flags.StringVar(&cfg.MacroDB, "macros", cfg.MacroDB, "where macros are kept: a file for SQLite, otherwise a data source name")
	flags.StringVar(&cfg.MacroDriver, "driver", cfg.MacroDriver, "the database driver for the macro store, one of "+fmt.Sprint(database.GetSortedDrivers()))
	flags.IntVar(&cfg.MaxMacroDepth, "max-depth", cfg.MaxMacroDepth, "how deeply macros may invoke one another")
	flags.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "don't color the output")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log debugging information")
	version := flags.BoolP("version", "v", false, "show the version and exit")
	help := flags.BoolP("help", "h", false, "show this help and exit")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, text.HELP)
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if *help {
		flags.Usage()
		return
	}
	if *version {
		fmt.Println("dsh version " + settings.VERSION)
		return
	}

	settings.Configure(cfg)
	text.SetColor(!cfg.NoColor)

	h, closeStore := newHub(cfg)
	defer closeStore()

	switch {
	case *exec != "":
		if err := h.Exec(*exec, os.Stdout); err != nil {
			closeStore()
			os.Exit(1)
		}
	case *file != "":
		script, err := os.Open(*file)
		if err != nil {
			fmt.Fprintln(os.Stderr, text.Red(err.Error()))
			closeStore()
			os.Exit(1)
		}
		defer script.Close()
		if err := h.RunScript(script, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, text.Red(err.Error()))
			closeStore()
			os.Exit(1)
		}
	default:
		fmt.Print(text.Logo())
		repl.Start(h, os.Stdout)
	}
}

// Sets up the hub with the builtins and whatever macros are in the store. If the store can't be
// opened, we warn and carry on without one.
func newHub(cfg settings.Config) (*hub.Hub, func()) {
	commands := command.NewRegistry()
	builtins.Register(commands)

	closeStore := func() {}
	var store macro.Store
	macroStore, err := database.Open(cfg.MacroDriver, cfg.MacroDB)
	if err != nil {
		settings.Logger().Warnf("macros won't be saved: %v", err)
	} else {
		store = macroStore
		closeStore = func() { macroStore.Close() }
	}
	macros := macro.NewRegistry(store)
	if err := macros.Load(lexer.NewTokenizer("")); err != nil {
		settings.Logger().Warn(err.Error())
	}

	d := dispatcher.New(object.NewEnclosedEnvironment(builtins.Constants()), commands, macros)
	d.SetMaxMacroDepth(cfg.MaxMacroDepth)
	return hub.New(d), closeStore
}
