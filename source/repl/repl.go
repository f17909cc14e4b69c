package repl

import (
	"io"
	"strings"

	"github.com/lmorg/readline"

	"github.com/tim-hardcastle/dsh/source/hub"
)

// Reads lines from the terminal and feeds them to the hub until the user quits or the input
// ends, e.g. with ctrl-D.
func Start(h *hub.Hub, out io.Writer) {
	rline := readline.NewInstance()
	rline.TabCompleter = tabCompleter(h)
	for {
		rline.SetPrompt(h.Prompt())
		line, err := rline.Readline()
		if err != nil {
			return
		}
		output, quit := h.Do(line)
		if output != "" {
			io.WriteString(out, output+"\n")
		}
		if quit {
			return
		}
	}
}

// Completes the word the cursor is at the end of. Readline prints the suggestions verbatim after
// what's been typed, so they must be cropped to what's still missing.
func tabCompleter(h *hub.Hub) func([]rune, int, readline.DelayedTabContext) (string, []string, map[string]string, readline.TabDisplayType) {
	return func(line []rune, pos int, dtx readline.DelayedTabContext) (string, []string, map[string]string, readline.TabDisplayType) {
		typed := string(line[:pos])
		start := strings.LastIndexAny(typed, " \t") + 1
		word := typed[start:]
		suggestions := []string{}
		for _, candidate := range h.Complete(word) {
			suggestions = append(suggestions, candidate[len(word):])
		}
		return word, suggestions, nil, readline.TabDisplayGrid
	}
}
