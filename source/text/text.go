package text

// This consists of a bunch of text utilities to help in generating pretty and meaningful
// help messages, error messages, etc.

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/tim-hardcastle/dsh/source/settings"
)

const (
	BULLET         = "  ▪ "
	BULLET_SPACING = "    " // I.e. whitespace the same width as BULLET.
	PROMPT         = "→ "
	RESULT         = "=> "
)

var (
	cyan   = color.New(color.FgCyan).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// Color is switched off by DSH_NO_COLOR or --no-color, and by fatih/color itself when the output
// isn't a terminal.
func SetColor(on bool) {
	color.NoColor = !on
}

func Cyan(s string) string {
	return cyan(s)
}

func Emph(s string) string {
	return "'" + s + "'"
}

func Red(s string) string {
	return red(s)
}

func Green(s string) string {
	return green(s)
}

func Yellow(s string) string {
	return yellow(s)
}

func GoodBullet() string {
	return Green(BULLET)
}

func BrokenBullet() string {
	return Red("  ✖ ")
}

// For reporting sizes, e.g. of lists and environments, with thousands separated.
func Count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}

func Logo() string {
	titleText := " dsh version " + settings.VERSION + " "
	leftMargin := "  "
	bar := strings.Repeat("═", len(titleText))
	return "\n" +
		leftMargin + "╔" + bar + "╗\n" +
		leftMargin + "║" + titleText + "║\n" +
		leftMargin + "╚" + bar + "╝\n\n"
}

const HELP = "\nUsage: dsh [-v | --version] [-h | --help] [-e | --exec <line>] [-f | --file <script>]\n" +
	"           [--macros <source>] [--driver <driver>] [--max-depth <n>] [--no-color] [--debug]\n\n" +
	"With no line or script to run, dsh starts the REPL.\n\n"

// What the hub shows for 'help'. Text in '...' is highlighted as code.
const REPL_HELP = "A line is either an assignment, 'name = <unit>', or a unit to be evaluated. " +
	"A unit is a value such as '42', '\"text\"', 'true' or 'null', a variable, an expression " +
	"such as '#(x + 2) * 3', a macro such as ';setup', or a command followed by its arguments, " +
	"such as ':gcd 12 18'.\n" +
	"|-\n" +
	"x = 5\n" +
	"y = #(x * 2)\n" +
	":sum [1, 2, y]\n" +
	"|-\n" +
	"The hub understands 'help', 'env', 'clear', 'reset', 'commands', 'macros', 'record <name>', " +
	"'forget <name>', 'show <name>', 'check', 'why', 'version' and 'exit'. While recording, 'undo' removes the last line, " +
	"'show' lists the lines so far, and 'end' saves the macro.\n"

// Highlights a line of help text. Anything enclosed in '...' is code and so is highlighted, as is
// anything in "...". The highlighter carries over from one line to the next, and is returned.
// A ' only starts highlighting after a space or the start of a line, since it might be an
// apostrophe.
func HighlightLine(plainLine string, highlighter rune) (string, rune) {
	var result, code strings.Builder
	prevCh := ' '
	flush := func() {
		result.WriteString(Cyan(code.String()))
		code.Reset()
	}
	for _, ch := range plainLine {
		switch {
		case highlighter == ' ' && (prevCh == ' ' || prevCh == '\n') && (ch == '\'' || ch == '"'):
			highlighter = ch
			code.WriteRune(ch)
		case highlighter != ' ' && ch == highlighter:
			code.WriteRune(ch)
			flush()
			highlighter = ' '
		case highlighter != ' ':
			code.WriteRune(ch)
		default:
			result.WriteRune(ch)
		}
		prevCh = ch
	}
	if code.Len() > 0 {
		flush()
	}
	return result.String(), highlighter
}

// Wraps s between the margins, highlighting code. A line beginning with '|-' opens or closes a
// box for a block of code.
func Pretty(s string, lMargin, rMargin int) string {
	width := rMargin - lMargin
	var result strings.Builder
	codeWidth := -1
	highlighter := ' '
	for _, para := range strings.Split(strings.TrimSuffix(s, "\n"), "\n") {
		if strings.HasPrefix(para, "|-") {
			if codeWidth > 0 {
				result.WriteString(strings.Repeat(" ", lMargin) + "└──" + strings.Repeat("─", codeWidth) + "┘\n")
				codeWidth = -1
			} else {
				codeWidth = width - 6
				result.WriteString(strings.Repeat(" ", lMargin) + "┌──" + strings.Repeat("─", codeWidth) + "┐\n")
			}
			continue
		}
		if codeWidth > 0 {
			padding := codeWidth - len([]rune(para))
			if padding < 0 {
				padding = 0
			}
			result.WriteString(strings.Repeat(" ", lMargin) + "│  " + Cyan(para) + strings.Repeat(" ", padding) + "│\n")
			continue
		}
		for _, line := range wrap(para, width) {
			var str string
			str, highlighter = HighlightLine(line, highlighter)
			result.WriteString(strings.Repeat(" ", lMargin) + str + "\n")
		}
	}
	return result.String()
}

func wrap(para string, width int) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}
	lines := []string{}
	line := words[0]
	for _, word := range words[1:] {
		if len([]rune(line))+1+len([]rune(word)) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line = line + " " + word
	}
	return append(lines, line)
}
