package lexer

// The RuneSupplier walks along a line of input one rune at a time. It's shared by the tokenizer
// and by anything else that needs to slurp up e.g. a string literal the same way the tokenizer
// does.
type RuneSupplier struct {
	code []rune
	pos  int
}

func NewRuneSupplier(code []rune) *RuneSupplier {
	return &RuneSupplier{code: code}
}

// Points the supplier at a new line.
func (rs *RuneSupplier) Reset(code []rune) {
	rs.code = code
	rs.pos = 0
}

func (rs *RuneSupplier) CurrentRune() rune {
	if rs.pos < len(rs.code) {
		return rs.code[rs.pos]
	}
	return 0
}

func (rs *RuneSupplier) Next() {
	if rs.pos < len(rs.code) {
		rs.pos++
	}
}

// Moves on n runes, or to the end, whichever comes first.
func (rs *RuneSupplier) Skip(n int) {
	rs.pos = min(rs.pos+n, len(rs.code))
}

func (rs *RuneSupplier) AtEnd() bool {
	return rs.pos >= len(rs.code)
}

func (rs *RuneSupplier) Position() int {
	return rs.pos
}

// The rest of the line, from the current rune on.
func (rs *RuneSupplier) Remaining() string {
	if rs.pos >= len(rs.code) {
		return ""
	}
	return string(rs.code[rs.pos:])
}

// The text between two positions.
func (rs *RuneSupplier) Slice(start, end int) string {
	return string(rs.code[max(start, 0):min(end, len(rs.code))])
}
