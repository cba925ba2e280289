// Package asp implements the line-oriented fact syntax used by Answer Set
// Programming solvers to describe graphs.
//
// # Format
//
// A fact is a predicate applied to zero or more arguments, terminated by a
// period:
//
//	edge(a,b).
//	node(c).
//	label(a,"hello world").
//	z.
//
// Arguments are bare identifiers, numeric literals, or single- or
// double-quoted strings with backslash escapes for embedded quotes. Canonical
// output always uses double quotes. Blank lines and lines starting with % are
// comments.
//
// # Parsing Policy
//
// Fact files in the wild are often hand-edited or produced by generators with
// quirks, so [ParseLine] distinguishes three outcomes: a parsed [Atom], a
// line to skip ([ErrSkipLine] for blanks and comments), or a [*SyntaxError]
// for structurally malformed input. [Read] turns that into two modes: lenient
// (default), where malformed lines are skipped and reported through a
// callback, and strict, where the first malformed line aborts the read.
package asp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrSkipLine is returned by [ParseLine] for lines that carry no fact:
// blank lines and % comments. Callers should skip the line and continue.
var ErrSkipLine = errors.New("skip line")

// SyntaxError describes a structurally malformed fact line.
// The column is 1-based and points at the offending character where known.
type SyntaxError struct {
	Col    int
	Reason string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Col > 0 {
		return fmt.Sprintf("col %d: %s", e.Col, e.Reason)
	}
	return e.Reason
}

// Atom is a single parsed fact: a predicate name and its ordered arguments.
// Atoms are immutable value types; the parser produces them and the graph
// builder consumes them.
type Atom struct {
	Predicate string
	Args      []string
}

// Arity returns the number of arguments.
func (a Atom) Arity() int { return len(a.Args) }

// String renders the atom as a canonical fact line, quoting arguments only
// when they are not valid bare terms. Parsing the result yields an equal atom.
func (a Atom) String() string {
	var b strings.Builder
	b.WriteString(a.Predicate)
	if len(a.Args) > 0 {
		b.WriteByte('(')
		for i, arg := range a.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(QuoteTerm(arg))
		}
		b.WriteByte(')')
	}
	b.WriteByte('.')
	return b.String()
}

// QuoteTerm returns the term as it should appear in a fact line: unchanged
// when it is a valid bare identifier or numeric literal, double-quoted with
// escapes otherwise.
func QuoteTerm(s string) string {
	if isBareTerm(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// isBareTerm reports whether s can appear unquoted as an argument.
// Identifiers start with a lowercase letter or underscore; numeric literals
// are an optional minus followed by digits and at most one decimal point.
func isBareTerm(s string) bool {
	return isIdentifier(s) || isNumber(s)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r == '_':
		case i > 0 && (r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	dot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return !strings.HasSuffix(s, ".")
}

// ParseLine parses one line of fact text.
//
// It returns [ErrSkipLine] for blank lines and % comments, a [*SyntaxError]
// for malformed input (unterminated quote, unbalanced parentheses, missing
// trailing period), and the parsed [Atom] otherwise. A trailing newline is
// not significant.
func ParseLine(line string) (Atom, error) {
	src := strings.TrimRight(line, "\r\n")
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(src, "%") {
		return Atom{}, ErrSkipLine
	}

	p := parser{src: src}
	atom, err := p.atom()
	if err != nil {
		return Atom{}, err
	}
	return atom, nil
}

// parser is a single-line recursive-descent parser over src.
type parser struct {
	src string
	pos int
}

func (p *parser) errf(format string, args ...any) error {
	return &SyntaxError{Col: p.pos + 1, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte { return p.src[p.pos] }

func (p *parser) skipSpace() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.pos++
	}
}

func (p *parser) atom() (Atom, error) {
	name, err := p.identifier()
	if err != nil {
		return Atom{}, err
	}

	atom := Atom{Predicate: name}
	p.skipSpace()
	if !p.eof() && p.peek() == '(' {
		p.pos++
		args, err := p.arguments()
		if err != nil {
			return Atom{}, err
		}
		atom.Args = args
	}

	p.skipSpace()
	if p.eof() || p.peek() != '.' {
		return Atom{}, p.errf("expected terminating period")
	}
	p.pos++
	p.skipSpace()
	if !p.eof() {
		return Atom{}, p.errf("trailing input after period")
	}
	return atom, nil
}

func (p *parser) identifier() (string, error) {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", p.errf("expected predicate name")
	}
	return p.src[start:p.pos], nil
}

// arguments parses a comma-separated argument list. The opening parenthesis
// has already been consumed; the closing one is consumed here.
func (p *parser) arguments() ([]string, error) {
	var args []string
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errf("unbalanced parentheses")
		}
		arg, err := p.term()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		p.skipSpace()
		if p.eof() {
			return nil, p.errf("unbalanced parentheses")
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return args, nil
		default:
			return nil, p.errf("expected ',' or ')', found %q", p.peek())
		}
	}
}

func (p *parser) term() (string, error) {
	if c := p.peek(); c == '"' || c == '\'' {
		return p.quoted(c)
	}
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if c == ',' || c == ')' || c == '(' || c == '"' || c == '\'' || c == ' ' || c == '\t' {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return "", p.errf("empty argument")
	}
	return p.src[start:p.pos], nil
}

// quoted parses a string delimited by delim, either " or '. Both forms share
// the backslash escape rules; rendering via [Atom.String] always produces the
// double-quoted form.
func (p *parser) quoted(delim byte) (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for !p.eof() {
		c := p.peek()
		switch c {
		case delim:
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.eof() {
				return "", p.errf("unterminated quote")
			}
			b.WriteByte(p.peek())
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errf("unterminated quote")
}

// ReadOptions configures [Read].
type ReadOptions struct {
	// Strict aborts the read on the first malformed line instead of
	// skipping it.
	Strict bool

	// OnSkip is invoked for every malformed line skipped in lenient mode,
	// with the 1-based line number, the line text, and the parse error.
	// May be nil.
	OnSkip func(line int, text string, err error)
}

// Read parses a whole fact resource line by line.
//
// Blank lines and comments are always skipped silently. Malformed lines are
// skipped and reported through opts.OnSkip, unless opts.Strict is set, in
// which case the first malformed line fails the read with its line number.
func Read(r io.Reader, opts ReadOptions) ([]Atom, error) {
	var atoms []Atom
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		atom, err := ParseLine(line)
		if err != nil {
			if errors.Is(err, ErrSkipLine) {
				continue
			}
			if opts.Strict {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if opts.OnSkip != nil {
				opts.OnSkip(lineNo, line, err)
			}
			continue
		}
		atoms = append(atoms, atom)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read facts: %w", err)
	}
	return atoms, nil
}
