package domain

import (
	"errors"
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokString
	tokChar
	tokPunct
	tokDirective
)

// token is a lexical unit of C++ source. String and character literals keep
// only their delimiters; their contents never take part in scanning.
type token struct {
	kind tokenKind
	text string
	line int
}

func (t token) is(text string) bool {
	return t.kind == tokPunct && t.text == text
}

func (t token) isIdent(text string) bool {
	return t.kind == tokIdent && t.text == text
}

var (
	errUnterminatedComment = errors.New("unterminated block comment")
	errUnterminatedLiteral = errors.New("unterminated literal")
	errBinaryContent       = errors.New("content is not text")
)

var punctuators3 = []string{"<<=", ">>=", "...", "->*", "<=>"}

var punctuators2 = []string{
	"::", "->", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "##", ".*",
}

var literalPrefixes = map[string]bool{"u8": true, "u": true, "U": true, "L": true}

var rawLiteralPrefixes = map[string]bool{"R": true, "u8R": true, "uR": true, "UR": true, "LR": true}

type lexer struct {
	src         string
	pos         int
	line        int
	atLineStart bool
	tokens      []token
}

// tokenize splits C++ source into tokens, dropping comments and literal bodies.
func tokenize(src string) ([]token, error) {
	if strings.IndexByte(src, 0) >= 0 {
		return nil, errBinaryContent
	}

	lx := &lexer{src: src, line: 1, atLineStart: true}
	if err := lx.run(); err != nil {
		return nil, err
	}

	return lx.tokens, nil
}

func (lx *lexer) run() error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		switch {
		case c == '\n':
			lx.line++
			lx.pos++
			lx.atLineStart = true
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			lx.pos++
		case c == '\\' && lx.peek(1) == '\n':
			lx.pos += 2
			lx.line++
		case c == '/' && lx.peek(1) == '/':
			lx.skipLineComment()
		case c == '/' && lx.peek(1) == '*':
			if err := lx.skipBlockComment(); err != nil {
				return err
			}
		case c == '#' && lx.atLineStart:
			lx.readDirective()
		case isIdentStart(c):
			if err := lx.readIdentOrPrefixedLiteral(); err != nil {
				return err
			}
		case isDigit(c) || (c == '.' && isDigit(lx.peek(1))):
			lx.readNumber()
		case c == '"' || c == '\'':
			if err := lx.readQuoted(c, ""); err != nil {
				return err
			}
		default:
			lx.readPunct()
		}
	}

	return nil
}

func (lx *lexer) peek(offset int) byte {
	if lx.pos+offset >= len(lx.src) {
		return 0
	}

	return lx.src[lx.pos+offset]
}

func (lx *lexer) emit(kind tokenKind, text string, line int) {
	lx.tokens = append(lx.tokens, token{kind: kind, text: text, line: line})
	lx.atLineStart = false
}

func (lx *lexer) skipLineComment() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
}

func (lx *lexer) skipBlockComment() error {
	end := strings.Index(lx.src[lx.pos+2:], "*/")
	if end < 0 {
		return fmt.Errorf("line %d: %w", lx.line, errUnterminatedComment)
	}

	body := lx.src[lx.pos : lx.pos+2+end+2]
	lx.line += strings.Count(body, "\n")
	lx.pos += len(body)

	return nil
}

// readDirective consumes a preprocessor line, joining backslash continuations.
func (lx *lexer) readDirective() {
	start := lx.line

	var b strings.Builder

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '\\' && lx.peek(1) == '\n' {
			b.WriteByte(' ')
			lx.pos += 2
			lx.line++

			continue
		}

		if c == '/' && lx.peek(1) == '/' {
			lx.skipLineComment()
			break
		}

		if c == '\n' {
			break
		}

		b.WriteByte(c)
		lx.pos++
	}

	lx.emit(tokDirective, strings.TrimSpace(b.String()), start)
	lx.atLineStart = true
}

func (lx *lexer) readIdentOrPrefixedLiteral() error {
	start := lx.pos
	for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
		lx.pos++
	}

	word := lx.src[start:lx.pos]
	next := lx.peek(0)

	if next == '"' && rawLiteralPrefixes[word] {
		return lx.readRawString()
	}

	if (next == '"' || next == '\'') && literalPrefixes[word] {
		return lx.readQuoted(next, word)
	}

	lx.emit(tokIdent, word, lx.line)

	return nil
}

func (lx *lexer) readNumber() {
	start := lx.pos

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		switch {
		case isIdentPart(c) || c == '.':
			lx.pos++
		case c == '\'' && isIdentPart(lx.peek(1)):
			lx.pos++
		case (c == '+' || c == '-') && lx.pos > start && strings.ContainsRune("eEpP", rune(lx.src[lx.pos-1])):
			lx.pos++
		default:
			lx.emit(tokNumber, lx.src[start:lx.pos], lx.line)
			return
		}
	}

	lx.emit(tokNumber, lx.src[start:lx.pos], lx.line)
}

// readQuoted consumes a string or character literal. The emitted token keeps
// the prefix and delimiters only.
func (lx *lexer) readQuoted(quote byte, prefix string) error {
	line := lx.line
	lx.pos++

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		switch c {
		case '\\':
			if lx.peek(1) == '\n' {
				lx.line++
			}

			lx.pos += 2
		case '\n':
			return fmt.Errorf("line %d: %w", line, errUnterminatedLiteral)
		case quote:
			lx.pos++

			kind := tokString
			if quote == '\'' {
				kind = tokChar
			}

			lx.emit(kind, prefix+string(quote)+string(quote), line)

			return nil
		default:
			lx.pos++
		}
	}

	return fmt.Errorf("line %d: %w", line, errUnterminatedLiteral)
}

// readRawString consumes R"delim( ... )delim".
func (lx *lexer) readRawString() error {
	line := lx.line
	open := strings.IndexByte(lx.src[lx.pos:], '(')

	if open < 0 {
		return fmt.Errorf("line %d: %w", line, errUnterminatedLiteral)
	}

	delim := lx.src[lx.pos+1 : lx.pos+open]
	closing := ")" + delim + "\""
	bodyStart := lx.pos + open + 1

	end := strings.Index(lx.src[bodyStart:], closing)
	if end < 0 {
		return fmt.Errorf("line %d: %w", line, errUnterminatedLiteral)
	}

	consumed := lx.src[lx.pos : bodyStart+end+len(closing)]
	lx.line += strings.Count(consumed, "\n")
	lx.pos += len(consumed)
	lx.emit(tokString, `""`, line)

	return nil
}

func (lx *lexer) readPunct() {
	rest := lx.src[lx.pos:]

	for _, group := range [][]string{punctuators3, punctuators2} {
		for _, p := range group {
			if strings.HasPrefix(rest, p) {
				lx.pos += len(p)
				lx.emit(tokPunct, p, lx.line)

				return
			}
		}
	}

	lx.pos++
	lx.emit(tokPunct, rest[:1], lx.line)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
