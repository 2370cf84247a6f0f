package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

var errUnbalancedBraces = errors.New("unbalanced braces")

type scopeKind int

const (
	scopeNamespace scopeKind = iota
	scopeClass
)

type scope struct {
	kind      scopeKind
	name      string
	access    m.Access
	symbolIdx int
}

// pendingSymbol is a definition found by the scanner before out-of-line
// qualifiers are resolved against the whole project.
type pendingSymbol struct {
	symbol     m.ExtractedSymbol
	qualifiers []string
	inClass    bool
	friend     bool
}

// fileScan is the per-file result of scanning. It depends only on the file
// content, so it can be cached by content hash.
type fileScan struct {
	symbols      []pendingSymbol
	includes     []string
	classNames   map[string]bool
	namespaces   map[string]bool
	memberAccess map[string]map[string]m.Access
}

var declSpecifiers = map[string]bool{
	"static": true, "inline": true, "virtual": true, "explicit": true, "constexpr": true,
	"consteval": true, "constinit": true, "extern": true, "friend": true, "thread_local": true,
}

var tailQualifiers = map[string]bool{
	"const": true, "volatile": true, "override": true, "final": true, "mutable": true,
	"&": true, "&&": true,
}

var notFunctionNames = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true, "return": true,
	"sizeof": true, "alignof": true, "decltype": true, "alignas": true, "noexcept": true,
	"throw": true, "static_assert": true, "typeid": true, "new": true, "delete": true,
	"__attribute__": true, "__declspec": true, "requires": true, "co_return": true,
}

var classKeys = map[string]bool{"class": true, "struct": true, "union": true}

// scanner walks one file's tokens tracking namespace and class scopes.
type scanner struct {
	path   string
	toks   []token
	stack  []scope
	result fileScan
}

func scanSource(path, content string) (fileScan, error) {
	toks, err := tokenize(content)
	if err != nil {
		return fileScan{}, err
	}

	s := &scanner{
		path: path,
		toks: toks,
		result: fileScan{
			classNames:   map[string]bool{},
			namespaces:   map[string]bool{},
			memberAccess: map[string]map[string]m.Access{},
		},
	}

	if err := s.run(); err != nil {
		return fileScan{}, err
	}

	return s.result, nil
}

func (s *scanner) top() *scope {
	if len(s.stack) == 0 {
		return nil
	}

	return &s.stack[len(s.stack)-1]
}

// className returns the innermost class name, or "" outside class bodies.
func (s *scanner) className() string {
	if top := s.top(); top != nil && top.kind == scopeClass {
		return top.name
	}

	return ""
}

func (s *scanner) inClass() bool {
	top := s.top()
	return top != nil && top.kind == scopeClass
}

//nolint:gocognit,cyclop // a single token loop keeps scope handling in one place
func (s *scanner) run() error {
	var (
		buf   []token
		depth int
		i     int
	)

	reset := func() {
		buf = buf[:0]
		depth = 0
	}

	for i < len(s.toks) {
		t := s.toks[i]

		switch {
		case t.kind == tokDirective:
			s.directive(t)
			i++

			continue
		case t.is("(") || t.is("["):
			depth++
		case t.is(")") || t.is("]"):
			if depth > 0 {
				depth--
			}
		case t.is(";"):
			if s.inClass() {
				s.memberDeclaration(buf)
			}

			reset()
			i++

			continue
		case t.is(":") && len(buf) > 0 && s.inClass() && isAccessKeyword(buf[len(buf)-1].text):
			s.top().access = m.Access(buf[len(buf)-1].text)
			reset()
			i++

			continue
		case t.is("}"):
			if len(s.stack) == 0 {
				return fmt.Errorf("line %d: %w", t.line, errUnbalancedBraces)
			}

			s.closeScope(t.line)
			reset()
			i++

			continue
		case t.is("{"):
			next, consumed, err := s.openBrace(buf, depth, i)
			if err != nil {
				return err
			}

			i = next
			if consumed {
				reset()
			} else {
				buf = append(buf, token{kind: tokPunct, text: "{", line: t.line}, token{kind: tokPunct, text: "}", line: t.line})
			}

			continue
		}

		buf = append(buf, t)
		i++
	}

	if len(s.stack) > 0 {
		return fmt.Errorf("end of file inside %q: %w", s.top().name, errUnbalancedBraces)
	}

	return nil
}

func (s *scanner) directive(t token) {
	text := strings.TrimSpace(strings.TrimPrefix(t.text, "#"))
	if !strings.HasPrefix(text, "include") {
		return
	}

	rest := strings.TrimSpace(strings.TrimPrefix(text, "include"))
	if len(rest) < 2 {
		return
	}

	var closing byte

	switch rest[0] {
	case '<':
		closing = '>'
	case '"':
		closing = '"'
	default:
		return
	}

	if end := strings.IndexByte(rest[1:], closing); end >= 0 {
		s.result.includes = append(s.result.includes, rest[1:1+end])
	}
}

// openBrace decides what the '{' at index i opens, given the declaration
// tokens gathered since the last statement boundary. It returns the index to
// resume at and whether the declaration is complete.
func (s *scanner) openBrace(buf []token, depth, i int) (int, bool, error) {
	if depth > 0 {
		end, err := s.matchBrace(i)
		return end + 1, false, err
	}

	if len(buf) == 0 {
		end, err := s.matchBrace(i)
		return end + 1, true, err
	}

	if name, ok := namespaceHead(buf); ok {
		s.stack = append(s.stack, scope{kind: scopeNamespace, name: name, symbolIdx: -1})
		if name != "" {
			s.result.namespaces[name] = true
		}

		return i + 1, true, nil
	}

	if head, ok := parseFunctionHead(buf, s.className()); ok {
		if head.braceInit {
			end, err := s.matchBrace(i)
			return end + 1, false, err
		}

		end, err := s.matchBrace(i)
		if err != nil {
			return 0, false, err
		}

		s.recordFunction(buf, head, s.toks[end].line)

		return end + 1, true, nil
	}

	if name, ok := classHead(buf); ok {
		s.openClass(buf, name)
		return i + 1, true, nil
	}

	end, err := s.matchBrace(i)

	return end + 1, isBlockStatement(buf), err
}

func (s *scanner) matchBrace(i int) (int, error) {
	level := 0

	for j := i; j < len(s.toks); j++ {
		switch {
		case s.toks[j].is("{"):
			level++
		case s.toks[j].is("}"):
			level--
			if level == 0 {
				return j, nil
			}
		}
	}

	return 0, fmt.Errorf("line %d: %w", s.toks[i].line, errUnbalancedBraces)
}

func (s *scanner) closeScope(line int) {
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]

	if top.kind == scopeClass && top.symbolIdx >= 0 {
		s.result.symbols[top.symbolIdx].symbol.Span.EndLine = line
	}
}

func (s *scanner) enclosing() (namespaces, classes []string) {
	for _, sc := range s.stack {
		if sc.name == "" {
			continue
		}

		if sc.kind == scopeNamespace {
			namespaces = append(namespaces, sc.name)
		} else {
			classes = append(classes, sc.name)
		}
	}

	return namespaces, classes
}

func (s *scanner) openClass(buf []token, name string) {
	access := m.AccessPrivate
	if keyword := classKeyword(buf); keyword == "struct" || keyword == "union" {
		access = m.AccessPublic
	}

	idx := -1

	if name != "" {
		namespaces, classes := s.enclosing()
		s.result.classNames[lastComponent(name)] = true

		sym := m.ExtractedSymbol{
			Kind:          m.SymbolClass,
			Name:          lastComponent(name),
			QualifiedName: joinScope(namespaces, classes, name),
			Class:         strings.Join(classes, "::"),
			Span:          m.Span{File: s.path, StartLine: buf[0].line, EndLine: buf[0].line},
		}

		if top := s.top(); top != nil && top.kind == scopeClass {
			sym.Access = top.access
		}

		s.result.symbols = append(s.result.symbols, pendingSymbol{symbol: sym, inClass: s.inClass()})
		idx = len(s.result.symbols) - 1
		name = lastComponent(name)
	}

	s.stack = append(s.stack, scope{kind: scopeClass, name: name, access: access, symbolIdx: idx})
}

func (s *scanner) recordFunction(buf []token, head functionHead, endLine int) {
	namespaces, classes := s.enclosing()
	inClass := s.inClass() && !head.friend

	owner := append([]string{}, classes...)
	if !inClass {
		owner = nil
	}

	owner = append(owner, head.qualifiers...)

	qualified := append(append([]string{}, namespaces...), owner...)
	qualified = append(qualified, head.name)

	sym := m.ExtractedSymbol{
		Kind:          m.SymbolFunction,
		Name:          head.name,
		QualifiedName: strings.Join(qualified, "::"),
		Signature:     head.signature,
		ReturnType:    head.returnType,
		Span:          m.Span{File: s.path, StartLine: buf[head.start].line, EndLine: endLine},
	}

	if inClass {
		sym.Kind = m.SymbolMethod
		sym.Class = strings.Join(classes, "::")
		sym.Access = s.top().access
	}

	s.result.symbols = append(s.result.symbols, pendingSymbol{
		symbol:     sym,
		qualifiers: head.qualifiers,
		inClass:    inClass,
		friend:     head.friend,
	})
}

// memberDeclaration remembers the access level of in-class member function
// declarations so out-of-line definitions can inherit it.
func (s *scanner) memberDeclaration(buf []token) {
	if len(buf) == 0 {
		return
	}

	head, ok := parseFunctionHead(trimPureSpecifier(buf), s.className())
	if !ok || head.braceInit || head.friend {
		return
	}

	top := s.top()
	if top.name == "" {
		return
	}

	members := s.result.memberAccess[top.name]
	if members == nil {
		members = map[string]m.Access{}
		s.result.memberAccess[top.name] = members
	}

	if members[head.name] != m.AccessPublic {
		members[head.name] = top.access
	}
}

// trimPureSpecifier drops a trailing "= 0", "= default" or "= delete".
func trimPureSpecifier(buf []token) []token {
	for j := len(buf) - 1; j > 0; j-- {
		if buf[j].is("=") {
			return buf[:j]
		}

		if buf[j].is(")") {
			break
		}
	}

	return buf
}

func isAccessKeyword(text string) bool {
	return text == string(m.AccessPublic) || text == string(m.AccessPrivate) || text == string(m.AccessProtected)
}

func isBlockStatement(buf []token) bool {
	return len(buf) > 0 && (buf[0].isIdent("enum") || buf[len(buf)-1].is(")"))
}

// namespaceHead recognizes "namespace a::b", anonymous namespaces, and
// extern "C" linkage blocks, which are transparent scopes.
func namespaceHead(buf []token) (string, bool) {
	start := 0
	if buf[0].isIdent("inline") && len(buf) > 1 {
		start = 1
	}

	if buf[start].isIdent("namespace") {
		var parts []string

		for _, t := range buf[start+1:] {
			switch {
			case t.kind == tokIdent:
				parts = append(parts, t.text)
			case t.is("::"):
			default:
				return "", false
			}
		}

		return strings.Join(parts, "::"), true
	}

	if len(buf) == 2 && buf[0].isIdent("extern") && buf[1].kind == tokString {
		return "", true
	}

	return "", false
}

func classKeyword(buf []token) string {
	angle := 0

	for j, t := range buf {
		switch {
		case t.is("<"):
			angle++
		case t.is(">"):
			angle--
		case t.is(">>"):
			angle -= 2
		case angle <= 0 && t.kind == tokIdent && classKeys[t.text]:
			if j > 0 && buf[j-1].isIdent("enum") {
				return ""
			}

			return t.text
		}
	}

	return ""
}

// classHead returns the (possibly empty) class name when buf opens a class,
// struct or union body.
func classHead(buf []token) (string, bool) {
	angle := 0
	key := -1

	for j, t := range buf {
		if t.is("<") {
			angle++
		} else if t.is(">") {
			angle--
		} else if t.is(">>") {
			angle -= 2
		}

		if angle <= 0 && t.kind == tokIdent && classKeys[t.text] && !(j > 0 && buf[j-1].isIdent("enum")) {
			key = j
			break
		}
	}

	if key < 0 {
		return "", false
	}

	var name []string

	for j := key + 1; j < len(buf); j++ {
		t := buf[j]

		switch {
		case t.is(":"):
			return strings.Join(name, "::"), true
		case t.isIdent("final"):
		case t.is("::"):
		case t.is("<"), t.is("("), t.is("["):
			close := skipGroup(buf, j)
			if close < 0 {
				return "", false
			}

			j = close
		case t.kind == tokIdent:
			if j > key+1 && !buf[j-1].is("::") {
				name = name[:0]
			}

			name = append(name, t.text)
		default:
			return "", false
		}
	}

	return strings.Join(name, "::"), true
}

// skipGroup returns the index of the bracket closing the group opened at j.
func skipGroup(buf []token, j int) int {
	open := buf[j].text
	closing := map[string]string{"(": ")", "[": "]", "<": ">"}[open]
	level := 0

	for k := j; k < len(buf); k++ {
		switch {
		case buf[k].is(open):
			level++
		case buf[k].is(closing):
			level--
		case open == "<" && buf[k].is(">>"):
			level -= 2
		}

		if level <= 0 {
			return k
		}
	}

	return -1
}

func lastComponent(name string) string {
	if idx := strings.LastIndex(name, "::"); idx >= 0 {
		return name[idx+2:]
	}

	return name
}

func joinScope(namespaces, classes []string, name string) string {
	parts := append(append(append([]string{}, namespaces...), classes...), name)
	return strings.Join(parts, "::")
}

func isMacroName(text string) bool {
	hasLetter := false

	for _, r := range text {
		switch {
		case unicode.IsUpper(r):
			hasLetter = true
		case r == '_' || unicode.IsDigit(r):
		default:
			return false
		}
	}

	return hasLetter
}
