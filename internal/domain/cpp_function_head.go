package domain

import (
	"sort"
	"strings"
)

// functionHead describes a function definition header found in a
// declaration token run.
type functionHead struct {
	name       string
	qualifiers []string
	returnType string
	signature  string
	start      int
	friend     bool
	// braceInit is set when the pending '{' belongs to a brace-initialized
	// member in a constructor initializer list rather than to the body.
	braceInit bool
}

type parenCandidate struct {
	open, close int
	angle       int
	operatorAt  int
}

var rejectedLeads = map[string]bool{
	"return": true, "using": true, "typedef": true, "else": true, "do": true,
	"goto": true, "case": true, "enum": true, "namespace": true, "static_assert": true,
}

// parseFunctionHead looks for "<return type> name(params) <tail>" in buf.
// className is the enclosing class name ("" outside classes) and is used to
// recognize constructors, which have no return type.
func parseFunctionHead(buf []token, className string) (functionHead, bool) {
	candidates := parenCandidates(buf)

	// Parens outside template brackets are tried first; a '<' that never
	// closes (comparisons, operator<) must not hide the real parameter list.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].angle == 0 && candidates[j].angle != 0
	})

	for _, c := range candidates {
		if head, ok := headAt(buf, c, className); ok {
			return head, true
		}
	}

	return functionHead{}, false
}

func parenCandidates(buf []token) []parenCandidate {
	var (
		out   []parenCandidate
		angle int
	)

	for j := 0; j < len(buf); j++ {
		t := buf[j]

		switch {
		case t.isIdent("operator"):
			open := operatorParams(buf, j)
			if open < 0 {
				return out
			}

			close := skipGroup(buf, open)
			if close < 0 {
				return out
			}

			out = append(out, parenCandidate{open: open, close: close, angle: angle, operatorAt: j})
			j = close
		case t.is("<") && j > 0 && (buf[j-1].kind == tokIdent):
			angle++
		case t.is(">") && angle > 0:
			angle--
		case t.is(">>") && angle > 0:
			angle = max(angle-2, 0)
		case t.is("[") || t.is("{"):
			if close := skipAnyGroup(buf, j); close > 0 {
				j = close
			}
		case t.is("("):
			close := skipGroup(buf, j)
			if close < 0 {
				return out
			}

			out = append(out, parenCandidate{open: j, close: close, angle: angle, operatorAt: -1})
			j = close
		}
	}

	return out
}

// operatorParams returns the index of the '(' opening the parameter list of
// the operator whose keyword is at k.
func operatorParams(buf []token, k int) int {
	j := k + 1
	if j+1 < len(buf) && buf[j].is("(") && buf[j+1].is(")") {
		j += 2
	}

	for ; j < len(buf); j++ {
		if buf[j].is("(") {
			return j
		}
	}

	return -1
}

func skipAnyGroup(buf []token, j int) int {
	if buf[j].is("{") {
		level := 0

		for k := j; k < len(buf); k++ {
			switch {
			case buf[k].is("{"):
				level++
			case buf[k].is("}"):
				level--
				if level == 0 {
					return k
				}
			}
		}

		return -1
	}

	return skipGroup(buf, j)
}

func headAt(buf []token, c parenCandidate, className string) (functionHead, bool) {
	name, nameStart, ok := functionName(buf, c)
	if !ok {
		return functionHead{}, false
	}

	qualifiers, declStart := qualifiersBefore(buf, nameStart)

	quals, trailing, braceInit, ok := parseTail(buf[c.close+1:])
	if !ok {
		return functionHead{}, false
	}

	head := functionHead{
		name:       name,
		qualifiers: qualifiers,
		signature:  "(" + renderTokens(buf[c.open+1:c.close]) + ")",
		braceInit:  braceInit,
	}

	if len(quals) > 0 {
		head.signature += " " + strings.Join(quals, " ")
	}

	retToks, start, friend, ok := returnTypeTokens(buf[:declStart])
	if !ok {
		return functionHead{}, false
	}

	head.friend = friend
	head.start = start
	head.returnType = renderTokens(retToks)

	if head.returnType == "auto" && trailing != "" {
		head.returnType = trailing
	}

	if len(retToks) == 0 {
		if !isSpecialMember(name, qualifiers, className) {
			return functionHead{}, false
		}

		head.start = declStart
	}

	return head, true
}

func functionName(buf []token, c parenCandidate) (string, int, bool) {
	if c.operatorAt >= 0 {
		ops := buf[c.operatorAt+1 : c.open]
		if len(ops) == 0 {
			return "", 0, false
		}

		name := "operator"
		if ops[0].kind == tokIdent {
			name += " "
		}

		return name + renderTokens(ops), c.operatorAt, true
	}

	p := c.open
	if p == 0 {
		return "", 0, false
	}

	prev := buf[p-1]

	switch {
	case prev.kind == tokIdent && !notFunctionNames[prev.text]:
		if p >= 2 && buf[p-2].is("~") {
			return "~" + prev.text, p - 2, true
		}

		return prev.text, p - 1, true
	case prev.is(">"):
		open := matchAngleBackward(buf, p-1)
		if open > 0 && buf[open-1].kind == tokIdent && !notFunctionNames[buf[open-1].text] {
			return buf[open-1].text, open - 1, true
		}
	}

	return "", 0, false
}

// qualifiersBefore collects "A::B::" prefixes in front of the name at k.
func qualifiersBefore(buf []token, k int) ([]string, int) {
	var quals []string

	for k >= 2 && buf[k-1].is("::") {
		prev := buf[k-2]

		switch {
		case prev.kind == tokIdent:
			quals = append([]string{prev.text}, quals...)
			k -= 2
		case prev.is(">"):
			open := matchAngleBackward(buf, k-2)
			if open <= 0 || buf[open-1].kind != tokIdent {
				return quals, k
			}

			quals = append([]string{buf[open-1].text}, quals...)
			k = open - 1
		default:
			return quals, k
		}
	}

	if k >= 1 && buf[k-1].is("::") {
		k--
	}

	return quals, k
}

func matchAngleBackward(buf []token, j int) int {
	level := 0

	for k := j; k >= 0; k-- {
		switch {
		case buf[k].is(">"):
			level++
		case buf[k].is(">>"):
			level += 2
		case buf[k].is("<"):
			level--
			if level == 0 {
				return k
			}
		}
	}

	return -1
}

// parseTail validates what follows the parameter list: cv/ref qualifiers,
// exception specifications, attributes, trailing return types, and
// constructor initializer lists.
func parseTail(tail []token) (quals []string, trailing string, braceInit, ok bool) {
	for j := 0; j < len(tail); {
		t := tail[j]

		switch {
		case (t.kind == tokIdent || t.kind == tokPunct) && tailQualifiers[t.text]:
			quals = append(quals, t.text)
			j++
		case t.isIdent("noexcept") || t.isIdent("throw"):
			quals = append(quals, t.text)
			j++

			if j < len(tail) && tail[j].is("(") {
				close := skipGroup(tail, j)
				if close < 0 {
					return nil, "", false, false
				}

				j = close + 1
			}
		case t.is("["):
			close := skipGroup(tail, j)
			if close < 0 {
				return nil, "", false, false
			}

			j = close + 1
		case t.isIdent("try"):
			j++
		case t.is("->"):
			return quals, renderTokens(tail[j+1:]), false, true
		case t.isIdent("requires"):
			return quals, "", false, true
		case t.is(":"):
			last := tail[len(tail)-1]
			return quals, "", last.kind == tokIdent || last.is(">"), true
		case t.kind == tokIdent && isMacroName(t.text):
			j++
		default:
			return nil, "", false, false
		}
	}

	return quals, "", false, true
}

// returnTypeTokens strips template prefixes, attributes, macro calls and
// declaration specifiers from the tokens in front of a function name.
func returnTypeTokens(lead []token) ([]token, int, bool, bool) {
	var (
		out    []token
		start  = -1
		friend bool
	)

	for j := 0; j < len(lead); j++ {
		t := lead[j]

		switch {
		case t.isIdent("template") && j+1 < len(lead) && lead[j+1].is("<"):
			close := skipGroup(lead, j+1)
			if close < 0 {
				return nil, 0, false, false
			}

			j = close
		case t.is("["):
			close := skipGroup(lead, j)
			if close < 0 {
				return nil, 0, false, false
			}

			j = close
		case t.kind == tokIdent && j+1 < len(lead) && lead[j+1].is("(") && (isMacroName(t.text) || t.text == "__attribute__" || t.text == "__declspec" || t.text == "alignas"):
			close := skipGroup(lead, j+1)
			if close < 0 {
				return nil, 0, false, false
			}

			j = close
		case t.kind == tokIdent && declSpecifiers[t.text]:
			if t.text == "friend" {
				friend = true
			}

			if start < 0 {
				start = j
			}
		default:
			if len(out) == 0 && t.kind == tokIdent && rejectedLeads[t.text] {
				return nil, 0, false, false
			}

			if t.is("(") || t.is("=") || t.is("{") || t.is(";") || t.kind == tokString {
				return nil, 0, false, false
			}

			if start < 0 {
				start = j
			}

			out = append(out, t)
		}
	}

	if start < 0 {
		start = 0
	}

	return out, start, friend, true
}

// isSpecialMember reports whether a function without a return type is a
// constructor, destructor, or conversion operator.
func isSpecialMember(name string, qualifiers []string, className string) bool {
	if strings.HasPrefix(name, "~") || strings.HasPrefix(name, "operator ") {
		return className != "" || len(qualifiers) > 0
	}

	if className != "" && name == className {
		return true
	}

	return len(qualifiers) > 0 && qualifiers[len(qualifiers)-1] == name
}

// renderTokens joins tokens back into readable C++ text.
func renderTokens(toks []token) string {
	var b strings.Builder

	for i, t := range toks {
		if i > 0 && needsSpace(toks[i-1], t) {
			b.WriteByte(' ')
		}

		b.WriteString(t.text)
	}

	return b.String()
}

func needsSpace(prev, cur token) bool {
	wordy := func(t token) bool { return t.kind != tokPunct }

	switch {
	case wordy(prev) && wordy(cur):
		return true
	case prev.is(","), prev.is("="), cur.is("="):
		return true
	case (prev.is("&") || prev.is("&&") || prev.is("*") || prev.is(">")) && wordy(cur):
		return true
	}

	return false
}
