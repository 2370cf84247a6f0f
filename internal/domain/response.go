package domain

import (
	"path"
	"regexp"
	"sort"
	"strings"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

var identifierPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// ParseTestFiles extracts the test files of a model response. Files without a
// filename or with empty content are dropped. The source and covers headers
// are optional; missing values are derived from the filename and content.
func ParseTestFiles(response string, files []m.SourceFile) []m.GeneratedTest {
	var tests []m.GeneratedTest

	parts := strings.Split(response, TestFileStart)
	for _, part := range parts[1:] {
		body, _, found := strings.Cut(part, TestFileEnd)
		if !found {
			continue
		}

		test, ok := parseTestBlock(body)
		if !ok {
			continue
		}

		target := resolveTarget(test.SourceFile, test.Filename, files)
		test.SourceFile = target

		if len(test.FunctionsTested) == 0 {
			test.FunctionsTested = inferClaims(test.Content, target, files)
		}

		tests = append(tests, test)
	}

	return tests
}

func parseTestBlock(body string) (m.GeneratedTest, bool) {
	var (
		test    m.GeneratedTest
		content []string
		inBody  bool
	)

	for _, line := range strings.Split(strings.Trim(body, "\r\n"), "\n") {
		line = strings.TrimRight(line, "\r")

		if inBody {
			content = append(content, line)
			continue
		}

		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "filename:"):
			test.Filename = path.Base(strings.Trim(strings.TrimSpace(strings.TrimPrefix(trimmed, "filename:")), "`\"'"))
		case strings.HasPrefix(trimmed, "source:"):
			test.SourceFile = strings.TrimSpace(strings.TrimPrefix(trimmed, "source:"))
		case strings.HasPrefix(trimmed, "covers:"):
			test.FunctionsTested = splitClaims(strings.TrimPrefix(trimmed, "covers:"))
		case strings.HasPrefix(trimmed, "content:"):
			inBody = true

			if rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "content:")); rest != "" {
				content = append(content, rest)
			}
		case test.Filename != "" && trimmed != "":
			inBody = true

			content = append(content, line)
		}
	}

	test.Content = stripFences(strings.Join(content, "\n"))
	if test.Filename == "" || strings.TrimSpace(test.Content) == "" {
		return m.GeneratedTest{}, false
	}

	return test, true
}

func splitClaims(raw string) []string {
	var out []string

	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}

	return out
}

// stripFences removes a surrounding markdown code fence.
func stripFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return strings.TrimRight(content, " \n") + "\n"
	}

	lines := strings.Split(trimmed, "\n")
	lines = lines[1:]

	if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), "```") {
		lines = lines[:n-1]
	}

	return strings.TrimRight(strings.Join(lines, "\n"), " \n") + "\n"
}

// resolveTarget maps a declared source path, or else the test filename
// convention test_x.cpp / x_test.cpp, onto a project file path.
func resolveTarget(declared, filename string, files []m.SourceFile) string {
	if declared != "" {
		for _, f := range files {
			if f.Path == declared {
				return f.Path
			}
		}

		for _, f := range files {
			if path.Base(f.Path) == path.Base(declared) {
				return f.Path
			}
		}
	}

	stem := strings.TrimSuffix(filename, path.Ext(filename))
	stem = strings.TrimPrefix(stem, "test_")
	stem = strings.TrimSuffix(stem, "_test")

	var candidates []string

	for _, f := range files {
		base := path.Base(f.Path)
		if strings.TrimSuffix(base, path.Ext(base)) == stem {
			candidates = append(candidates, f.Path)
		}
	}

	if len(candidates) == 0 {
		if declared != "" {
			return declared
		}

		return stem + ".cpp"
	}

	// Implementation files win over headers.
	sort.SliceStable(candidates, func(i, j int) bool {
		return !(m.SourceFile{Path: candidates[i]}).IsHeader() && (m.SourceFile{Path: candidates[j]}).IsHeader()
	})

	return candidates[0]
}

// inferClaims lists the qualified names of the target's public symbols whose
// names occur as identifiers in the test content.
func inferClaims(content, target string, files []m.SourceFile) []string {
	idents := map[string]bool{}
	for _, id := range identifierPattern.FindAllString(content, -1) {
		idents[id] = true
	}

	var claims []string

	for _, f := range files {
		if f.Path != target {
			continue
		}

		for _, sym := range f.CallableSymbols() {
			name := strings.TrimPrefix(sym.Name, "~")
			if idents[name] || (strings.HasPrefix(sym.Name, "operator") && sym.Class != "" && idents[lastComponent(sym.Class)]) {
				claims = append(claims, sym.QualifiedName)
			}
		}
	}

	return claims
}
