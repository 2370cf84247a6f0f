package domain

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

// Patterns for compiler, linker and CMake output lines.
var (
	// "file:12: error: msg" or "file:12:5: fatal error: msg"
	locatedDiagRe = regexp.MustCompile(`^(.+?):(\d+)(?::\d+)?:\s*(fatal error|error|warning|note):\s*(.*)$`)
	// "collect2: error: ld returned 1 exit status", "clang++: error: msg"
	toolDiagRe = regexp.MustCompile(`^([\w./+-]+):\s*(fatal error|error|warning):\s*(.*)$`)
	// "/usr/bin/ld: math_test.cpp:(.text+0x1a): undefined reference to `add(int, int)'"
	linkerRefRe = regexp.MustCompile(`^(?:[\w./+-]+:\s*)?(?:([^:\s]+):\([^)]*\):\s*)?(undefined reference to .*|multiple definition of .*)$`)
	// "CMake Error at CMakeLists.txt:12 (add_executable):"
	cmakeAtRe = regexp.MustCompile(`^CMake (Error|Warning)(?: \(dev\))? at (.+?):(\d+)\s*(.*)$`)
	// "CMake Error: msg"
	cmakeRe = regexp.MustCompile(`^CMake (Error|Warning)(?: \(dev\))?:?\s*(.*)$`)

	ansiRe = regexp.MustCompile("\x1b\\[[0-9;]*[A-Za-z]")
)

// maxDiagnosticLine caps the stored length of one output line.
const maxDiagnosticLine = 8 * 1024

// ParseDiagnostics turns toolchain output into log entries, one per non-blank
// line. Lines matching no known diagnostic shape are kept as info entries.
// File paths under root are made relative to it.
func ParseDiagnostics(output, root string, iteration int) []m.BuildLogEntry {
	var entries []m.BuildLogEntry

	for _, raw := range strings.Split(output, "\n") {
		raw, truncated := truncateLine(raw)

		line := strings.TrimRight(ansiRe.ReplaceAllString(raw, ""), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry := parseDiagnosticLine(line)
		if truncated > 0 {
			entry.Message = fmt.Sprintf("%s ... [%d bytes truncated]", entry.Message, truncated)
		}

		entry.File = relativeTo(entry.File, root)
		entry.Iteration = iteration
		entries = append(entries, entry)
	}

	return entries
}

// truncateLine shortens line to maxDiagnosticLine bytes on a rune boundary and
// reports how many bytes were cut.
func truncateLine(line string) (string, int) {
	if len(line) <= maxDiagnosticLine {
		return line, 0
	}

	cut := maxDiagnosticLine
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}

	return line[:cut], len(line) - cut
}

func parseDiagnosticLine(line string) m.BuildLogEntry {
	trimmed := strings.TrimSpace(line)

	if match := cmakeAtRe.FindStringSubmatch(trimmed); match != nil {
		n, _ := strconv.Atoi(match[3])
		msg := strings.TrimSuffix(strings.TrimSpace(match[4]), ":")

		if msg == "" {
			msg = "CMake " + strings.ToLower(match[1])
		}

		return m.BuildLogEntry{Level: cmakeLevel(match[1]), Message: msg, File: match[2], Line: n}
	}

	if match := cmakeRe.FindStringSubmatch(trimmed); match != nil {
		return m.BuildLogEntry{Level: cmakeLevel(match[1]), Message: strings.TrimSpace(match[2])}
	}

	if match := locatedDiagRe.FindStringSubmatch(trimmed); match != nil {
		n, _ := strconv.Atoi(match[2])

		return m.BuildLogEntry{Level: severityLevel(match[3]), Message: match[4], File: match[1], Line: n}
	}

	if match := linkerRefRe.FindStringSubmatch(trimmed); match != nil {
		return m.BuildLogEntry{Level: m.LevelError, Message: match[2], File: match[1]}
	}

	if match := toolDiagRe.FindStringSubmatch(trimmed); match != nil {
		return m.BuildLogEntry{Level: severityLevel(match[2]), Message: match[1] + ": " + match[3]}
	}

	return m.BuildLogEntry{Level: m.LevelInfo, Message: line}
}

func severityLevel(severity string) m.LogLevel {
	switch severity {
	case "error", "fatal error":
		return m.LevelError
	case "warning":
		return m.LevelWarning
	}

	return m.LevelInfo
}

func cmakeLevel(kind string) m.LogLevel {
	if kind == "Error" {
		return m.LevelError
	}

	return m.LevelWarning
}

func relativeTo(file, root string) string {
	if file == "" || root == "" {
		return file
	}

	file = strings.ReplaceAll(file, "\\", "/")
	root = strings.TrimSuffix(strings.ReplaceAll(root, "\\", "/"), "/") + "/"

	if strings.HasPrefix(file, root) {
		return path.Clean(strings.TrimPrefix(file, root))
	}

	return file
}
