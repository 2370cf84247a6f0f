package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

const defaultAnalysisCacheSize = 512

// Analyzer extracts function, method and class definitions from C++ sources.
type Analyzer interface {
	Analyze(ctx context.Context, files []m.SourceFile) (AnalysisResult, error)
}

// AnalysisResult holds the analyzed files in input order plus warnings for
// files that could not be scanned.
type AnalysisResult struct {
	Files []m.SourceFile
	Notes []m.BuildLogEntry
}

// SymbolsByFile maps each file path to its extracted symbols.
func (r AnalysisResult) SymbolsByFile() map[string][]m.ExtractedSymbol {
	out := make(map[string][]m.ExtractedSymbol, len(r.Files))
	for _, f := range r.Files {
		out[f.Path] = f.Symbols
	}

	return out
}

// TotalSymbols counts symbols across all files.
func (r AnalysisResult) TotalSymbols() int {
	total := 0
	for _, f := range r.Files {
		total += len(f.Symbols)
	}

	return total
}

type analyzer struct {
	cache *lru.Cache[string, fileScan]
}

// NewAnalyzer returns an Analyzer that memoizes per-file scans by content hash.
func NewAnalyzer() Analyzer {
	cache, err := lru.New[string, fileScan](defaultAnalysisCacheSize)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}

	return &analyzer{cache: cache}
}

func (a *analyzer) Analyze(ctx context.Context, files []m.SourceFile) (AnalysisResult, error) {
	scans := make([]fileScan, len(files))
	result := AnalysisResult{Files: make([]m.SourceFile, len(files))}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return AnalysisResult{}, fmt.Errorf("analysis cancelled: %w", err)
		}

		scan, err := a.scan(f)
		if err != nil {
			slog.Warn("Failed to analyze source file", "path", f.Path, "error", err)
			result.Notes = append(result.Notes, m.BuildLogEntry{
				Level:   m.LevelWarning,
				Message: fmt.Sprintf("analysis skipped: %v", err),
				File:    f.Path,
			})
		}

		scans[i] = scan
	}

	classes, namespaces, access := projectIndex(scans)

	for i, f := range files {
		out := f
		out.Includes = append([]string(nil), scans[i].includes...)
		out.Symbols = resolveSymbols(scans[i].symbols, classes, namespaces, access)
		result.Files[i] = out
	}

	return result, nil
}

// scan returns the memoized scan of f. Cached scans are read-only.
func (a *analyzer) scan(f m.SourceFile) (scan fileScan, err error) {
	key := contentKey(f.Path, f.Content)
	if cached, ok := a.cache.Get(key); ok {
		return cached, nil
	}

	defer func() {
		if r := recover(); r != nil {
			scan = fileScan{}
			err = fmt.Errorf("scanner panic: %v", r)
		}
	}()

	scan, err = scanSource(f.Path, f.Content)
	if err != nil {
		return fileScan{}, err
	}

	a.cache.Add(key, scan)

	return scan, nil
}

func contentKey(path, content string) string {
	sum := sha256.Sum256([]byte(path + "\x00" + content))
	return hex.EncodeToString(sum[:])
}

func projectIndex(scans []fileScan) (classes, namespaces map[string]bool, access map[string]map[string]m.Access) {
	classes = map[string]bool{}
	namespaces = map[string]bool{}
	access = map[string]map[string]m.Access{}

	for _, s := range scans {
		for name := range s.classNames {
			classes[name] = true
		}

		for name := range s.namespaces {
			for _, part := range strings.Split(name, "::") {
				namespaces[part] = true
			}
		}

		for class, members := range s.memberAccess {
			if access[class] == nil {
				access[class] = map[string]m.Access{}
			}

			for member, level := range members {
				if access[class][member] != m.AccessPublic {
					access[class][member] = level
				}
			}
		}
	}

	return classes, namespaces, access
}

// resolveSymbols turns pending symbols into final ones. Out-of-line
// definitions "Q::f" become methods of Q unless Q is only known as a namespace.
func resolveSymbols(pending []pendingSymbol, classes, namespaces map[string]bool, access map[string]map[string]m.Access) []m.ExtractedSymbol {
	out := make([]m.ExtractedSymbol, 0, len(pending))
	seen := map[string]bool{}

	for _, p := range pending {
		sym := p.symbol

		if !p.inClass && len(p.qualifiers) > 0 && sym.Kind != m.SymbolClass {
			owner := p.qualifiers[len(p.qualifiers)-1]
			isMethod := classes[owner] || owner == sym.Name || strings.HasPrefix(sym.Name, "~") || !namespaces[owner]

			if isMethod {
				sym.Kind = m.SymbolMethod
				sym.Class = strings.Join(classPart(p.qualifiers, classes, namespaces), "::")
				sym.Access = m.AccessPublic

				if level, ok := access[owner][sym.Name]; ok {
					sym.Access = level
				}
			}
		}

		key := string(sym.Kind) + "|" + sym.QualifiedName + "|" + sym.Signature
		if seen[key] {
			continue
		}

		seen[key] = true

		out = append(out, sym)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.StartLine < out[j].Span.StartLine
	})

	return out
}

// classPart drops leading namespace qualifiers from an out-of-line owner.
func classPart(qualifiers []string, classes, namespaces map[string]bool) []string {
	for len(qualifiers) > 1 && namespaces[qualifiers[0]] && !classes[qualifiers[0]] {
		qualifiers = qualifiers[1:]
	}

	return qualifiers
}
