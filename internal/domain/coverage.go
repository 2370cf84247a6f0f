package domain

import (
	"sort"
	"strings"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

// EstimateCoverage computes the claim-based coverage of files by tests.
//
// A symbol is covered when any test targeting its file claims it by qualified
// name, class-qualified name, or bare name. This is a static estimate: a test
// that claims a symbol without calling it still counts. Only public callable
// symbols form the denominator. Files without such symbols report 0 and are
// excluded from the overall figure.
func EstimateCoverage(files []m.SourceFile, tests []m.GeneratedTest) m.CoverageReport {
	report := m.CoverageReport{
		FileCoverage:     make(map[string]float64, len(files)),
		FunctionCoverage: map[string]float64{},
	}

	claims := claimsByFile(tests)

	for _, f := range files {
		symbols := f.CallableSymbols()
		if len(symbols) == 0 {
			report.FileCoverage[f.Path] = 0
			continue
		}

		claimed := claims[f.Path]
		covered := 0

		for _, sym := range symbols {
			report.TotalLines += sym.Span.Lines()

			if isClaimed(sym, claimed) {
				covered++
				report.LinesCovered += sym.Span.Lines()
				report.FunctionCoverage[sym.QualifiedName] = 1
			} else {
				if _, ok := report.FunctionCoverage[sym.QualifiedName]; !ok {
					report.FunctionCoverage[sym.QualifiedName] = 0
				}

				report.Uncovered = append(report.Uncovered, sym)
			}
		}

		report.CoveredSymbols += covered
		report.TotalSymbols += len(symbols)
		report.FileCoverage[f.Path] = float64(covered) / float64(len(symbols))
	}

	if report.TotalSymbols > 0 {
		report.OverallCoverage = float64(report.CoveredSymbols) / float64(report.TotalSymbols)
	}

	sort.SliceStable(report.Uncovered, func(i, j int) bool {
		if report.Uncovered[i].Span.File != report.Uncovered[j].Span.File {
			return report.Uncovered[i].Span.File < report.Uncovered[j].Span.File
		}

		return report.Uncovered[i].Span.StartLine < report.Uncovered[j].Span.StartLine
	})

	return report
}

// ApplyCoverage returns a copy of tests with CoverageEstimate set to the
// coverage of each test's target file.
func ApplyCoverage(tests []m.GeneratedTest, report m.CoverageReport) []m.GeneratedTest {
	out := make([]m.GeneratedTest, len(tests))
	for i, t := range tests {
		t.FunctionsTested = append([]string(nil), t.FunctionsTested...)
		t.CoverageEstimate = report.FileCoverage[t.SourceFile]
		out[i] = t
	}

	return out
}

func claimsByFile(tests []m.GeneratedTest) map[string]map[string]bool {
	out := map[string]map[string]bool{}

	for _, t := range tests {
		set := out[t.SourceFile]
		if set == nil {
			set = map[string]bool{}
			out[t.SourceFile] = set
		}

		for _, name := range t.FunctionsTested {
			set[normalizeClaim(name)] = true
		}
	}

	return out
}

func isClaimed(sym m.ExtractedSymbol, claimed map[string]bool) bool {
	if len(claimed) == 0 {
		return false
	}

	return claimed[sym.QualifiedName] || claimed[sym.ClassQualifiedName()] || claimed[sym.Name]
}

// normalizeClaim strips a leading "::" and a trailing parameter list.
func normalizeClaim(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "::")

	if idx := strings.Index(name, "("); idx > 0 && !strings.HasSuffix(name[:idx], "operator") {
		name = name[:idx]
	}

	return strings.TrimSpace(name)
}
