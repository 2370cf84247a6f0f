package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "testsmith.dev/pkg/testsmith/internal/model"
)

const counterSource = `#include "math.h"
#include <cmath>

namespace calc {

int add(int a, int b) {
    return a + b;
}

class Counter {
public:
    Counter() : value_{0} {}
    void increment();
    int value() const { return value_; }
private:
    void reset() { value_ = 0; }
    int value_;
};

void Counter::increment() {
    ++value_;
}

}  // namespace calc

static int helper(int x) { return x * 2; }

int main() { return 0; }
`

func symbolByName(t *testing.T, symbols []m.ExtractedSymbol, name string) m.ExtractedSymbol {
	t.Helper()

	for _, sym := range symbols {
		if sym.Name == name {
			return sym
		}
	}

	t.Fatalf("symbol %q not found in %v", name, symbols)

	return m.ExtractedSymbol{}
}

func TestAnalyzer_ExtractsSymbols(t *testing.T) {
	result, err := NewAnalyzer().Analyze(context.Background(), []m.SourceFile{{Path: "src/counter.cpp", Content: counterSource}})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Empty(t, result.Notes)

	file := result.Files[0]
	assert.Equal(t, []string{"math.h", "cmath"}, file.Includes)

	names := make([]string, 0, len(file.Symbols))
	for _, sym := range file.Symbols {
		names = append(names, sym.Name)
	}

	assert.Equal(t, []string{"add", "Counter", "Counter", "value", "reset", "increment", "helper", "main"}, names)

	add := file.Symbols[0]
	assert.Equal(t, m.SymbolFunction, add.Kind)
	assert.Equal(t, "calc::add", add.QualifiedName)
	assert.Equal(t, "(int a, int b)", add.Signature)
	assert.Equal(t, "int", add.ReturnType)
	assert.Equal(t, m.Span{File: "src/counter.cpp", StartLine: 6, EndLine: 8}, add.Span)

	class := file.Symbols[1]
	assert.Equal(t, m.SymbolClass, class.Kind)
	assert.Equal(t, "calc::Counter", class.QualifiedName)
	assert.Equal(t, 10, class.Span.StartLine)
	assert.Equal(t, 18, class.Span.EndLine)

	ctor := file.Symbols[2]
	assert.Equal(t, m.SymbolMethod, ctor.Kind)
	assert.Equal(t, "Counter", ctor.Class)
	assert.Equal(t, "calc::Counter::Counter", ctor.QualifiedName)
	assert.Empty(t, ctor.ReturnType)

	value := symbolByName(t, file.Symbols, "value")
	assert.Equal(t, "() const", value.Signature)
	assert.Equal(t, m.AccessPublic, value.Access)

	reset := symbolByName(t, file.Symbols, "reset")
	assert.Equal(t, m.AccessPrivate, reset.Access)

	increment := symbolByName(t, file.Symbols, "increment")
	assert.Equal(t, m.SymbolMethod, increment.Kind)
	assert.Equal(t, "Counter", increment.Class)
	assert.Equal(t, "calc::Counter::increment", increment.QualifiedName)
	assert.Equal(t, m.AccessPublic, increment.Access)
	assert.Equal(t, 20, increment.Span.StartLine)
	assert.Equal(t, 22, increment.Span.EndLine)

	helper := symbolByName(t, file.Symbols, "helper")
	assert.Equal(t, "int", helper.ReturnType)
	assert.Equal(t, "helper", helper.QualifiedName)

	callable := file.CallableSymbols()
	callableNames := make([]string, 0, len(callable))
	for _, sym := range callable {
		callableNames = append(callableNames, sym.QualifiedName)
	}

	assert.Equal(t, []string{"calc::add", "calc::Counter::Counter", "calc::Counter::value", "calc::Counter::increment", "helper"}, callableNames)
}

func TestAnalyzer_ResolvesOutOfLineDefinitionsAcrossFiles(t *testing.T) {
	files := []m.SourceFile{
		{Path: "shape.h", Content: "class Shape {\npublic:\n    double area() const;\nprivate:\n    void recompute();\n};\n"},
		{Path: "shape.cpp", Content: "#include \"shape.h\"\ndouble Shape::area() const { return 0; }\nvoid Shape::recompute() {}\n"},
		{Path: "util.cpp", Content: "namespace util { int twice(int); }\nint util::twice(int x) { return 2 * x; }\n"},
	}

	result, err := NewAnalyzer().Analyze(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, result.Files, 3)

	header := result.Files[0]
	require.Len(t, header.Symbols, 1)
	assert.Equal(t, m.SymbolClass, header.Symbols[0].Kind)

	impl := result.Files[1]
	require.Len(t, impl.Symbols, 2)

	area := impl.Symbols[0]
	assert.Equal(t, m.SymbolMethod, area.Kind)
	assert.Equal(t, "Shape", area.Class)
	assert.Equal(t, "Shape::area", area.QualifiedName)
	assert.Equal(t, "() const", area.Signature)
	assert.Equal(t, m.AccessPublic, area.Access)

	recompute := impl.Symbols[1]
	assert.Equal(t, m.SymbolMethod, recompute.Kind)
	assert.Equal(t, m.AccessPrivate, recompute.Access)

	util := result.Files[2]
	require.Len(t, util.Symbols, 1)
	assert.Equal(t, m.SymbolFunction, util.Symbols[0].Kind)
	assert.Equal(t, "util::twice", util.Symbols[0].QualifiedName)
}

func TestAnalyzer_Templates(t *testing.T) {
	src := "template <typename T>\nT maxOf(T a, T b) {\n    return a > b ? a : b;\n}\n"

	result, err := NewAnalyzer().Analyze(context.Background(), []m.SourceFile{{Path: "max.h", Content: src}})
	require.NoError(t, err)
	require.Len(t, result.Files[0].Symbols, 1)

	sym := result.Files[0].Symbols[0]
	assert.Equal(t, "maxOf", sym.Name)
	assert.Equal(t, "T", sym.ReturnType)
	assert.Equal(t, 2, sym.Span.StartLine)
}

func TestAnalyzer_UnscannableFileBecomesNote(t *testing.T) {
	files := []m.SourceFile{
		{Path: "broken.cpp", Content: "int f() {\n  return 1;\n"},
		{Path: "ok.cpp", Content: "int g() { return 2; }\n"},
	}

	result, err := NewAnalyzer().Analyze(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	assert.Empty(t, result.Files[0].Symbols)
	require.Len(t, result.Files[1].Symbols, 1)
	assert.Equal(t, "g", result.Files[1].Symbols[0].Name)

	require.Len(t, result.Notes, 1)
	assert.Equal(t, m.LevelWarning, result.Notes[0].Level)
	assert.Equal(t, "broken.cpp", result.Notes[0].File)
	assert.Contains(t, result.Notes[0].Message, "unbalanced braces")
}

func TestAnalyzer_IsDeterministic(t *testing.T) {
	files := []m.SourceFile{{Path: "src/counter.cpp", Content: counterSource}}
	analyzer := NewAnalyzer()

	first, err := analyzer.Analyze(context.Background(), files)
	require.NoError(t, err)

	second, err := analyzer.Analyze(context.Background(), files)
	require.NoError(t, err)

	fresh, err := NewAnalyzer().Analyze(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, fresh)
	assert.Equal(t, 8, first.TotalSymbols())
	assert.Len(t, first.SymbolsByFile()["src/counter.cpp"], 8)
}

func TestAnalyzer_DoesNotMutateInput(t *testing.T) {
	files := []m.SourceFile{{Path: "a.cpp", Content: "int a() { return 1; }\n"}}

	_, err := NewAnalyzer().Analyze(context.Background(), files)
	require.NoError(t, err)

	assert.Nil(t, files[0].Symbols)
}

func TestAnalyzer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalyzer().Analyze(ctx, []m.SourceFile{{Path: "a.cpp", Content: "int a() { return 1; }\n"}})
	require.ErrorIs(t, err, context.Canceled)
}
