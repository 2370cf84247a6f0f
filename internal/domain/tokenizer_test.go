package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTexts(toks []token) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.text)
	}

	return out
}

func TestTokenize_DropsCommentsAndLiteralBodies(t *testing.T) {
	src := `// leading comment
int add(int a, /* inline { */ int b) {
    const char* s = "not { a brace";
    char c = '}';
    return a + b;
}
`

	toks, err := tokenize(src)
	require.NoError(t, err)

	texts := tokenTexts(toks)
	assert.Equal(t, []string{
		"int", "add", "(", "int", "a", ",", "int", "b", ")", "{",
		"const", "char", "*", "s", "=", `""`, ";",
		"char", "c", "=", "''", ";",
		"return", "a", "+", "b", ";",
		"}",
	}, texts)

	assert.Equal(t, 2, toks[0].line)
	assert.Equal(t, 6, toks[len(toks)-1].line)
}

func TestTokenize_Directives(t *testing.T) {
	src := "#include <vector>\n#define TWICE(x) \\\n  ((x) * 2)\nint v;\n"

	toks, err := tokenize(src)
	require.NoError(t, err)
	require.Len(t, toks, 5)

	assert.Equal(t, tokDirective, toks[0].kind)
	assert.Equal(t, "#include <vector>", toks[0].text)
	assert.Equal(t, tokDirective, toks[1].kind)
	assert.Equal(t, "#define TWICE(x)    ((x) * 2)", toks[1].text)
	assert.Equal(t, 2, toks[1].line)
	assert.Equal(t, 4, toks[2].line)
}

func TestTokenize_RawStringsAndPrefixes(t *testing.T) {
	src := "auto a = R\"json({ \"k\": [1, 2] })json\";\nauto b = u8\"x\";\nauto c = L'y';\n"

	toks, err := tokenize(src)
	require.NoError(t, err)

	texts := tokenTexts(toks)
	assert.Equal(t, []string{
		"auto", "a", "=", `""`, ";",
		"auto", "b", "=", `u8""`, ";",
		"auto", "c", "=", "L''", ";",
	}, texts)
}

func TestTokenize_Punctuators(t *testing.T) {
	toks, err := tokenize("a->b::c <<= d <=> e ... f")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "->", "b", "::", "c", "<<=", "d", "<=>", "e", "...", "f"}, tokenTexts(toks))
}

func TestTokenize_Numbers(t *testing.T) {
	toks, err := tokenize("x = 1'000'000 + 1.5e-3 + 0x1Fu;")
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "=", "1'000'000", "+", "1.5e-3", "+", "0x1Fu", ";"}, tokenTexts(toks))
	assert.Equal(t, tokNumber, toks[2].kind)
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{name: "unterminated comment", src: "int x; /* open", want: errUnterminatedComment},
		{name: "unterminated string", src: "auto s = \"open\nint y;", want: errUnterminatedLiteral},
		{name: "unterminated raw string", src: "auto s = R\"x(open", want: errUnterminatedLiteral},
		{name: "binary", src: "int\x00x;", want: errBinaryContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokenize(tt.src)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
