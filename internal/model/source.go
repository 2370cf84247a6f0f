// Package model defines the data structures shared by the test generation core.
package model

import (
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// SymbolKind is the category of an extracted declaration.
type SymbolKind string

const (
	// SymbolFunction is a free function definition.
	SymbolFunction SymbolKind = "function"
	// SymbolMethod is a member function definition, in-class or out-of-line.
	SymbolMethod SymbolKind = "method"
	// SymbolClass is a class, struct or union definition.
	SymbolClass SymbolKind = "class"
)

// Access is the C++ access level a member was declared under.
type Access string

// Available Access values.
const (
	AccessPublic    Access = "public"
	AccessProtected Access = "protected"
	AccessPrivate   Access = "private"
)

// Span locates a symbol in its source file. Lines are 1-based and inclusive.
type Span struct {
	File      string `json:"file" yaml:"file"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
}

// Lines returns the number of lines the span covers.
func (s Span) Lines() int {
	if s.EndLine < s.StartLine {
		return 0
	}

	return s.EndLine - s.StartLine + 1
}

// ExtractedSymbol is a declaration found by the source analyzer.
type ExtractedSymbol struct {
	Kind          SymbolKind `json:"kind" yaml:"kind"`
	Name          string     `json:"name" yaml:"name"`
	QualifiedName string     `json:"qualified_name" yaml:"qualified_name"`
	Signature     string     `json:"signature,omitempty" yaml:"signature,omitempty"`
	ReturnType    string     `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Class         string     `json:"class,omitempty" yaml:"class,omitempty"`
	Access        Access     `json:"access,omitempty" yaml:"access,omitempty"`
	Span          Span       `json:"span" yaml:"span"`
}

// Callable reports whether the symbol is a function or method.
func (s ExtractedSymbol) Callable() bool {
	return s.Kind == SymbolFunction || s.Kind == SymbolMethod
}

// Public reports whether the symbol is reachable from a test without friendship.
func (s ExtractedSymbol) Public() bool {
	return s.Access == "" || s.Access == AccessPublic
}

// ClassQualifiedName returns Class::Name for methods and Name otherwise,
// i.e. the qualified name without enclosing namespaces.
func (s ExtractedSymbol) ClassQualifiedName() string {
	if s.Class == "" {
		return s.Name
	}

	return s.Class + "::" + s.Name
}

// Declaration renders a one-line human readable declaration.
func (s ExtractedSymbol) Declaration() string {
	switch s.Kind {
	case SymbolClass:
		return "class " + s.QualifiedName
	case SymbolFunction, SymbolMethod:
		if s.ReturnType == "" {
			return s.QualifiedName + s.Signature
		}

		return s.ReturnType + " " + s.QualifiedName + s.Signature
	}

	return s.QualifiedName
}

// SourceFile is one uploaded translation unit or header.
type SourceFile struct {
	Path     string            `json:"path" yaml:"path"`
	Content  string            `json:"-" yaml:"-"`
	Symbols  []ExtractedSymbol `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Includes []string          `json:"includes,omitempty" yaml:"includes,omitempty"`
}

// IsHeader reports whether the file is a C++ header by extension.
func (f SourceFile) IsHeader() bool {
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".h", ".hh", ".hpp", ".hxx":
		return true
	}

	return false
}

// CallableSymbols returns the public functions and methods of the file, the
// set that test coverage is measured against. A free main is never testable.
func (f SourceFile) CallableSymbols() []ExtractedSymbol {
	var out []ExtractedSymbol

	for _, sym := range f.Symbols {
		if sym.Kind == SymbolFunction && sym.QualifiedName == "main" {
			continue
		}

		if sym.Callable() && sym.Public() {
			out = append(out, sym)
		}
	}

	return out
}

// SourceExtensions lists the file extensions treated as C++ sources.
var SourceExtensions = []string{".cpp", ".cc", ".cxx", ".h", ".hh", ".hpp", ".hxx"}

// IsSourcePath reports whether path has a C++ source or header extension.
func IsSourcePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, known := range SourceExtensions {
		if ext == known {
			return true
		}
	}

	return false
}
