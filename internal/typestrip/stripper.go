package typestrip

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	typeAnnotationPatternConstant       = `:\s*[A-Za-z0-9_<>\[\]\|\&]+`
	interfaceDeclarationPatternConstant = `interface\s+\w+\s*\{[^}]*\}`
	typeAliasPatternConstant            = `type\s+\w+\s*=\s*[^;]+;`
	genericParameterPatternConstant     = `<[A-Za-z0-9_,\s]+>`

	tsSpecifierSuffixConstant  = ".ts'"
	jsSpecifierSuffixConstant  = ".js'"
	tsxSpecifierSuffixConstant = ".tsx'"
	jsxSpecifierSuffixConstant = ".jsx'"

	patternCompileErrorTemplateConstant   = "invalid strip pattern %q: %w"
	emptyReplacementErrorTemplateConstant = "specifier replacement %d has an empty search value"
)

// SpecifierReplacement rewrites every literal occurrence of Old with New.
type SpecifierReplacement struct {
	Old string
	New string
}

// DefaultStripPatterns returns the expressions removing type annotations, interface declarations,
// type aliases, and simple generic parameter lists, in application order.
func DefaultStripPatterns() []string {
	return []string{
		typeAnnotationPatternConstant,
		interfaceDeclarationPatternConstant,
		typeAliasPatternConstant,
		genericParameterPatternConstant,
	}
}

// DefaultSpecifierReplacements returns the import specifier rewrites applied after stripping.
func DefaultSpecifierReplacements() []SpecifierReplacement {
	return []SpecifierReplacement{
		{Old: tsSpecifierSuffixConstant, New: jsSpecifierSuffixConstant},
		{Old: tsxSpecifierSuffixConstant, New: jsxSpecifierSuffixConstant},
	}
}

// Stripper applies compiled strip patterns and specifier replacements. It is safe for concurrent use.
type Stripper struct {
	patterns     []*regexp.Regexp
	replacements []SpecifierReplacement
}

// NewStripper compiles the patterns in order.
func NewStripper(patterns []string, replacements []SpecifierReplacement) (*Stripper, error) {
	compiledPatterns := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiledPattern, compileError := regexp.Compile(pattern)
		if compileError != nil {
			return nil, fmt.Errorf(patternCompileErrorTemplateConstant, pattern, compileError)
		}
		compiledPatterns = append(compiledPatterns, compiledPattern)
	}

	for replacementIndex, replacement := range replacements {
		if len(replacement.Old) == 0 {
			return nil, fmt.Errorf(emptyReplacementErrorTemplateConstant, replacementIndex)
		}
	}

	return &Stripper{
		patterns:     compiledPatterns,
		replacements: append([]SpecifierReplacement{}, replacements...),
	}, nil
}

// NewDefaultStripper builds a Stripper from DefaultStripPatterns and DefaultSpecifierReplacements.
func NewDefaultStripper() *Stripper {
	stripper, _ := NewStripper(DefaultStripPatterns(), DefaultSpecifierReplacements())
	return stripper
}

// Strip removes every pattern match, pattern by pattern, then applies the specifier replacements.
func (stripper *Stripper) Strip(code string) string {
	for _, pattern := range stripper.patterns {
		code = pattern.ReplaceAllLiteralString(code, "")
	}
	for _, replacement := range stripper.replacements {
		code = strings.ReplaceAll(code, replacement.Old, replacement.New)
	}
	return code
}
