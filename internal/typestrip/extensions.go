package typestrip

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	extensionPrefixConstant                 = "."
	typeScriptExtensionConstant             = ".ts"
	typeScriptJSXExtensionConstant          = ".tsx"
	javaScriptExtensionConstant             = ".js"
	javaScriptJSXExtensionConstant          = ".jsx"
	invalidExtensionErrorTemplateConstant   = "extension %q must start with %q and name a suffix"
	duplicateExtensionErrorTemplateConstant = "extension %q is mapped more than once"
)

// ErrNoExtensionMappings indicates an ExtensionMapper was requested without mappings.
var ErrNoExtensionMappings = errors.New("at least one extension mapping is required")

// ExtensionMapping renames files ending in Source so they end in Target.
type ExtensionMapping struct {
	Source string
	Target string
}

// DefaultExtensionMappings maps .ts to .js and .tsx to .jsx.
func DefaultExtensionMappings() []ExtensionMapping {
	return []ExtensionMapping{
		{Source: typeScriptExtensionConstant, Target: javaScriptExtensionConstant},
		{Source: typeScriptJSXExtensionConstant, Target: javaScriptJSXExtensionConstant},
	}
}

// ExtensionMapper decides which files are convertible and where their output goes.
type ExtensionMapper struct {
	targetsBySource map[string]string
}

// NewExtensionMapper validates mappings and builds a mapper.
func NewExtensionMapper(mappings []ExtensionMapping) (ExtensionMapper, error) {
	if len(mappings) == 0 {
		return ExtensionMapper{}, ErrNoExtensionMappings
	}

	targetsBySource := make(map[string]string, len(mappings))
	for _, mapping := range mappings {
		for _, extension := range []string{mapping.Source, mapping.Target} {
			if !isExtension(extension) {
				return ExtensionMapper{}, fmt.Errorf(invalidExtensionErrorTemplateConstant, extension, extensionPrefixConstant)
			}
		}
		if _, exists := targetsBySource[mapping.Source]; exists {
			return ExtensionMapper{}, fmt.Errorf(duplicateExtensionErrorTemplateConstant, mapping.Source)
		}
		targetsBySource[mapping.Source] = mapping.Target
	}

	return ExtensionMapper{targetsBySource: targetsBySource}, nil
}

// NewDefaultExtensionMapper builds a mapper from DefaultExtensionMappings.
func NewDefaultExtensionMapper() ExtensionMapper {
	mapper, _ := NewExtensionMapper(DefaultExtensionMappings())
	return mapper
}

// Target returns the renamed path and true when the last extension of path is mapped.
// Only the final suffix is considered, so "env.d.ts" becomes "env.d.js". A bare dotfile
// such as ".ts" has no suffix and is not convertible.
func (mapper ExtensionMapper) Target(path string) (string, bool) {
	baseName := filepath.Base(path)
	extension := filepath.Ext(baseName)
	if len(extension) == 0 || extension == baseName {
		return "", false
	}

	targetExtension, mapped := mapper.targetsBySource[extension]
	if !mapped {
		return "", false
	}
	return strings.TrimSuffix(path, extension) + targetExtension, true
}

func isExtension(candidate string) bool {
	if !strings.HasPrefix(candidate, extensionPrefixConstant) || len(candidate) == len(extensionPrefixConstant) {
		return false
	}
	return !strings.ContainsAny(candidate[len(extensionPrefixConstant):], `./\`)
}
