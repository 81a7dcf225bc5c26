//go:build property

package typestrip_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/temirov/jsmigrate/internal/typestrip"
)

// TestStripperProperties checks invariants of the default stripper over generated source fragments.
func TestStripperProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	stripper := typestrip.NewDefaultStripper()

	properties.Property("stripping never grows the input without specifier rewrites", prop.ForAll(
		func(code string) bool {
			return len(stripper.Strip(code)) <= len(code)
		},
		gen.AlphaString(),
	))

	properties.Property("identifiers without typed syntax are preserved", prop.ForAll(
		func(identifier string) bool {
			code := "const " + identifier + " = " + identifier + ";"
			return stripper.Strip(code) == code
		},
		gen.Identifier(),
	))

	properties.Property("annotated declarations lose their annotation", prop.ForAll(
		func(identifier string, typeName string) bool {
			code := "let " + identifier + ": " + typeName + " = 1;"
			return stripper.Strip(code) == "let "+identifier+" = 1;"
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.Property("stripped output contains no typescript specifiers", prop.ForAll(
		func(moduleName string, useJSX bool) bool {
			extension := ".ts'"
			if useJSX {
				extension = ".tsx'"
			}
			stripped := stripper.Strip("import x from './" + moduleName + extension + ";")
			return !strings.Contains(stripped, ".ts'") && !strings.Contains(stripped, ".tsx'")
		},
		gen.Identifier(),
		gen.Bool(),
	))

	properties.Property("stripping is idempotent on its own output", prop.ForAll(
		func(identifier string, typeName string) bool {
			once := stripper.Strip("function f(" + identifier + ": " + typeName + ") {}")
			return stripper.Strip(once) == once
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
