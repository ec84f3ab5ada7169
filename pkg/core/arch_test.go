package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// publicPackages are the importable packages. They share pkg/core and
// nothing else from the module.
var publicPackages = map[string][]string{
	"../core":      nil,
	"../valuetype": {"github.com/leapstack-labs/dlisgraph/pkg/core"},
	"../linkage":   {"github.com/leapstack-labs/dlisgraph/pkg/core"},
}

// TestPublicImportsOnly verifies the pkg/ packages import only stdlib and
// their allowed siblings.
func TestPublicImportsOnly(t *testing.T) {
	fset := token.NewFileSet()

	for dir, allowed := range publicPackages {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
				continue
			}
			// Skip test files
			if strings.HasSuffix(entry.Name(), "_test.go") {
				continue
			}

			path := filepath.Join(dir, entry.Name())
			f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
			if err != nil {
				t.Errorf("Failed to parse %s: %v", path, err)
				continue
			}

			for _, imp := range f.Imports {
				importPath := strings.Trim(imp.Path.Value, `"`)

				// Allow stdlib (no dots in path)
				if !strings.Contains(importPath, ".") {
					continue
				}
				if strings.Contains(importPath, "/internal/") {
					t.Errorf("%s imports internal package: %s (pkg/ must not import internal packages)", path, importPath)
					continue
				}
				if !contains(allowed, importPath) {
					t.Errorf("%s imports forbidden package: %s", path, importPath)
				}
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
