package main

import (
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
)

var forbiddenRand = map[string]struct{}{
	"math/rand":    {},
	"math/rand/v2": {},
}

// MathRandAnalyzer reports math/rand imports outside _test.go files.
var MathRandAnalyzer = &analysis.Analyzer{
	Name: "mathrandlint",
	Doc:  "reports math/rand imports in non-test files; use crypto/rand",
	Run:  runMathRand,
}

func runMathRand(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		name := pass.Fset.File(file.Pos()).Name()
		if strings.HasSuffix(name, "_test.go") {
			continue
		}

		for _, spec := range file.Imports {
			path, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			if _, ok := forbiddenRand[path]; ok {
				pass.Reportf(spec.Pos(), "%s import is forbidden, use crypto/rand", path)
			}
		}
	}

	return nil, nil
}
