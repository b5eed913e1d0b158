package ledger

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"sync"
)

// parsed caches source files by path.
var parsed sync.Map

type sourceFile struct {
	fset *token.FileSet
	file *ast.File
	src  []byte
}

func loadSource(path string) *sourceFile {
	if v, ok := parsed.Load(path); ok {
		return v.(*sourceFile)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		parsed.Store(path, (*sourceFile)(nil))
		return nil
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, src, 0)
	if err != nil {
		parsed.Store(path, (*sourceFile)(nil))
		return nil
	}
	sf := &sourceFile{fset: fset, file: f, src: src}
	parsed.Store(path, sf)
	return sf
}

// CallArgs returns the source text of the arguments of the innermost call
// to a method or function named name that spans line in file. It returns
// nil when the file cannot be read or no such call exists, e.g. when the
// test binary runs away from its sources.
//
// Call sites carry no column, so when line holds several calls named name
// side by side (t.Assert(a); t.Assert(b)) the failing one cannot be told
// apart and CallArgs returns nil as well.
func CallArgs(file string, line int, name string) []string {
	sf := loadSource(file)
	if sf == nil {
		return nil
	}

	var calls []*ast.CallExpr
	ast.Inspect(sf.file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		start := sf.fset.Position(call.Pos()).Line
		end := sf.fset.Position(call.End()).Line
		if line < start || line > end {
			return false
		}
		if calleeName(call.Fun) == name {
			calls = append(calls, call)
		}
		return true
	})
	if len(calls) == 0 {
		return nil
	}

	// Inspect visits outer calls first; every earlier match must enclose
	// the innermost one.
	best := calls[len(calls)-1]
	for _, c := range calls[:len(calls)-1] {
		if c.Pos() > best.Pos() || c.End() < best.End() {
			return nil
		}
	}

	args := make([]string, len(best.Args))
	for i, arg := range best.Args {
		from := sf.fset.Position(arg.Pos()).Offset
		to := sf.fset.Position(arg.End()).Offset
		args[i] = string(sf.src[from:to])
	}
	return args
}

func calleeName(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.SelectorExpr:
		return f.Sel.Name
	case *ast.Ident:
		return f.Name
	case *ast.IndexExpr:
		return calleeName(f.X)
	case *ast.IndexListExpr:
		return calleeName(f.X)
	}
	return ""
}

// ArgOr returns args[i], or fallback when the argument is unavailable.
func ArgOr(args []string, i int, fallback string) string {
	if i < len(args) {
		return args[i]
	}
	return fallback
}
