package rewrite

import (
	"fmt"
	"go/token"
	"path"
	"strconv"

	"github.com/dave/dst"

	"github.com/omeyang/xtimed/pkg/instrument/xwrap"
)

// ensureImports 按改写需求为文件补齐导入。
// 生成代码以默认包名引用 time、context 与运行时包，因此路径已按别名
// 导入时会追加一条默认名导入；默认名被其他导入或顶层声明占用时返回
// ErrImportConflict。
func ensureImports(file *dst.File, needs xwrap.Needs, runtimePath string) error {
	type want struct {
		path string
		name string
	}
	var wants []want
	if needs.Time {
		wants = append(wants, want{path: "time", name: "time"})
	}
	if needs.Context {
		wants = append(wants, want{path: "context", name: "context"})
	}
	if needs.Runtime {
		wants = append(wants, want{path: runtimePath, name: path.Base(runtimePath)})
	}

	for _, w := range wants {
		if err := ensureImport(file, w.path, w.name); err != nil {
			return err
		}
	}
	return nil
}

// ensureImport 确保 importPath 在文件内以 name 可用。
func ensureImport(file *dst.File, importPath, name string) error {
	for _, spec := range file.Imports {
		specPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		local := localName(spec, specPath)
		if local == name {
			if specPath == importPath {
				return nil
			}
			return fmt.Errorf("%w: %q already imported as %s", ErrImportConflict, specPath, name)
		}
	}

	if decl := declaredName(file, name); decl != "" {
		return fmt.Errorf("%w: top-level %s named %s", ErrImportConflict, decl, name)
	}

	appendImport(file, importPath)
	return nil
}

// localName 返回导入在文件内绑定的包名。
// 空白导入与点导入不绑定包名，返回空串。
func localName(spec *dst.ImportSpec, specPath string) string {
	if spec.Name == nil {
		return path.Base(specPath)
	}
	switch spec.Name.Name {
	case "_", ".":
		return ""
	default:
		return spec.Name.Name
	}
}

// declaredName 检查顶层声明是否占用了 name，返回声明种类描述。
// 方法名不在包级作用域，跳过带接收者的函数。
func declaredName(file *dst.File, name string) string {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *dst.FuncDecl:
			if d.Recv == nil && d.Name.Name == name {
				return "func"
			}
		case *dst.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *dst.ValueSpec:
					for _, ident := range s.Names {
						if ident.Name == name {
							return d.Tok.String()
						}
					}
				case *dst.TypeSpec:
					if s.Name.Name == name {
						return "type"
					}
				}
			}
		}
	}
	return ""
}

// appendImport 把新导入追加到文件的首个导入块，没有导入块则新建一个。
func appendImport(file *dst.File, importPath string) {
	spec := &dst.ImportSpec{
		Path: &dst.BasicLit{Kind: token.STRING, Value: strconv.Quote(importPath)},
	}
	spec.Decs.Before = dst.NewLine

	file.Imports = append(file.Imports, spec)

	for _, decl := range file.Decls {
		gen, ok := decl.(*dst.GenDecl)
		if !ok || gen.Tok != token.IMPORT {
			continue
		}
		gen.Specs = append(gen.Specs, spec)
		if len(gen.Specs) > 1 {
			gen.Lparen = true
			gen.Rparen = true
			for _, s := range gen.Specs {
				if s.Decorations().Before == dst.None {
					s.Decorations().Before = dst.NewLine
				}
			}
		}
		return
	}

	gen := &dst.GenDecl{
		Tok:   token.IMPORT,
		Specs: []dst.Spec{spec},
	}
	gen.Decs.Before = dst.EmptyLine
	gen.Decs.After = dst.EmptyLine
	file.Decls = append([]dst.Decl{gen}, file.Decls...)
}
