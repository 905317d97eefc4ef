package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"regexp"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"

	"github.com/omeyang/xtimed/pkg/instrument/xopt"
	"github.com/omeyang/xtimed/pkg/instrument/xwrap"
)

// Result 是单个文件的改写结果。
type Result struct {
	// Output 是处理后的完整源码。文件未被改写（没有指令、全部函数
	// 已是改写产物、或存在错误）时与输入字节一致。
	Output []byte

	// Changed 表示 Output 与输入是否不同。
	Changed bool

	// Matched 是文件内找到的度量指令数。
	Matched int

	// Rewritten 是落入 Output 的改写数。已插桩的函数计入 Matched
	// 而不计入 Rewritten；出现任何错误时为零。
	Rewritten int

	// Errs 是按函数收集的错误，均带 file:line:col 位置前缀。
	// 非空时整个文件放弃改写，Output 保持原样。
	Errs []error
}

// Rewrite 对单个 Go 源文件执行度量指令改写。
//
// 每个函数独立处理，所有函数的错误一次性收齐；只要存在错误，
// 文件就保持原样，不落半成品。文件本身无法解析或无法打印时
// 返回错误，此时 Result 为 nil。
func Rewrite(filename string, src []byte, tr *xwrap.Transformer) (*Result, error) {
	res := &Result{Output: src}

	if isGenerated(src) {
		return res, nil
	}

	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)
	file, err := dec.ParseFile(filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("rewrite: parse %s: %w", filename, err)
	}

	position := func(node dst.Node) token.Position {
		if astNode, ok := dec.Map.Ast.Nodes[node]; ok {
			return fset.Position(astNode.Pos())
		}
		return token.Position{Filename: filename}
	}

	needs := xwrap.Needs{}
	for _, decl := range file.Decls {
		fn, ok := decl.(*dst.FuncDecl)
		if !ok {
			continue
		}

		args, found, err := directive(fn)
		if err != nil {
			res.Errs = append(res.Errs, fmt.Errorf("%s: %s: %w", position(fn), fn.Name.Name, err))
			continue
		}
		if !found {
			continue
		}
		res.Matched++

		cfg, err := xopt.Parse(args)
		if err != nil {
			res.Errs = append(res.Errs, fmt.Errorf("%s: %s: %w", position(fn), fn.Name.Name, err))
			continue
		}

		n, err := tr.Transform(fn, cfg)
		if err != nil {
			// 已插桩不是错误：重复运行工具必须稳定收敛。
			if errors.Is(err, xwrap.ErrAlreadyInstrumented) {
				continue
			}
			res.Errs = append(res.Errs, fmt.Errorf("%s: %s: %w", position(fn), fn.Name.Name, err))
			continue
		}
		needs = needs.Merge(n)
		res.Rewritten++
	}

	if res.Rewritten > 0 && len(res.Errs) == 0 {
		if err := ensureImports(file, needs, tr.RuntimePath()); err != nil {
			res.Errs = append(res.Errs, fmt.Errorf("%s: %w", filename, err))
		}
	}

	if len(res.Errs) > 0 || res.Rewritten == 0 {
		res.Rewritten = 0
		return res, nil
	}

	var buf bytes.Buffer
	if err := decorator.Fprint(&buf, file); err != nil {
		return nil, fmt.Errorf("rewrite: print %s: %w", filename, err)
	}
	res.Output = buf.Bytes()
	res.Changed = !bytes.Equal(src, res.Output)
	return res, nil
}

// generatedRx 匹配机器生成文件的标准声明行，见 go 命令文档。
var generatedRx = regexp.MustCompile(`^// Code generated .* DO NOT EDIT\.$`)

// isGenerated 判断源码是否带机器生成声明。声明必须出现在 package
// 子句之前，位于行首。
func isGenerated(src []byte) bool {
	for _, line := range bytes.Split(src, []byte("\n")) {
		text := string(bytes.TrimSuffix(line, []byte("\r")))
		if generatedRx.MatchString(text) {
			return true
		}
		if strings.HasPrefix(text, "package ") {
			break
		}
	}
	return false
}
