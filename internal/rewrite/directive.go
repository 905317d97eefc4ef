package rewrite

import (
	"strings"

	"github.com/dave/dst"
)

const (
	// directivePrefix 是 xtimed 指令注释的公共前缀。
	// 与 //go:generate 等工具指令一样，// 与指令名之间不允许有空格。
	directivePrefix = "//xtimed:"

	// directiveMeasure 是度量指令的动词。
	directiveMeasure = "measure"
)

// directive 从函数声明的前置注释中提取度量指令的选项文本。
// 前缀匹配但动词不是 measure 的行按无关工具指令忽略；
// 同一声明出现多条 measure 指令返回 ErrDuplicateDirective。
func directive(fn *dst.FuncDecl) (args string, found bool, err error) {
	for _, line := range fn.Decs.Start.All() {
		rest, ok := strings.CutPrefix(line, directivePrefix)
		if !ok {
			continue
		}

		verb := rest
		lineArgs := ""
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			verb, lineArgs = rest[:i], strings.TrimSpace(rest[i+1:])
		}
		if verb != directiveMeasure {
			continue
		}

		if found {
			return "", false, ErrDuplicateDirective
		}
		found = true
		args = lineArgs
	}
	return args, found, nil
}
