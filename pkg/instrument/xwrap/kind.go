package xwrap

import (
	"fmt"

	"github.com/dave/dst"
)

// Kind 区分被改写函数的两种形态。
type Kind uint8

const (
	// KindPlain 普通函数：闭包不带参数，全部名字按词法捕获。
	KindPlain Kind = iota

	// KindContext 首参为具名 context.Context 的函数：闭包以同名参数
	// 接收上下文，追踪开启时换入跨度派生的上下文。
	KindContext
)

// String 返回形态名称。
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindContext:
		return "context"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// classify 判定函数形态。首参类型写作 context.Context 且具名（非下划线）
// 时为上下文函数，同时返回该参数名。
func classify(decl *dst.FuncDecl) (Kind, string) {
	params := decl.Type.Params
	if params == nil || len(params.List) == 0 {
		return KindPlain, ""
	}
	first := params.List[0]
	if !isContextType(first.Type) || len(first.Names) == 0 {
		return KindPlain, ""
	}
	name := first.Names[0].Name
	if name == "_" {
		return KindPlain, ""
	}
	return KindContext, name
}

// isContextType 判断类型字面量是否写作 context.Context。
// 只认标准导入名；别名导入的上下文按普通函数处理，改写结果仍然正确，
// 只是不做上下文替换。
func isContextType(expr dst.Expr) bool {
	sel, ok := expr.(*dst.SelectorExpr)
	if !ok {
		return false
	}
	x, ok := sel.X.(*dst.Ident)
	if !ok {
		return false
	}
	return x.Name == "context" && sel.Sel.Name == "Context"
}
