package xwrap

import (
	"go/token"
	"strconv"

	"github.com/dave/dst"

	"github.com/omeyang/xtimed/pkg/instrument/xdur"
	"github.com/omeyang/xtimed/pkg/instrument/xopt"
)

// 生成代码使用的标识符。双下划线前缀避开常规命名，视为保留。
const (
	identStart     = "__xtimedStart"
	identElapsed   = "__xtimedElapsed"
	identSpan      = "__xtimedSpan"
	identCtx       = "__xtimedCtx"
	identRetPrefix = "__xtimedRet"
)

// instrumentedBody 构造改写后的函数体。原函数体节点整体移入闭包，
// 其内部注释与排版原样保留。追踪开启时先起跨度再采起点，
// 跨度因此覆盖整个计时区间。
func (t *Transformer) instrumentedBody(decl *dst.FuncDecl, cfg xopt.Config, kind Kind, ctxName, display string) *dst.BlockStmt {
	results := countResults(decl.Type.Results)

	stmts := make([]dst.Stmt, 0, 7)
	callArg := ctxName
	if t.tracing {
		stmts = append(stmts, t.spanStmts(kind, ctxName, display)...)
		if kind == KindContext {
			callArg = identCtx
		}
	}
	stmts = append(stmts, startStmt())

	closure := closureCall(decl, kind, ctxName, callArg)
	if results > 0 {
		stmts = append(stmts, assignResults(results, closure))
	} else {
		stmts = append(stmts, &dst.ExprStmt{X: closure})
	}

	stmts = append(stmts, elapsedStmt())
	stmts = append(stmts, t.reportStmt(cfg, display))
	if results > 0 {
		stmts = append(stmts, returnStmt(results))
	}

	for _, s := range stmts {
		if s.Decorations().Before == dst.None {
			s.Decorations().Before = dst.NewLine
		}
	}
	return &dst.BlockStmt{List: stmts}
}

// startStmt 生成 __xtimedStart := time.Now()。
func startStmt() dst.Stmt {
	return define(
		[]dst.Expr{dst.NewIdent(identStart)},
		call(sel("time", "Now")),
	)
}

// elapsedStmt 生成 __xtimedElapsed := time.Since(__xtimedStart)。
func elapsedStmt() dst.Stmt {
	return define(
		[]dst.Expr{dst.NewIdent(identElapsed)},
		call(sel("time", "Since"), dst.NewIdent(identStart)),
	)
}

// spanStmts 生成跨度开启与结束语句。上下文函数把派生上下文定义为
// __xtimedCtx 供闭包换入；普通函数以 context.Background() 起跨度，
// 丢弃派生上下文。
func (t *Transformer) spanStmts(kind Kind, ctxName, display string) []dst.Stmt {
	var lhs []dst.Expr
	var parent dst.Expr
	if kind == KindContext {
		lhs = []dst.Expr{dst.NewIdent(identCtx), dst.NewIdent(identSpan)}
		parent = dst.NewIdent(ctxName)
	} else {
		lhs = []dst.Expr{dst.NewIdent("_"), dst.NewIdent(identSpan)}
		parent = call(sel("context", "Background"))
	}

	open := define(lhs, call(sel(t.runtimeAlias, "StartSpan"), parent, stringLit(display)))
	end := &dst.DeferStmt{Call: call(sel(identSpan, "End"))}
	return []dst.Stmt{open, end}
}

// closureCall 把原函数体装入闭包并立即调用。普通函数的闭包不带参数，
// 全部名字按词法捕获；上下文函数的闭包以原参数名接收上下文，
// 函数体内对该名字的引用因此指向闭包收到的值。
func closureCall(decl *dst.FuncDecl, kind Kind, ctxName, callArg string) *dst.CallExpr {
	params := &dst.FieldList{Opening: true, Closing: true}
	var args []dst.Expr
	if kind == KindContext {
		params.List = []*dst.Field{{
			Names: []*dst.Ident{dst.NewIdent(ctxName)},
			Type:  sel("context", "Context"),
		}}
		args = []dst.Expr{dst.NewIdent(callArg)}
	}

	var results *dst.FieldList
	if decl.Type.Results != nil {
		results = dst.Clone(decl.Type.Results).(*dst.FieldList)
	}

	lit := &dst.FuncLit{
		Type: &dst.FuncType{Params: params, Results: results},
		Body: decl.Body,
	}
	return &dst.CallExpr{Fun: lit, Args: args}
}

// reportStmt 生成计时输出语句，配有阈值时包上 if 守卫。
func (t *Transformer) reportStmt(cfg xopt.Config, display string) dst.Stmt {
	fn := "Info"
	if cfg.Level == xopt.LevelDebug {
		fn = "Debug"
	}
	report := &dst.ExprStmt{
		X: call(sel(t.runtimeAlias, fn), stringLit(display), dst.NewIdent(identElapsed)),
	}

	if cfg.Threshold == nil {
		return report
	}

	report.Decorations().Before = dst.NewLine
	return &dst.IfStmt{
		Cond: &dst.BinaryExpr{
			X:  dst.NewIdent(identElapsed),
			Op: token.GEQ,
			Y:  thresholdExpr(*cfg.Threshold),
		},
		Body: &dst.BlockStmt{List: []dst.Stmt{report}},
	}
}

// thresholdExpr 把阈值写成 N*time.Unit 的常量表达式。
// xdur 在解析期已拒绝超出 time.Duration 的幅值，常量乘法不会溢出。
func thresholdExpr(d xdur.Duration) dst.Expr {
	return &dst.BinaryExpr{
		X:  &dst.BasicLit{Kind: token.INT, Value: strconv.FormatUint(d.Magnitude, 10)},
		Op: token.MUL,
		Y:  sel("time", unitSelector(d.Unit)),
	}
}

// unitSelector 返回单位对应的 time 包常量名。
func unitSelector(u xdur.Unit) string {
	switch u {
	case xdur.UnitMicrosecond:
		return "Microsecond"
	case xdur.UnitMillisecond:
		return "Millisecond"
	case xdur.UnitSecond:
		return "Second"
	default:
		return "Nanosecond"
	}
}

// assignResults 生成 __xtimedRet0, ... := <closure>(...) 定义。
func assignResults(n int, closure *dst.CallExpr) dst.Stmt {
	lhs := make([]dst.Expr, n)
	for i := range lhs {
		lhs[i] = dst.NewIdent(retIdent(i))
	}
	return define(lhs, closure)
}

// returnStmt 生成 return __xtimedRet0, ...。
func returnStmt(n int) dst.Stmt {
	exprs := make([]dst.Expr, n)
	for i := range exprs {
		exprs[i] = dst.NewIdent(retIdent(i))
	}
	return &dst.ReturnStmt{Results: exprs}
}

// retIdent 返回第 i 个返回值的临时变量名。
func retIdent(i int) string {
	return identRetPrefix + strconv.Itoa(i)
}

// countResults 统计返回值个数，命名返回按名字数计。
func countResults(fl *dst.FieldList) int {
	if fl == nil {
		return 0
	}
	n := 0
	for _, f := range fl.List {
		if len(f.Names) == 0 {
			n++
		} else {
			n += len(f.Names)
		}
	}
	return n
}

// define 生成 := 定义语句。
func define(lhs []dst.Expr, rhs ...dst.Expr) dst.Stmt {
	return &dst.AssignStmt{Lhs: lhs, Tok: token.DEFINE, Rhs: rhs}
}

// call 生成函数调用表达式。
func call(fun dst.Expr, args ...dst.Expr) *dst.CallExpr {
	return &dst.CallExpr{Fun: fun, Args: args}
}

// sel 生成 x.name 选择表达式。
func sel(x, name string) dst.Expr {
	return &dst.SelectorExpr{X: dst.NewIdent(x), Sel: dst.NewIdent(name)}
}

// stringLit 生成带引号的字符串字面量。
func stringLit(s string) dst.Expr {
	return &dst.BasicLit{Kind: token.STRING, Value: strconv.Quote(s)}
}
