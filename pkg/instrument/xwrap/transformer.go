package xwrap

import (
	"fmt"
	"path"
	"strings"

	"github.com/dave/dst"

	"github.com/omeyang/xtimed/pkg/instrument/xopt"
)

// DefaultRuntimePath 是生成代码引用的运行时包导入路径。
const DefaultRuntimePath = "github.com/omeyang/xtimed/pkg/observability/timed"

type transformerConfig struct {
	tracing     bool
	runtimePath string
}

// Option 定义 Transformer 的配置选项。
type Option func(*transformerConfig)

// WithTracing 控制是否在改写结果中注入追踪跨度。默认不注入。
func WithTracing(enabled bool) Option {
	return func(cfg *transformerConfig) {
		cfg.tracing = enabled
	}
}

// WithRuntimePath 替换运行时包的导入路径，供 fork 或 vendor 场景使用。
// 路径末段作为生成代码中的包引用名。空路径被忽略。
func WithRuntimePath(importPath string) Option {
	return func(cfg *transformerConfig) {
		if importPath != "" {
			cfg.runtimePath = importPath
		}
	}
}

// Transformer 把带度量指令的函数改写为自计时形式。
// 并发安全：改写过程不修改 Transformer 自身的状态。
type Transformer struct {
	tracing      bool
	runtimePath  string
	runtimeAlias string
}

// New 创建 Transformer。
func New(opts ...Option) *Transformer {
	cfg := &transformerConfig{runtimePath: DefaultRuntimePath}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Transformer{
		tracing:      cfg.tracing,
		runtimePath:  cfg.runtimePath,
		runtimeAlias: path.Base(cfg.runtimePath),
	}
}

// RuntimePath 返回生成代码引用的运行时包导入路径。
func (t *Transformer) RuntimePath() string { return t.runtimePath }

// Tracing 返回是否注入追踪跨度。
func (t *Transformer) Tracing() bool { return t.tracing }

// Needs 描述一次改写要求宿主文件补充的导入。
type Needs struct {
	// Time 需要导入 "time"。
	Time bool

	// Runtime 需要导入运行时包，见 Transformer.RuntimePath。
	Runtime bool

	// Context 需要导入 "context"。仅普通函数在追踪开启时出现。
	Context bool
}

// Merge 合并两次改写的导入需求。
func (n Needs) Merge(other Needs) Needs {
	return Needs{
		Time:    n.Time || other.Time,
		Runtime: n.Runtime || other.Runtime,
		Context: n.Context || other.Context,
	}
}

// Transform 按配置把函数改写为自计时形式。原函数体整体移入闭包，
// 签名保持不变，改写在节点上就地进行。返回宿主文件需要补充的导入。
//
// 无函数体时返回 ErrMissingBody；函数体已是改写产物时返回
// ErrAlreadyInstrumented；签名中的名字遮蔽改写要引用的包名时返回
// ErrNameCollision。三种情况下函数节点都保持原样。
func (t *Transformer) Transform(decl *dst.FuncDecl, cfg xopt.Config) (Needs, error) {
	if decl.Body == nil {
		return Needs{}, fmt.Errorf("%w: %s", ErrMissingBody, decl.Name.Name)
	}
	if instrumented(decl.Body) {
		return Needs{}, fmt.Errorf("%w: %s", ErrAlreadyInstrumented, decl.Name.Name)
	}

	kind, ctxName := classify(decl)
	if err := t.checkShadowing(decl, kind); err != nil {
		return Needs{}, err
	}

	display := cfg.Name
	if display == "" {
		display = decl.Name.Name
	}

	needs := Needs{Time: true, Runtime: true}
	if t.tracing && kind == KindPlain {
		needs.Context = true
	}

	decl.Body = t.instrumentedBody(decl, cfg, kind, ctxName, display)
	return needs, nil
}

// instrumented 判断函数体是否已是改写产物。未追踪的产物首句定义
// __xtimedStart；追踪产物首句定义跨度（__xtimedSpan，上下文函数还有
// __xtimedCtx），起点采样退居其后。前两句中任一定义保留标识符即判中。
func instrumented(body *dst.BlockStmt) bool {
	for i, stmt := range body.List {
		if i == 2 {
			break
		}
		assign, ok := stmt.(*dst.AssignStmt)
		if !ok {
			continue
		}
		for _, lhs := range assign.Lhs {
			id, ok := lhs.(*dst.Ident)
			if !ok {
				continue
			}
			switch id.Name {
			case identStart, identSpan, identCtx:
				return true
			}
		}
	}
	return false
}

// checkShadowing 检查签名里的名字是否遮蔽改写要引用的包名。
// 包级引用出现在闭包之外，位于签名名字的作用域内，遮蔽会改变语义。
func (t *Transformer) checkShadowing(decl *dst.FuncDecl, kind Kind) error {
	reserved := map[string]bool{
		"time":         true,
		t.runtimeAlias: true,
	}
	// 上下文函数的闭包参数类型写作 context.Context；
	// 普通函数在追踪开启时引用 context.Background()。
	if kind == KindContext || t.tracing {
		reserved["context"] = true
	}

	var clash []string
	for _, name := range signatureNames(decl) {
		if reserved[name] {
			clash = append(clash, name)
		}
	}
	if len(clash) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrNameCollision, decl.Name.Name, strings.Join(clash, ", "))
	}
	return nil
}

// signatureNames 收集接收者、类型参数、参数和返回值的名字。
func signatureNames(decl *dst.FuncDecl) []string {
	var names []string
	collect := func(fl *dst.FieldList) {
		if fl == nil {
			return
		}
		for _, f := range fl.List {
			for _, id := range f.Names {
				if id.Name != "_" {
					names = append(names, id.Name)
				}
			}
		}
	}
	collect(decl.Recv)
	collect(decl.Type.TypeParams)
	collect(decl.Type.Params)
	collect(decl.Type.Results)
	return names
}
