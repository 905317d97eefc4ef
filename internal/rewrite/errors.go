package rewrite

import "errors"

// 宿主层错误。函数级的改写错误由 xopt/xwrap 定义，这里只补充
// 文件与配置层面的错误。
var (
	// ErrNotGoSource 表示显式指定的文件不是 Go 源文件。
	ErrNotGoSource = errors.New("rewrite: not a Go source file")

	// ErrDuplicateDirective 表示同一函数声明带了多条度量指令。
	ErrDuplicateDirective = errors.New("rewrite: duplicate measure directive")

	// ErrImportConflict 表示文件中已有名字占用了需要注入的导入名。
	ErrImportConflict = errors.New("rewrite: import name conflict")

	// ErrConfigLoad 表示配置文件无法读取。
	ErrConfigLoad = errors.New("rewrite: failed to load config file")

	// ErrConfigParse 表示配置文件内容无法解析。
	ErrConfigParse = errors.New("rewrite: failed to parse config file")

	// ErrConfigFormat 表示配置文件扩展名不在支持范围内。
	ErrConfigFormat = errors.New("rewrite: unsupported config format")
)
