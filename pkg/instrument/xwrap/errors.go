package xwrap

import "errors"

// 函数改写相关错误。
var (
	// ErrMissingBody 表示函数没有函数体（外部链接声明），无法插桩。
	ErrMissingBody = errors.New("xwrap: function has no body")

	// ErrAlreadyInstrumented 表示函数体已是改写产物。
	ErrAlreadyInstrumented = errors.New("xwrap: function already instrumented")

	// ErrNameCollision 表示签名中的名字遮蔽了改写要引用的包名。
	ErrNameCollision = errors.New("xwrap: signature name shadows required package")
)
