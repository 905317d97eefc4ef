package xopt

import "errors"

// 指令选项解析相关错误。
var (
	// ErrUnknownOption 表示出现了不支持的选项键。
	ErrUnknownOption = errors.New("xopt: unknown option")

	// ErrExpectedNameValuePair 表示选项不是 key="value" 形式。
	ErrExpectedNameValuePair = errors.New("xopt: expected name-value pair")

	// ErrInvalidLevelValue 表示 level 选项的取值不是 "debug" 或 "info"。
	ErrInvalidLevelValue = errors.New("xopt: invalid level value")
)
