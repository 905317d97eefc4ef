package xdur

import "errors"

// 时长字面量解析相关错误。
var (
	// ErrMissingUnit 表示字面量缺少可识别的单位后缀。
	ErrMissingUnit = errors.New("xdur: missing or unknown unit suffix")

	// ErrInvalidMagnitude 表示幅值不是合法的非负十进制整数或超出可表示范围。
	ErrInvalidMagnitude = errors.New("xdur: invalid magnitude")
)
