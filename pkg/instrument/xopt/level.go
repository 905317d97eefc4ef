package xopt

import "fmt"

// Level 表示计时结果的输出级别。
type Level uint8

// 输出级别常量。零值为 LevelInfo，与选项缺省一致。
const (
	// LevelInfo 输出到标准输出。
	LevelInfo Level = iota

	// LevelDebug 输出到标准错误。
	LevelDebug
)

// String 返回级别在选项文本中的写法。
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
}

// ParseLevel 解析 level 选项的取值。
// 只接受区分大小写的 "debug" 和 "info"，其余取值返回 ErrInvalidLevelValue。
func ParseLevel(s string) (Level, error) {
	switch s {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevelValue, s)
	}
}
