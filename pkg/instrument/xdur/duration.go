package xdur

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Unit 表示时长字面量的单位。
type Unit uint8

// 支持的时长单位。
const (
	UnitNanosecond Unit = iota
	UnitMicrosecond
	UnitMillisecond
	UnitSecond
)

// suffixes 按匹配优先级排列的后缀表。
// ms、us、ns 都以 s 结尾，s 必须最后尝试；µs 是 us 的 Unicode 别名。
var suffixes = []struct {
	text string
	unit Unit
}{
	{"ms", UnitMillisecond},
	{"us", UnitMicrosecond},
	{"µs", UnitMicrosecond},
	{"ns", UnitNanosecond},
	{"s", UnitSecond},
}

// String 返回单位的规范后缀。微秒统一输出 us。
func (u Unit) String() string {
	switch u {
	case UnitNanosecond:
		return "ns"
	case UnitMicrosecond:
		return "us"
	case UnitMillisecond:
		return "ms"
	case UnitSecond:
		return "s"
	default:
		return "Unit(" + strconv.Itoa(int(u)) + ")"
	}
}

// std 返回单位对应的 time.Duration 换算系数。
func (u Unit) std() time.Duration {
	switch u {
	case UnitNanosecond:
		return time.Nanosecond
	case UnitMicrosecond:
		return time.Microsecond
	case UnitMillisecond:
		return time.Millisecond
	case UnitSecond:
		return time.Second
	default:
		return 0
	}
}

// Duration 表示解析后的时长字面量：十进制幅值加单位。
// 保留书写时的幅值和单位而非立即归一化，使 String 能按原单位回显。
type Duration struct {
	Magnitude uint64
	Unit      Unit
}

// Parse 解析时长字面量，如 "500ms"、"1s"、"250µs"。
//
// 输入先去除首尾空白，再按 ms、us/µs、ns、s 的顺序识别单位后缀，
// 剩余部分必须是非负十进制整数幅值。
//
// 缺少或无法识别后缀时返回 ErrMissingUnit；
// 幅值为空、含非数字字符或换算后超出 time.Duration 表示范围时
// 返回 ErrInvalidMagnitude。
func Parse(text string) (Duration, error) {
	trimmed := strings.TrimSpace(text)

	for _, sfx := range suffixes {
		rest, ok := strings.CutSuffix(trimmed, sfx.text)
		if !ok {
			continue
		}
		mag, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return Duration{}, fmt.Errorf("%w: %q", ErrInvalidMagnitude, trimmed)
		}
		if mag > math.MaxInt64/uint64(sfx.unit.std()) {
			return Duration{}, fmt.Errorf("%w: %q overflows time.Duration", ErrInvalidMagnitude, trimmed)
		}
		return Duration{Magnitude: mag, Unit: sfx.unit}, nil
	}
	return Duration{}, fmt.Errorf("%w: %q", ErrMissingUnit, trimmed)
}

// Std 将时长换算为 time.Duration。Parse 已保证换算不会溢出。
func (d Duration) Std() time.Duration {
	return time.Duration(d.Magnitude) * d.Unit.std()
}

// String 按"幅值+后缀"的形式回显字面量，结果可被 Parse 重新解析。
func (d Duration) String() string {
	return strconv.FormatUint(d.Magnitude, 10) + d.Unit.String()
}
