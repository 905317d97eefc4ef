package timed

import (
	"strconv"
	"time"
)

// Format 把耗时格式化为三位小数加单位的可读形式，如 "1.235ms"。
//
// 单位按量级选取：不小于 1s 用秒，不小于 1ms 用毫秒，
// 不小于 1µs 用微秒，其余用纳秒。单位选定后不因进位重选，
// 因此 999999999ns 输出 "1000.000ms" 而不是 "1.000s"。
func Format(d time.Duration) string {
	var unit time.Duration
	var suffix string
	switch {
	case d >= time.Second:
		unit, suffix = time.Second, "s"
	case d >= time.Millisecond:
		unit, suffix = time.Millisecond, "ms"
	case d >= time.Microsecond:
		unit, suffix = time.Microsecond, "µs"
	default:
		unit, suffix = time.Nanosecond, "ns"
	}
	return strconv.FormatFloat(float64(d)/float64(unit), 'f', 3, 64) + suffix
}
