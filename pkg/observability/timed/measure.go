package timed

import "time"

// Measure 手工计时：记录起点并返回结束函数，适合 defer 一行完成。
//
//	defer timed.Measure("rebuild index")()
//
// 结束函数按 Info 级别输出，计时使用单调时钟，不受系统时间调整影响。
func Measure(name string) func() {
	start := time.Now()
	return func() {
		Info(name, time.Since(start))
	}
}
