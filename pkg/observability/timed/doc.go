// Package timed 是函数计时插桩的运行时支撑库。
//
// xtimed 重写过的函数会调用本包输出计时结果、开启追踪跨度；
// 未经重写的代码也可以用 Measure 做手工计时。
//
// # 输出格式
//
// 计时结果固定为一行：
//
//	⏱ Function `<名称>` executed in <耗时>
//
// 耗时按量级自动选择单位（s/ms/µs/ns），保留三位小数。
// Info 写标准输出，Debug 写标准错误，与插桩选项的 level 一一对应。
//
// # 追踪
//
// StartSpan 基于 OpenTelemetry 全局 TracerProvider 开启名为 "xtimed"
// 的跨度，函数显示名记录在 function 属性中。进程未安装真实 Provider
// 时为近零开销的空操作，生成代码无需关心追踪是否启用。
package timed
