// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - timed: 生成代码调用的计时运行时，输出计时日志与追踪跨度
//
// 设计原则：
//   - 计时日志格式是字节级契约，不经日志框架装饰
//   - 追踪基于 OpenTelemetry，未安装 TracerProvider 时自动退化为空操作
package observability
