// Package xdur 提供插桩阈值时长字面量的解析功能。
//
// # 字面量语法
//
// 时长字面量由十进制整数幅值和单位后缀两部分组成，中间不允许空白：
//
//	500ms  1s  250us  250µs  100ns
//
// 支持的单位后缀：
//   - ms：毫秒
//   - us / µs：微秒（接受 Unicode 别名）
//   - ns：纳秒
//   - s：秒
//
// 后缀按 ms、us/µs、ns、s 的顺序匹配：ms、us、ns 都以 s 结尾，
// 若先匹配 s 会把 "500ms" 误拆为幅值 "500m"，因此 s 必须最后尝试。
//
// # 错误区分
//
// 解析失败分为两类，便于调用方给出准确的诊断：
//   - ErrMissingUnit：缺少或无法识别单位后缀（语法错误）
//   - ErrInvalidMagnitude：幅值不是合法的非负十进制整数，
//     或换算后超出 time.Duration 的表示范围（取值错误）
package xdur
