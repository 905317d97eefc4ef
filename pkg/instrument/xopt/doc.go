// Package xopt 解析度量指令的选项文本。
//
// # 选项语法
//
// 选项是逗号分隔的 key="value" 列表，词法与 Go 表达式一致：
//
//	name="fetch users", level="debug", threshold="50ms"
//
// 支持的键：
//   - name：覆盖输出中的函数显示名
//   - level：输出级别，"info"（标准输出）或 "debug"（标准错误），
//     区分大小写，缺省为 "info"
//   - threshold：最小上报阈值，时长字面量（见 xdur 包），缺省不限
//
// # 解析规则
//
//   - 同一个键出现多次时，后出现的取值生效
//   - 允许尾随逗号
//   - 取值必须是一个完整的 Go 表达式，残缺取值（如 name = = "x"、
//     name="a" "b"）返回 ErrExpectedNameValuePair
//   - 已识别的键配上合法的非字符串取值（如 level=debug、threshold=50）
//     时整对选项被忽略而不报错；取值校验只针对字符串字面量进行
//   - 未识别的键无论取值形态一律返回 ErrUnknownOption
//
// # 错误
//
//   - ErrUnknownOption：不支持的选项键
//   - ErrExpectedNameValuePair：选项不是 key="value" 形式
//   - ErrInvalidLevelValue：level 取值不是 "debug"/"info"
//   - 阈值字面量的错误由 xdur 包的哨兵错误透传，可用 errors.Is 判定
package xopt
