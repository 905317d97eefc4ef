// Package instrument 提供源码插桩相关的子包。
//
// 子包列表：
//   - xdur: 阈值时长字面量解析，如 "500ms"、"1s"
//   - xopt: 度量指令选项解析，name/level/threshold 键值对
//   - xwrap: 函数改写器，把函数体包入自计时包装
//
// 设计原则：
//   - 解析与改写纯函数化，同一输入恒产出同一结果
//   - 改写只替换函数体，签名与并发行为保持不变
//   - 错误在改写期全部暴露，生成代码运行期不引入失败路径
package instrument
