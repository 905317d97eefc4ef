// Package rewrite 是 xtimed 的宿主层：发现带度量指令的 Go 源文件，
// 调用 xopt/xwrap 核心完成改写，并按运行模式落地结果。
//
// 单个文件的处理是原子的：文件内任何一个函数的指令解析或改写失败，
// 整个文件都保持原样，错误带源码位置上报，其余文件继续处理。
//
// 机器生成的文件（标准 "Code generated ... DO NOT EDIT." 声明）不参与改写。
package rewrite
