// Package xwrap 把带度量指令的函数改写为自计时形式。
//
// # 改写形态
//
// 原函数体整体移入闭包并立即调用，函数签名保持不变，
// 函数体内的注释与排版原样保留。以普通函数为例：
//
//	func slow(n int) (int, error) {
//		__xtimedStart := time.Now()
//		__xtimedRet0, __xtimedRet1 := func() (int, error) {
//			// 原函数体
//		}()
//		__xtimedElapsed := time.Since(__xtimedStart)
//		if __xtimedElapsed >= 50*time.Millisecond {
//			timed.Debug("slow", __xtimedElapsed)
//		}
//		return __xtimedRet0, __xtimedRet1
//	}
//
// 计时基于单调时钟（time.Now / time.Since），不受系统时间调整影响。
// 无阈值时输出语句不带守卫，阈值守卫是生成期决策而非运行时配置。
//
// # 两种形态
//
// 首参为具名 context.Context 的函数视为上下文函数，闭包以同名参数
// 接收上下文，函数体内对该名字的引用透明地指向闭包收到的值；
// 其余为普通函数，闭包不带参数，全部名字按词法捕获。
// 两种形态在生成结构上就不同，而不是共用结构加运行时分支。
//
// # 追踪
//
// WithTracing(true) 时在计时起点之前开启跨度并 defer 结束，
// 计时区间整个落在跨度内：上下文函数把跨度派生的上下文换入闭包，
// 普通函数以 context.Background() 起跨度。进程未安装 TracerProvider
// 时这些调用是近零开销的空操作。
//
// # 行为保持
//
//   - 返回值个数、顺序与类型不变，命名返回与裸 return 语义不变
//   - 函数体内的 defer 在闭包返回前执行，其耗时计入上报值
//   - panic 原样穿透，此时不输出计时结果，已开启的跨度仍会结束
//   - 递归函数的每层调用分别计时
//
// # 幂等
//
// 改写产物的函数体以保留标识符的定义开头：未追踪时是 __xtimedStart，
// 追踪时是 __xtimedSpan（上下文函数还有 __xtimedCtx）。对已改写的
// 函数再次调用 Transform 返回 ErrAlreadyInstrumented，宿主据此跳过，
// 重复运行不会叠加包装。__xtimed 前缀视为保留命名。
package xwrap
