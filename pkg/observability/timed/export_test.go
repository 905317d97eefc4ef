package timed

import "io"

// SetOutput 仅供测试：替换 Info/Debug 的输出流，返回恢复函数。
func SetOutput(info, debug io.Writer) (restore func()) {
	prevInfo, prevDebug := infoWriter, debugWriter
	infoWriter, debugWriter = info, debug
	return func() {
		infoWriter, debugWriter = prevInfo, prevDebug
	}
}
