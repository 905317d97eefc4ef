package timed

import (
	"fmt"
	"io"
	"os"
	"time"
)

// reportFormat 是计时结果的固定输出格式。
const reportFormat = "⏱ Function `%s` executed in %s\n"

// 输出目标以包级变量持有，测试通过 export_test.go 替换。
var (
	infoWriter  io.Writer = os.Stdout
	debugWriter io.Writer = os.Stderr
)

// Info 把计时结果写到标准输出。
func Info(name string, elapsed time.Duration) {
	_, _ = fmt.Fprintf(infoWriter, reportFormat, name, Format(elapsed))
}

// Debug 把计时结果写到标准错误。
func Debug(name string, elapsed time.Duration) {
	_, _ = fmt.Fprintf(debugWriter, reportFormat, name, Format(elapsed))
}
