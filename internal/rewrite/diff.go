package rewrite

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// diffContext 是差异块前后保留的上下文行数。
const diffContext = 3

var (
	diffHeader = color.New(color.FgCyan)
	diffDel    = color.New(color.FgRed)
	diffAdd    = color.New(color.FgGreen)
)

// Diff 生成 a 到 b 的统一 diff，内容相同时返回空串。
// 输出为单个差异块：对齐公共前后缀后，中间部分整体按删除加新增列出。
// 终端下删除行红色、新增行绿色，非终端输出自动关闭着色。
func Diff(name string, a, b []byte) string {
	aLines := splitLines(a)
	bLines := splitLines(b)

	prefix := commonPrefix(aLines, bLines)
	if prefix == len(aLines) && prefix == len(bLines) {
		return ""
	}
	suffix := commonSuffix(aLines, bLines, prefix)

	lo := max(prefix-diffContext, 0)
	aHi := len(aLines) - suffix
	bHi := len(bLines) - suffix
	end := min(aHi+diffContext, len(aLines))

	aStart, aCount := lo+1, end-lo
	bStart, bCount := lo+1, bHi+(end-aHi)-lo
	// 统一 diff 约定：空区间的起始行号指向前一行。
	if aCount == 0 {
		aStart = lo
	}
	if bCount == 0 {
		bStart = lo
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\n",
		diffHeader.Sprintf("--- %s.orig", name),
		diffHeader.Sprintf("+++ %s", name))
	fmt.Fprintf(&sb, "%s\n", diffHeader.Sprintf("@@ -%d,%d +%d,%d @@", aStart, aCount, bStart, bCount))

	for _, line := range aLines[lo:prefix] {
		sb.WriteString(" " + line + "\n")
	}
	for _, line := range aLines[prefix:aHi] {
		sb.WriteString(diffDel.Sprintf("-%s", line) + "\n")
	}
	for _, line := range bLines[prefix:bHi] {
		sb.WriteString(diffAdd.Sprintf("+%s", line) + "\n")
	}
	for _, line := range aLines[aHi:end] {
		sb.WriteString(" " + line + "\n")
	}
	return sb.String()
}

// splitLines 按行拆分并丢弃行终止符。末尾换行不产生空行。
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	lines := strings.Split(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func commonPrefix(a, b []string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// commonSuffix 统计公共后缀行数，不与已计入的前缀重叠。
func commonSuffix(a, b []string, prefix int) int {
	n := min(len(a), len(b)) - prefix
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}
