package rewrite

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain 验证监视与并发流水线用例不泄漏 goroutine。
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
