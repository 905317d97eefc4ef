package timed_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/omeyang/xtimed/pkg/observability/timed"
	"github.com/stretchr/testify/assert"
)

func TestMeasure_ReportsElapsed(t *testing.T) {
	var out, errOut bytes.Buffer
	restore := timed.SetOutput(&out, &errOut)
	defer restore()

	done := timed.Measure("rebuild index")
	time.Sleep(2 * time.Millisecond)
	done()

	assert.Regexp(t, "^⏱ Function `rebuild index` executed in [0-9]+\\.[0-9]{3}(ns|µs|ms|s)\n$", out.String())
	assert.Empty(t, errOut.String())
}

func TestMeasure_ElapsedIsMonotonic(t *testing.T) {
	var out bytes.Buffer
	restore := timed.SetOutput(&out, &out)
	defer restore()

	done := timed.Measure("noop")
	done()

	// 再快的调用也不会出现负值。
	assert.NotContains(t, out.String(), "-")
}
