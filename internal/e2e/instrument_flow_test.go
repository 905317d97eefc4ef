//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/omeyang/xtimed/internal/rewrite"
)

const configYAML = `trace: true
exclude:
  - "*_gen.go"
`

const serviceSrc = `package payment

import (
	"context"
	"time"
)

//xtimed:measure name="handle-charge", threshold="100ms"
func HandleCharge(ctx context.Context, amount int) error {
	time.Sleep(time.Duration(amount))
	return ctx.Err()
}
`

const metricsSrc = `package payment

//xtimed:measure name="sum"
func Sum[T int | float64](vals []T) T {
	var total T
	for _, v := range vals {
		total += v
	}
	return total
}

type Ledger struct {
	entries []int
}

//xtimed:measure name="ledger-total", level="debug"
func (l *Ledger) Total() int {
	n := 0
	for _, e := range l.entries {
		n += e
	}
	return n
}
`

const generatedSrc = `// Code generated by protoc-gen-fake. DO NOT EDIT.

package payment

//xtimed:measure name="gen"
func Generated() {}
`

const excludedSrc = `package payment

//xtimed:measure name="legacy"
func Legacy() {}
`

const vendoredSrc = `package lib

//xtimed:measure name="vendored"
func Vendored() {}
`

const plainSrc = `package payment

func Helper() int { return 1 }
`

func TestInstrumentProjectFlow_E2E(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".xtimed.yaml"), configYAML)
	writeFile(t, filepath.Join(dir, "service.go"), serviceSrc)
	writeFile(t, filepath.Join(dir, "metrics.go"), metricsSrc)
	writeFile(t, filepath.Join(dir, "generated.go"), generatedSrc)
	writeFile(t, filepath.Join(dir, "legacy_gen.go"), excludedSrc)
	writeFile(t, filepath.Join(dir, "vendor", "lib", "lib.go"), vendoredSrc)
	writeFile(t, filepath.Join(dir, "plain.go"), plainSrc)

	fc, err := rewrite.LoadConfig(filepath.Join(dir, ".xtimed.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !fc.Trace {
		t.Fatal("config did not enable tracing")
	}

	p := rewrite.NewPipeline(rewrite.Options{
		Write:   true,
		Trace:   fc.Trace,
		Jobs:    fc.Jobs,
		Exclude: fc.Exclude,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	})

	report, err := p.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if errs := report.Errs(); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := report.Files(); got != 4 {
		t.Fatalf("processed %d files, want 4", got)
	}
	wantChanged := []string{
		filepath.Join(dir, "metrics.go"),
		filepath.Join(dir, "service.go"),
	}
	if got := report.Changed(); !equalStrings(got, wantChanged) {
		t.Fatalf("changed = %v, want %v", got, wantChanged)
	}

	service := readFile(t, filepath.Join(dir, "service.go"))
	assertContains(t, "service.go", service,
		`__xtimedCtx, __xtimedSpan := timed.StartSpan(ctx, "handle-charge")`,
		`defer __xtimedSpan.End()`,
		`func(ctx context.Context) error {`,
		`}(__xtimedCtx)`,
		`if __xtimedElapsed >= 100*time.Millisecond {`,
		`timed.Info("handle-charge", __xtimedElapsed)`,
		`"github.com/omeyang/xtimed/pkg/observability/timed"`,
	)
	assertParses(t, "service.go", service)

	metrics := readFile(t, filepath.Join(dir, "metrics.go"))
	assertContains(t, "metrics.go", metrics,
		`_, __xtimedSpan := timed.StartSpan(context.Background(), "sum")`,
		`func() T {`,
		`timed.Info("sum", __xtimedElapsed)`,
		`_, __xtimedSpan := timed.StartSpan(context.Background(), "ledger-total")`,
		`func() int {`,
		`timed.Debug("ledger-total", __xtimedElapsed)`,
		`"context"`,
		`"time"`,
		`"github.com/omeyang/xtimed/pkg/observability/timed"`,
	)
	assertParses(t, "metrics.go", metrics)

	assertUntouched(t, filepath.Join(dir, "generated.go"), generatedSrc)
	assertUntouched(t, filepath.Join(dir, "legacy_gen.go"), excludedSrc)
	assertUntouched(t, filepath.Join(dir, "vendor", "lib", "lib.go"), vendoredSrc)
	assertUntouched(t, filepath.Join(dir, "plain.go"), plainSrc)

	again, err := p.Run(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if errs := again.Errs(); len(errs) > 0 {
		t.Fatalf("second run errors: %v", errs)
	}
	if got := again.Changed(); len(got) != 0 {
		t.Fatalf("second run changed %v, want none", got)
	}
}

func TestStdinFlow_E2E(t *testing.T) {
	var out bytes.Buffer
	p := rewrite.NewPipeline(rewrite.Options{
		Stdout: &out,
		Stderr: io.Discard,
	})

	report, err := p.RunStdin(strings.NewReader(plainSrc + `
//xtimed:measure name="quick"
func Quick() {}
`))
	if err != nil {
		t.Fatalf("RunStdin: %v", err)
	}
	if errs := report.Errs(); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	got := out.String()
	assertContains(t, "<stdin>", got,
		`__xtimedStart := time.Now()`,
		`timed.Info("quick", __xtimedElapsed)`,
	)
	assertParses(t, "<stdin>", got)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func assertContains(t *testing.T, name, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("%s missing %q\n%s", name, want, got)
		}
	}
}

func assertParses(t *testing.T, name, src string) {
	t.Helper()
	if _, err := parser.ParseFile(token.NewFileSet(), name, src, parser.ParseComments); err != nil {
		t.Fatalf("%s does not parse: %v", name, err)
	}
}

func assertUntouched(t *testing.T, path, original string) {
	t.Helper()
	if got := readFile(t, path); got != original {
		t.Fatalf("%s was modified:\n%s", path, got)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
