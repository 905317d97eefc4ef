package xdur

import "testing"

// =============================================================================
// Parse 基准测试
// =============================================================================

func BenchmarkParse_Millis(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Parse("500ms"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_Seconds(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Parse("1s"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_Invalid(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Parse("not-a-duration"); err == nil {
			b.Fatal("expected error")
		}
	}
}

func BenchmarkParse_Allocs(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Parse("500ms"); err != nil {
			b.Fatal(err)
		}
	}
}
