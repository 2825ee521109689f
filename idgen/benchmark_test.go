package idgen

import "testing"

func BenchmarkGenerator_Generate(b *testing.B) {
	gen, _ := New(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = gen.Generate()
	}
}

func BenchmarkLocked_Generate_Parallel(b *testing.B) {
	gen, _ := New(1)
	l := NewLocked(gen)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = l.Generate()
		}
	})
}

func BenchmarkDecode(b *testing.B) {
	gen, _ := New(1)
	id, _ := gen.Generate()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.Decode(id)
	}
}
