package pool

import (
	"runtime"
	"sync"
	"testing"
)

func TestGetPut_ExactSize(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"256B", 256},
		{"1K", 1024},
		{"4K", 4096},
		{"16K", 16384},
		{"64K", 65536},
		{"500B", 500},
		{"3000B", 3000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Get(tt.size)
			if len(b) != tt.size {
				t.Errorf("Get(%d): len = %d, want %d", tt.size, len(b), tt.size)
			}
			Put(b)
		})
	}
}

func TestGetPut_LargeCapacity(t *testing.T) {
	// For each size class, request a size within that class and verify
	// the capacity is at least the size class minimum.
	tests := []struct {
		name   string
		size   int
		minCap int
	}{
		{"bucket0_exact", 256, 256},
		{"bucket0_small", 100, 256},
		{"bucket1_exact", 1024, 1024},
		{"bucket1_mid", 512, 1024},
		{"bucket2_exact", 4096, 4096},
		{"bucket2_mid", 2048, 4096},
		{"bucket3_exact", 16384, 16384},
		{"bucket4_exact", 65536, 65536},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Get(tt.size)
			if cap(b) < tt.minCap {
				t.Errorf("Get(%d): cap = %d, want >= %d", tt.size, cap(b), tt.minCap)
			}
			Put(b)
		})
	}
}

func TestGet_SmallSize(t *testing.T) {
	sizes := []int{1, 10, 64, 128, 255}
	for _, size := range sizes {
		b := Get(size)
		if len(b) != size {
			t.Errorf("Get(%d): len = %d, want %d", size, len(b), size)
		}
		// Small sizes go to bucket 0 (256B), so cap should be >= 256.
		if cap(b) < Size256B {
			t.Errorf("Get(%d): cap = %d, want >= %d", size, cap(b), Size256B)
		}
		Put(b)
	}
}

func TestGet_LargeSize(t *testing.T) {
	// Sizes larger than the top bucket still return a correctly sized
	// slice; Get falls back to a fresh allocation rather than pooling it.
	largeSize := 2 * Size64K
	b := Get(largeSize)
	if len(b) != largeSize {
		t.Errorf("Get(%d): len = %d, want %d", largeSize, len(b), largeSize)
	}
	if cap(b) < largeSize {
		t.Errorf("Get(%d): cap = %d, want >= %d", largeSize, cap(b), largeSize)
	}
	Put(b)

	justOver := Size64K + 1
	b2 := Get(justOver)
	if len(b2) != justOver {
		t.Errorf("Get(%d): len = %d, want %d", justOver, len(b2), justOver)
	}
	Put(b2)
}

func TestPut_SmallSlice(t *testing.T) {
	// Put of slices with cap < 256 should be a no-op (not panic).
	small := make([]byte, 100)
	Put(small) // Should not panic.

	tiny := make([]byte, 0, 10)
	Put(tiny) // Should not panic.

	// Verify the pool still works correctly after putting small slices.
	b := Get(256)
	if len(b) != 256 {
		t.Errorf("Get(256) after small Put: len = %d, want 256", len(b))
	}
	Put(b)
}

func TestConcurrency(t *testing.T) {
	const goroutines = 32
	const iterations = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				for _, size := range []int{128, 512, 2048, 8192, 32768} {
					b := Get(size)
					if len(b) != size {
						t.Errorf("concurrent Get(%d): len = %d", size, len(b))
						return
					}
					// Write to the buffer to detect data races.
					for j := range b {
						b[j] = byte(j)
					}
					Put(b)
				}
			}
		}()
	}

	wg.Wait()
}

func TestBucketIndex(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		wantBucket int
		wantMinCap int
	}{
		{"1->bucket0", 1, 0, Size256B},
		{"256->bucket0", 256, 0, Size256B},
		{"257->bucket1", 257, 1, Size1K},
		{"1024->bucket1", 1024, 1, Size1K},
		{"1025->bucket2", 1025, 2, Size4K},
		{"4096->bucket2", 4096, 2, Size4K},
		{"4097->bucket3", 4097, 3, Size16K},
		{"16384->bucket3", 16384, 3, Size16K},
		{"16385->bucket4", 16385, 4, Size64K},
		{"65536->bucket4", 65536, 4, Size64K},
		{"65537->bucket4", 65537, 4, Size64K},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := bucketIndex(tt.size)
			if idx != tt.wantBucket {
				t.Errorf("bucketIndex(%d) = %d, want %d", tt.size, idx, tt.wantBucket)
			}
		})
	}
}

func TestReuse(t *testing.T) {
	// Verify that Get still returns correctly sized buffers after Put + GC
	// and across repeated Get/Put cycles of the same size class.
	const size = 4096
	b := Get(size)
	if len(b) != size {
		t.Fatalf("Get(%d): len = %d", size, len(b))
	}

	sentinel := byte(0xAB)
	b[0] = sentinel
	b[size-1] = sentinel

	savedCap := cap(b)
	Put(b)

	runtime.GC()

	b2 := Get(size)
	if len(b2) != size {
		t.Fatalf("Get(%d) after reuse: len = %d", size, len(b2))
	}
	if cap(b2) < savedCap {
		if cap(b2) < Size4K {
			t.Errorf("Get(%d) after reuse: cap = %d, want >= %d", size, cap(b2), Size4K)
		}
	}
	Put(b2)

	for i := 0; i < 10; i++ {
		buf := Get(size)
		if len(buf) != size {
			t.Errorf("cycle %d: Get(%d) len = %d", i, size, len(buf))
		}
		Put(buf)
	}
}

func TestGet_ZeroSize(t *testing.T) {
	b := Get(0)
	if len(b) != 0 {
		t.Errorf("Get(0): len = %d, want 0", len(b))
	}
	Put(b)
}

func TestPut_NilSlice(t *testing.T) {
	Put(nil) // Should not panic: cap(nil) is 0, which is < Size256B.
}

func BenchmarkGet(b *testing.B) {
	benchmarks := []struct {
		name string
		size int
	}{
		{"256B", 256},
		{"4K", 4096},
		{"64K", 65536},
	}
	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				buf := Get(bm.size)
				Put(buf)
			}
		})
	}
}

func BenchmarkGetParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf := Get(4096)
			Put(buf)
		}
	})
}
