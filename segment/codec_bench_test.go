package segment

import (
	"math"
	"testing"
)

func BenchmarkEncodeFull(b *testing.B) {
	b.ReportAllocs()

	var sinkHead, sinkTail uint32
	for b.Loop() {
		sinkHead, sinkTail = EncodeFull(math.Pi)
	}
	_, _ = sinkHead, sinkTail
}

func BenchmarkDecodeFull(b *testing.B) {
	head, tail := EncodeFull(math.Pi)
	b.ReportAllocs()

	var sink float64
	for b.Loop() {
		sink = DecodeFull(head, tail)
	}
	_ = sink
}

func BenchmarkDecodeHead(b *testing.B) {
	head := EncodeHead(math.Pi)
	b.ReportAllocs()

	var sink float64
	for b.Loop() {
		sink = DecodeHead(head)
	}
	_ = sink
}
