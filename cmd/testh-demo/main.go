// Command testh-demo declares a handful of sample units and runs them.
//
//	go run ./cmd/testh-demo
//	go run ./cmd/testh-demo list
//	go run ./cmd/testh-demo invoke 2
package main

import (
	"crypto/sha256"
	"hash/fnv"
	"os"
	"strings"

	"github.com/roach88/testh"
)

var fixture []byte

func init() {
	testh.Init(func() {
		fixture = []byte("hello, world")
	})
}

var _ = testh.Test("arithmetic", func(t *testh.T) {
	t.Assert(2+2 == 4)
	t.Equal(7*6, 42)
	t.Equal(int64(10)/3, 3)
})

var _ = testh.Test("strings", func(t *testh.T) {
	t.StrEqual(strings.ToUpper("go"), "GO")
	t.MemEqual(fixture, []byte("hello"))
	t.Sub("trim", func(t *testh.T) {
		t.StrEqual(strings.TrimSpace("  x "), "x")
	})
	t.Sub("fields", func(t *testh.T) {
		t.Equal(len(strings.Fields("a b  c")), 3)
	})
})

var _ = testh.Test("known failure", func(t *testh.T) {
	t.Sub("passes", func(t *testh.T) { t.Assert(true) })
	t.Sub("fails", func(t *testh.T) {
		t.Equal(len(fixture), 5)
	})
})

var _ = testh.Test("crashes", func(t *testh.T) {
	var m map[string]*int
	t.Equal(*m["missing"], 0)
})

var _ = testh.Test("still runs after a crash", func(t *testh.T) {
	t.Assert(fixture != nil)
})

var _ = testh.Test("hashing", func(t *testh.T) {
	t.Bench("sha256", func() {
		sha256.Sum256(fixture)
	})
	t.Sub("fnv", func(t *testh.T) {
		h := fnv.New64a()
		t.Bench("", func() {
			h.Reset()
			h.Write(fixture)
		}, testh.Iterations(10000))
		t.Assert(h.Sum64() != 0)
	})
})

func main() {
	os.Exit(testh.Main())
}
