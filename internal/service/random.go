package service

import (
	"math"
	"math/rand/v2"
)

// Rand 抽象随机数来源。默认实现使用 math/rand/v2 的全局函数（并发安全），
// 测试中可以注入固定种子的 *rand.Rand（只在单个 goroutine 中使用）。
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand 返回并发安全的全局随机源。
func DefaultRand() Rand { return globalRand{} }

// uniform 返回 [lo, hi) 区间内的均匀分布随机数。
func uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// round1 保留一位小数。
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
