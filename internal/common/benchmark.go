package common

import (
	"time"
)

type Benchmarker struct {
	start time.Time
	label string
}

func RuntimeBenchmark[T any](label string, functionUnderTest func() (T, error)) (T, error) {
	start := time.Now()
	result, err := functionUnderTest()
	GetLogger().Debugf("[BENCH] %s took %s", label, time.Since(start))
	return result, err
}

func NewBenchmarker(label string) *Benchmarker {
	return &Benchmarker{time.Now(), label}
}

func (benchmarker *Benchmarker) Elapsed() time.Duration {
	return time.Since(benchmarker.start)
}

func (benchmarker *Benchmarker) Close() {
	GetLogger().Debugf("[BENCH] %s took %s", benchmarker.label, benchmarker.Elapsed())
}
