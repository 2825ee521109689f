package idgen

import "time"

// Clock 提供当前 Unix 毫秒时间，返回值不应回退
type Clock interface {
	NowMillis() uint64
}

// ClockFunc 将普通函数适配为 Clock
type ClockFunc func() uint64

func (f ClockFunc) NowMillis() uint64 {
	return f()
}

// SystemClock 返回基于 time.Now 的 Clock
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) NowMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}
