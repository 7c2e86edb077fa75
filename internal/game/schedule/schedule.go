// Package schedule 提供游戏会话使用的延迟任务调度器。
// 所有回调都在独立的 goroutine 触发，调用方需自行加锁并校验状态。
package schedule

import (
	"sync"
	"time"
)

// Scheduler 管理一组可整体取消的延迟任务。
// 每个游戏会话持有一个实例，解散时 StopAll 防止回调落到已销毁的会话上。
type Scheduler struct {
	mu      sync.Mutex
	timers  map[uint64]*time.Timer
	nextID  uint64
	stopped bool
}

func New() *Scheduler {
	return &Scheduler{
		timers: make(map[uint64]*time.Timer),
	}
}

// After 在 d 之后执行 fn。回调触发前会先从跟踪表移除自身，
// 因此 fn 内部可以安全地再次调度。
func (s *Scheduler) After(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	id := s.nextID
	s.nextID++

	s.timers[id] = time.AfterFunc(d, func() {
		s.mu.Lock()
		_, live := s.timers[id]
		delete(s.timers, id)
		stopped := s.stopped
		s.mu.Unlock()

		if !live || stopped {
			return
		}
		fn()
	})
}

// Countdown 启动一个倒计时：每隔 interval 调用一次 tick（参数为剩余跳数），
// 计满 ticks 次后调用 done。StopAll 可随时中断。
// 首跳也经由定时器触发，调用方持有的锁不会被 tick 重入。
func (s *Scheduler) Countdown(ticks int, interval time.Duration, tick func(remaining int), done func()) {
	s.After(0, func() {
		s.step(ticks, interval, tick, done)
	})
}

func (s *Scheduler) step(remaining int, interval time.Duration, tick func(int), done func()) {
	if remaining <= 0 {
		done()
		return
	}

	tick(remaining)
	s.After(interval, func() {
		s.step(remaining-1, interval, tick, done)
	})
}

// Pending 尚未触发的任务数
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// StopAll 取消所有未触发的任务。已进入回调的任务会在检查 stopped 后退出。
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// Shutdown 取消所有任务并拒绝后续调度。
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.stopped = true
}
