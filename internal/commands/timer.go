package commands

import (
	"sync"
	"time"
)

// resetTimer — единственный слот отложенного авто-сброса актуатора.
// Schedule атомарно снимает предыдущий таймер и взводит новый
type resetTimer struct {
	mu sync.Mutex
	t  *time.Timer
}

func (rt *resetTimer) Schedule(d time.Duration, fn func()) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.t != nil {
		rt.t.Stop()
	}
	rt.t = time.AfterFunc(d, fn)
}

func (rt *resetTimer) Cancel() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.t != nil {
		rt.t.Stop()
		rt.t = nil
	}
}
