package session

import "sync"

type lazyTask struct {
	once sync.Once
	fn   func()
}

func (t *lazyTask) Resume() {
	t.once.Do(func() {
		go t.fn()
	})
}
