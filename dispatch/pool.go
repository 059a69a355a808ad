package dispatch

import (
	"sync"
)

// Pool runs each submitted function on its own goroutine. With a positive
// limit, at most that many functions run at once; the others wait their
// turn without blocking the submitter.
type Pool struct {
	wg  sync.WaitGroup
	sem chan struct{}
}

// NewPool creates a Pool running at most maxConcurrent functions at once.
// If maxConcurrent <= 0, concurrency is unlimited.
func NewPool(maxConcurrent int) *Pool {
	p := &Pool{}
	if maxConcurrent > 0 {
		p.sem = make(chan struct{}, maxConcurrent)
	}

	return p
}

// Execute runs fn on a new goroutine once a slot is free.
func (p *Pool) Execute(fn func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if p.sem != nil {
			p.sem <- struct{}{}
			defer func() {
				<-p.sem
			}()
		}

		fn()
	}()
}

// Wait blocks until every function submitted so far has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}
