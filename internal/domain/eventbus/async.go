package eventbus

import (
	"sync"
)

const defaultQueueSize = 1000

type workerPool struct {
	workerNum int
	workCh    chan func()
	stopCh    chan struct{}
	wg        sync.WaitGroup
	once      sync.Once
}

func newWorkerPool(workerNum int) *workerPool {
	if workerNum <= 0 {
		workerNum = 4
	}
	return &workerPool{
		workerNum: workerNum,
		workCh:    make(chan func(), defaultQueueSize),
		stopCh:    make(chan struct{}),
	}
}

func (p *workerPool) start() {
	for i := 0; i < p.workerNum; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *workerPool) stop() {
	p.once.Do(func() {
		close(p.stopCh)
	})
	p.wg.Wait()
}

func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			// drain jobs accepted before the stop signal
			for {
				select {
				case job := <-p.workCh:
					p.run(job)
				default:
					return
				}
			}
		case job := <-p.workCh:
			p.run(job)
		}
	}
}

func (p *workerPool) run(job func()) {
	defer func() {
		// a panicking subscriber must not take the worker down
		_ = recover()
	}()
	job()
}

// submit enqueues a job, dropping it when the queue is full.
func (p *workerPool) submit(job func()) {
	select {
	case p.workCh <- job:
	default:
	}
}
