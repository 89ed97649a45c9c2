package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/shoreline/engine/core"
)

/**
 * @brief A unit of CPU work. Run executes on a worker goroutine, and so do
 * the callbacks; they must not touch the rendering context.
 */
type JobTask struct {
	Run        func() error
	OnComplete func()
	OnFailure  func(err error)
	// Always called last, whatever the outcome.
	OnCompletion func()
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
	}
	js.start()
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job JobTask) {
	if job.OnCompletion != nil {
		defer job.OnCompletion()
	}
	if job.Run == nil {
		return
	}
	if err := job.Run(); err != nil {
		if job.OnFailure != nil {
			job.OnFailure(err)
		} else {
			core.LogError(err.Error())
		}
		return
	}
	if job.OnComplete != nil {
		job.OnComplete()
	}
}

/**
 * @brief Shuts the job system down, waiting for queued jobs to finish.
 */
func (js *JobSystem) Shutdown() error {
	js.closeOnce.Do(func() {
		close(js.jobQueue)
	})
	js.wg.Wait()
	return nil
}

func (js *JobSystem) Workers() int {
	return js.numWorkers
}

// SubmitNonBlocking queues the job from a new goroutine and returns immediately.
func (js *JobSystem) SubmitNonBlocking(jt JobTask) {
	go js.Submit(jt)
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while the queue is full.
 */
func (js *JobSystem) Submit(jt JobTask) {
	js.jobQueue <- jt
}
