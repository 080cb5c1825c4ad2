package fetching

import (
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/util"
)

// Job is one download. File is nil for memory mode.
type Job struct {
	Url     string
	Options Options
	File    *FileOptions
}

// Task is an in-flight Job. It completes exactly once.
type Task struct {
	done   chan struct{}
	result *FetchResult
	err    error
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes.
func (t *Task) Wait() (*FetchResult, error) {
	<-t.done
	return t.result, t.err
}

func (t *Task) complete(result *FetchResult, err error) {
	t.result = result
	t.err = err
	close(t.done)
}

// Start schedules the job on the download queue and returns immediately.
func (f *Fetcher) Start(ctx rcontext.RequestContext, job Job) *Task {
	task := &Task{done: make(chan struct{})}

	fn := func() {
		defer func() {
			if err := recover(); err != nil {
				ctx.Log.Errorf("Panic while fetching %s: %v", job.Url, err)
				task.complete(nil, util.PanicToError(err))
			}
		}()
		task.complete(f.run(ctx, job))
	}

	if f.queue == nil {
		go fn()
		return task
	}
	if err := f.queue.Schedule(fn); err != nil {
		ctx.Log.Warn("Download queue rejected the job: ", err)
		task.complete(nil, err)
	}
	return task
}
