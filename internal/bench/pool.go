package bench

import (
	"context"
	"fmt"
	"sync"

	"hashmark/internal/dataset"
	"hashmark/internal/hashalg"
	"hashmark/internal/sampler"
)

// DefaultRepeats is the number of timed passes per task.
const DefaultRepeats = 5

// Pool fans benchmark tasks out to a fixed number of workers. Workers hash
// and read files without any locking; collected samples flow over a channel
// to a single collector goroutine that owns ResultStore insertion.
type Pool struct {
	Concurrency int
	Repeats     int
	ChunkSize   int
	Cache       *dataset.Cache
	Sampler     sampler.Sampler

	// OnTaskDone, when set, is called after each task completes or fails.
	// Used by callers to drive progress output and metrics.
	OnTaskDone func(task Task, err error)

	// exec runs one task and returns its samples. Overridable so tests can
	// substitute instrumented tasks.
	exec func(ctx context.Context, task Task) ([]Sample, error)

	warmMu sync.Mutex
	warmed map[string]bool
}

// NewPool builds a pool over the given dataset cache and sampler.
func NewPool(concurrency int, cache *dataset.Cache, smp sampler.Sampler) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	p := &Pool{
		Concurrency: concurrency,
		Repeats:     DefaultRepeats,
		ChunkSize:   dataset.DefaultChunkSize,
		Cache:       cache,
		Sampler:     smp,
		warmed:      make(map[string]bool),
	}
	p.exec = p.runTask
	return p
}

// Run drains the queue with Concurrency workers, appending every sample to
// store. It blocks until the queue is drained and all workers have joined,
// then returns the per-task failures. A failed task never aborts its
// siblings. Cancelling ctx stops work between passes; tasks still pending are
// reported as cancelled errors.
func (p *Pool) Run(ctx context.Context, queue *TaskQueue, store *ResultStore) []TaskError {
	samples := make(chan Sample, p.Concurrency*p.Repeats)
	failures := make(chan TaskError, p.Concurrency)

	var collectorWG sync.WaitGroup
	collectorWG.Add(1)
	var errs []TaskError
	go func(sampleCh <-chan Sample, failureCh <-chan TaskError) {
		defer collectorWG.Done()
		for sampleCh != nil || failureCh != nil {
			select {
			case s, open := <-sampleCh:
				if !open {
					sampleCh = nil
					continue
				}
				store.Append(s)
			case e, open := <-failureCh:
				if !open {
					failureCh = nil
					continue
				}
				errs = append(errs, e)
			}
		}
	}(samples, failures)

	var workerWG sync.WaitGroup
	for i := 0; i < p.Concurrency; i++ {
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			p.worker(ctx, queue, samples, failures)
		}()
	}

	workerWG.Wait()
	close(samples)
	close(failures)
	collectorWG.Wait()
	return errs
}

func (p *Pool) worker(ctx context.Context, queue *TaskQueue, samples chan<- Sample, failures chan<- TaskError) {
	for {
		task, ok := queue.Pop()
		if !ok {
			return
		}
		if err := ctx.Err(); err != nil {
			failures <- TaskError{Task: task, Err: fmt.Errorf("cancelled before execution: %w", err)}
			if p.OnTaskDone != nil {
				p.OnTaskDone(task, err)
			}
			continue
		}

		taskSamples, err := p.exec(ctx, task)
		for _, s := range taskSamples {
			samples <- s
		}
		if err != nil {
			failures <- TaskError{Task: task, Err: err}
		}
		if p.OnTaskDone != nil {
			p.OnTaskDone(task, err)
		}
	}
}

// runTask executes one task: materialize the dataset, warm up once per
// dataset key, then Repeats timed passes. Resource probes are read after each
// pass; a probe failure degrades to the Missing sentinel instead of failing
// the task.
func (p *Pool) runTask(ctx context.Context, task Task) ([]Sample, error) {
	handle, err := p.Cache.GetOrCreate(task.DataSizeMB, task.Iterations)
	if err != nil {
		return nil, err
	}

	hashChunk, err := hashalg.Capability(task.Algorithm)
	if err != nil {
		return nil, err
	}

	if err := p.warmUp(handle, hashChunk); err != nil {
		return nil, err
	}

	repeats := p.Repeats
	if repeats < 1 {
		repeats = 1
	}

	var out []Sample
	peakMemoryMB := sampler.Missing
	for pass := 0; pass < repeats; pass++ {
		select {
		case <-ctx.Done():
			return out, fmt.Errorf("cancelled after %d of %d passes: %w", pass, repeats, ctx.Err())
		default:
		}

		start := p.Sampler.Now()
		err := handle.Stream(p.ChunkSize, func(chunk []byte) {
			hashChunk(chunk)
		})
		elapsed := p.Sampler.Now().Sub(start)
		if err != nil {
			return out, err
		}

		cpuPct, cpuErr := p.Sampler.CPUPercent()
		if cpuErr != nil {
			cpuPct = sampler.Missing
		}
		memMB, memErr := p.Sampler.ResidentMemoryMB()
		if memErr == nil && memMB > peakMemoryMB {
			peakMemoryMB = memMB
		}

		out = append(out, Sample{
			Algorithm:    task.Algorithm,
			DataSizeMB:   task.DataSizeMB,
			Iterations:   task.Iterations,
			ElapsedMS:    elapsed.Seconds() * 1000,
			CPUPercent:   cpuPct,
			PeakMemoryMB: peakMemoryMB,
		})
	}
	return out, nil
}

// warmUp streams the dataset once untimed, the first time its key is seen, to
// stabilize page cache and branch predictors before measurement.
func (p *Pool) warmUp(handle dataset.Handle, hashChunk func([]byte) []byte) error {
	p.warmMu.Lock()
	done := p.warmed[handle.Key()]
	if !done {
		p.warmed[handle.Key()] = true
	}
	p.warmMu.Unlock()
	if done {
		return nil
	}
	return handle.Stream(p.ChunkSize, func(chunk []byte) {
		hashChunk(chunk)
	})
}
