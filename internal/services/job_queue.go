package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Renal37/wastecollect/internal/logger"
	"go.uber.org/zap"
)

var (
	ErrJobQueueIsFull = errors.New("очередь заданий заполнена")
	ErrJobQueueClosed = errors.New("очередь заданий закрыта")
)

// Job: фоновое задание, например автоплатеж по заявке.
type Job func(ctx context.Context)

// JobQueueService: пул воркеров поверх буферизованного канала.
type JobQueueService struct {
	jobs    chan Job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closing atomic.Bool
}

// NewJobQueueService запускает workers воркеров. Они завершаются
// при отмене ctx или после Shutdown.
func NewJobQueueService(ctx context.Context, capacity, workers int) *JobQueueService {
	service := &JobQueueService{
		jobs: make(chan Job, capacity),
	}
	service.start(ctx, workers)

	return service
}

func (jqs *JobQueueService) start(ctx context.Context, workers int) {
	for i := 0; i < workers; i++ {
		jqs.wg.Add(1)

		go func(workerID int) {
			defer jqs.wg.Done()

			for {
				select {
				case job, ok := <-jqs.jobs:
					if !ok {
						return
					}
					jqs.run(ctx, workerID, job)
				case <-ctx.Done():
					return
				}
			}
		}(i + 1)
	}
}

// run не дает панике в задании остановить воркер
func (jqs *JobQueueService) run(ctx context.Context, workerID int, job Job) {
	defer func() {
		if p := recover(); p != nil {
			logger.Log.Error("job panicked", zap.Int("worker", workerID), zap.Any("panic", p))
		}
	}()

	job(ctx)
}

// Enqueue не блокируется: при заполненной очереди возвращает ErrJobQueueIsFull.
func (jqs *JobQueueService) Enqueue(job Job) error {
	jqs.mu.RLock()
	defer jqs.mu.RUnlock()

	if jqs.closing.Load() {
		return ErrJobQueueClosed
	}

	select {
	case jqs.jobs <- job:
		return nil
	default:
		return ErrJobQueueIsFull
	}
}

// ScheduleJob ставит задание в очередь через delay.
func (jqs *JobQueueService) ScheduleJob(job Job, delay time.Duration) {
	time.AfterFunc(delay, func() {
		if err := jqs.Enqueue(job); err != nil {
			logger.Log.Warn("failed to schedule job", zap.Error(err))
		}
	})
}

// Shutdown закрывает очередь и ждет, пока воркеры выполнят уже принятые задания.
func (jqs *JobQueueService) Shutdown() {
	jqs.mu.Lock()
	if jqs.closing.Swap(true) {
		jqs.mu.Unlock()
		return
	}
	close(jqs.jobs)
	jqs.mu.Unlock()

	jqs.wg.Wait()
}
