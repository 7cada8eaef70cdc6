package queue

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Worker processes jobs from a queue
type Worker struct {
	redis      *RedisClient
	queue      string
	handler    JobHandler
	numWorkers int
	wg         sync.WaitGroup
	quit       chan struct{}
	scheduler  *gocron.Scheduler
}

// NewWorker creates a new worker
func NewWorker(redis *RedisClient, queue string, handler JobHandler, numWorkers int) *Worker {
	return &Worker{
		redis:      redis,
		queue:      queue,
		handler:    handler,
		numWorkers: numWorkers,
		quit:       make(chan struct{}),
		scheduler:  gocron.NewScheduler(time.UTC),
	}
}

// Start starts the worker
func (w *Worker) Start() {
	log.Printf("Starting %d workers for queue %s", w.numWorkers, w.queue)

	for i := 0; i < w.numWorkers; i++ {
		w.wg.Add(1)
		go w.process(i)
	}

	w.startScheduler()
}

// Stop stops the worker
func (w *Worker) Stop() {
	log.Printf("Stopping workers for queue %s", w.queue)
	close(w.quit)
	w.wg.Wait()
	w.scheduler.Stop()
}

// process processes jobs from the queue
func (w *Worker) process(workerID int) {
	defer w.wg.Done()

	log.Printf("Worker %d for queue %s started", workerID, w.queue)

	for {
		select {
		case <-w.quit:
			log.Printf("Worker %d for queue %s stopped", workerID, w.queue)
			return
		default:
			job, err := w.redis.Dequeue(w.queue, 1*time.Second)
			if err != nil {
				log.Printf("Error dequeueing job: %v", err)
				time.Sleep(1 * time.Second)
				continue
			}

			if job == nil {
				time.Sleep(100 * time.Millisecond)
				continue
			}

			log.Printf("Worker %d processing job %s from queue %s", workerID, job.ID, w.queue)
			ctx := context.Background()

			result, err := w.handler(ctx, *job)
			if err != nil {
				log.Printf("Error processing job %s: %v", job.ID, err)
				if err := w.redis.Fail(w.queue, job, err); err != nil {
					log.Printf("Error marking job %s as failed: %v", job.ID, err)
				}
			} else {
				if err := w.redis.Complete(w.queue, job.ID, result); err != nil {
					log.Printf("Error marking job %s as completed: %v", job.ID, err)
				}
			}
		}
	}
}

// startScheduler starts the scheduler that feeds recurring jobs into the queue
func (w *Worker) startScheduler() {
	w.scheduler.Every(1).Minute().Do(func() {
		w.processRecurringJobs()
	})

	w.scheduler.StartAsync()
}

// processRecurringJobs enqueues recurring jobs registered for this queue
func (w *Worker) processRecurringJobs() {
	jobs, err := w.redis.GetRecurringJobs()
	if err != nil {
		log.Printf("Error getting recurring jobs: %v", err)
		return
	}

	for _, job := range jobs {
		if !job.Enabled || job.Queue != w.queue {
			continue
		}

		if job.LastRun != nil && time.Since(*job.LastRun) < recurringInterval(job.Schedule) {
			continue
		}

		_, err := w.redis.Enqueue(JobType(job.Queue), job.Payload)
		if err != nil {
			log.Printf("Error enqueueing recurring job %s: %v", job.Name, err)
			continue
		}

		now := time.Now()
		job.LastRun = &now

		data, err := json.Marshal(job)
		if err != nil {
			log.Printf("Error marshaling recurring job %s: %v", job.Name, err)
			continue
		}

		if err := w.redis.client.HSet(w.redis.ctx, recurringPrefix+"jobs", job.Name, data).Err(); err != nil {
			log.Printf("Error updating recurring job %s: %v", job.Name, err)
		}
	}
}

// recurringInterval parses a schedule like "@every 15m" into a duration,
// defaulting to hourly when the schedule is unrecognized
func recurringInterval(schedule string) time.Duration {
	const prefix = "@every "
	if len(schedule) > len(prefix) && schedule[:len(prefix)] == prefix {
		if d, err := time.ParseDuration(schedule[len(prefix):]); err == nil {
			return d
		}
	}
	return time.Hour
}

// WorkerManager manages multiple workers
type WorkerManager struct {
	redis   *RedisClient
	workers map[string]*Worker
	mu      sync.Mutex
}

// NewWorkerManager creates a new worker manager
func NewWorkerManager(redis *RedisClient) *WorkerManager {
	return &WorkerManager{
		redis:   redis,
		workers: make(map[string]*Worker),
	}
}

// RegisterWorker registers a worker for a queue
func (m *WorkerManager) RegisterWorker(queue string, handler JobHandler, numWorkers int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.workers[queue]; exists {
		log.Printf("Worker for queue %s already registered", queue)
		return
	}

	m.redis.RegisterHandler(JobType(queue), handler)
	worker := NewWorker(m.redis, queue, handler, numWorkers)
	m.workers[queue] = worker
}

// StartAll starts all registered workers
func (m *WorkerManager) StartAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for queue, worker := range m.workers {
		log.Printf("Starting worker for queue %s", queue)
		worker.Start()
	}
}

// StopAll stops all registered workers
func (m *WorkerManager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for queue, worker := range m.workers {
		log.Printf("Stopping worker for queue %s", queue)
		worker.Stop()
	}
}

// EnqueueJob enqueues a job to a queue
func (m *WorkerManager) EnqueueJob(queue string, payload interface{}, opts ...EnqueueOption) (string, error) {
	return m.redis.Enqueue(JobType(queue), payload, opts...)
}

// ScheduleJob schedules a job to run after a delay
func (m *WorkerManager) ScheduleJob(queue string, payload interface{}, delay time.Duration, opts ...EnqueueOption) (string, error) {
	options := append(opts, WithDelay(delay))
	return m.redis.Enqueue(JobType(queue), payload, options...)
}

// ScheduleRecurringJob schedules a recurring job
func (m *WorkerManager) ScheduleRecurringJob(name, queue string, payload interface{}, schedule string) error {
	return m.redis.ScheduleRecurring(name, JobType(queue), payload, schedule)
}

// RemoveRecurringJob removes a recurring job
func (m *WorkerManager) RemoveRecurringJob(name string) error {
	return m.redis.RemoveRecurring(name)
}

// GetQueueStats gets statistics for a queue
func (m *WorkerManager) GetQueueStats(queue string) (*QueueStats, error) {
	return m.redis.GetQueueStats(queue)
}
