package queue

import (
	"sync"

	"container_monitor/internal/models"
)

// MemQueue is a bounded in-memory FIFO of records waiting to be persisted.
type MemQueue struct {
	mu   sync.Mutex
	data []models.HistoryRecord
	cap  int
}

func NewMemQueue(capacity int) *MemQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemQueue{
		data: make([]models.HistoryRecord, 0, capacity),
		cap:  capacity,
	}
}

// Enqueue appends r and reports false when the queue is full.
func (q *MemQueue) Enqueue(r models.HistoryRecord) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) >= q.cap {
		return false
	}
	q.data = append(q.data, r)
	return true
}

// DequeueBatch removes and returns up to max records, oldest first.
func (q *MemQueue) DequeueBatch(max int) []models.HistoryRecord {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		return nil
	}
	if max <= 0 || max > len(q.data) {
		max = len(q.data)
	}
	out := make([]models.HistoryRecord, max)
	copy(out, q.data[:max])
	q.data = append(q.data[:0], q.data[max:]...)
	return out
}

func (q *MemQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.data)
}
