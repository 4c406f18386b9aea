package telemetry

import "container_monitor/internal/models"

// DefaultBufferSize is the number of points kept for live rendering.
const DefaultBufferSize = 50

// VisualizationBuffer is a bounded FIFO of chart points. Each appended point
// gets the next sequence id, so eviction order is observable.
type VisualizationBuffer struct {
	points []models.Point
	size   int
	nextID uint64
}

func NewVisualizationBuffer(size int) *VisualizationBuffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &VisualizationBuffer{
		points: make([]models.Point, 0, size),
		size:   size,
		nextID: 1,
	}
}

// Append stores p (its ID is assigned here) and evicts the oldest point when
// the buffer is over capacity. It returns the stored point.
func (b *VisualizationBuffer) Append(p models.Point) models.Point {
	p.ID = b.nextID
	b.nextID++
	if len(b.points) == b.size {
		copy(b.points, b.points[1:])
		b.points = b.points[:b.size-1]
	}
	b.points = append(b.points, p)
	return p
}

// Len returns the number of buffered points.
func (b *VisualizationBuffer) Len() int { return len(b.points) }

// Cap returns the buffer capacity.
func (b *VisualizationBuffer) Cap() int { return b.size }

// Points returns a copy of the buffered points, oldest first.
func (b *VisualizationBuffer) Points() []models.Point {
	out := make([]models.Point, len(b.points))
	copy(out, b.points)
	return out
}
