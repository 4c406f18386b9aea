package telemetry

import (
	"sort"
	"time"

	"container_monitor/internal/models"
)

// SortRecords orders by timestamp, then ID, so that equal timestamps do not
// make the result depend on the order the store returned them in.
func SortRecords(rs []models.HistoryRecord) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Timestamp != rs[j].Timestamp {
			return rs[i].Timestamp < rs[j].Timestamp
		}
		return rs[i].ID < rs[j].ID
	})
}

// Downsample selects at most maxPoints records spaced at least minGap apart,
// anchored on the newest record, and returns them oldest first. The input is
// not modified.
func Downsample(records []models.HistoryRecord, maxPoints int, minGap time.Duration) []models.HistoryRecord {
	if maxPoints <= 0 || len(records) == 0 {
		return []models.HistoryRecord{}
	}
	sorted := make([]models.HistoryRecord, len(records))
	copy(sorted, records)
	SortRecords(sorted)

	gap := minGap.Milliseconds()
	picked := make([]models.HistoryRecord, 0, maxPoints)
	picked = append(picked, sorted[len(sorted)-1])
	for i := len(sorted) - 2; i >= 0 && len(picked) < maxPoints; i-- {
		if picked[len(picked)-1].Timestamp-sorted[i].Timestamp >= gap {
			picked = append(picked, sorted[i])
		}
	}

	for i, j := 0, len(picked)-1; i < j; i, j = i+1, j-1 {
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked
}

// LiveSeries is the rendered history sequence after the initial downsample.
// New records are appended only when they are minGap past the last rendered
// point. Not safe for concurrent use.
type LiveSeries struct {
	maxPoints int
	minGap    time.Duration
	points    []models.HistoryRecord
}

// NewLiveSeries seeds the series with an initial downsample result.
func NewLiveSeries(initial []models.HistoryRecord, maxPoints int, minGap time.Duration) *LiveSeries {
	if maxPoints <= 0 {
		maxPoints = DefaultBufferSize
	}
	s := &LiveSeries{maxPoints: maxPoints, minGap: minGap}
	s.points = append(s.points, initial...)
	s.trim()
	return s
}

// Append adds r if it is far enough past the last rendered point and
// reports whether it was added.
func (s *LiveSeries) Append(r models.HistoryRecord) bool {
	if n := len(s.points); n > 0 {
		if r.Timestamp-s.points[n-1].Timestamp < s.minGap.Milliseconds() {
			return false
		}
	}
	s.points = append(s.points, r)
	s.trim()
	return true
}

func (s *LiveSeries) trim() {
	if over := len(s.points) - s.maxPoints; over > 0 {
		s.points = append(s.points[:0], s.points[over:]...)
	}
}

// Points returns a copy of the rendered sequence.
func (s *LiveSeries) Points() []models.HistoryRecord {
	out := make([]models.HistoryRecord, len(s.points))
	copy(out, s.points)
	return out
}
