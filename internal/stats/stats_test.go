package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollector_RecordsAndSnapshots(t *testing.T) {
	c := New()

	c.RecordUpdate()
	c.RecordUpdate()
	c.RecordEnqueued(3)
	c.RecordDropped()
	c.RecordDeduped()
	c.RecordError()
	c.RecordDispatch(100 * time.Millisecond)
	c.RecordDispatch(300 * time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, int64(2), snap.TotalUpdates)
	assert.Equal(t, int64(1), snap.TotalEnqueued)
	assert.Equal(t, int64(1), snap.TotalDropped)
	assert.Equal(t, int64(1), snap.TotalDeduped)
	assert.Equal(t, int64(1), snap.TotalErrors)
	assert.Equal(t, 3, snap.LastQueueSize)
	assert.Equal(t, int64(400), snap.CumulativeDispatch)
	assert.Equal(t, int64(300), snap.LastDispatchMs)
	assert.InDelta(t, 200.0, snap.AverageDispatchMs(), 0.001)
}

func TestCollector_AverageDispatchMsZeroWhenNoUpdates(t *testing.T) {
	c := New()
	assert.Equal(t, float64(0), c.Snapshot().AverageDispatchMs())
}
