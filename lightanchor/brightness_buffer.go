package lightanchor

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BrightnessBuffer is fixed-capacity circular buffer of brightness samples.
// When buffer is full the oldest sample is evicted.
type BrightnessBuffer struct {
	buf  []float64
	idx  int
	size int
}

// NewBrightnessBuffer allocates buffer for capacity samples
func NewBrightnessBuffer(capacity int) (*BrightnessBuffer, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrBufferCapacity, "capacity %d", capacity)
	}
	return &BrightnessBuffer{
		buf: make([]float64, capacity),
	}, nil
}

// Add pushes sample into the buffer
func (qb *BrightnessBuffer) Add(value float64) {
	qb.buf[qb.idx] = value
	qb.idx = (qb.idx + 1) % len(qb.buf)
	if qb.size < len(qb.buf) {
		qb.size++
	}
}

// Cap returns capacity of the buffer
func (qb *BrightnessBuffer) Cap() int {
	return len(qb.buf)
}

// Len returns number of samples currently stored
func (qb *BrightnessBuffer) Len() int {
	return qb.size
}

// Full reports whether buffer holds exactly capacity samples
func (qb *BrightnessBuffer) Full() bool {
	return qb.size == len(qb.buf)
}

// Values returns copy of stored samples ordered from the oldest to the most recent
func (qb *BrightnessBuffer) Values() []float64 {
	values := make([]float64, 0, qb.size)
	start := 0
	if qb.Full() {
		start = qb.idx
	}
	for i := 0; i < qb.size; i++ {
		values = append(values, qb.buf[(start+i)%len(qb.buf)])
	}
	return values
}

// Stats returns max, min and mean over current contents. Empty buffer gives zeros
func (qb *BrightnessBuffer) Stats() (max, min, mean float64) {
	if qb.size == 0 {
		return 0, 0, 0
	}
	window := qb.buf[:qb.size]
	return floats.Max(window), floats.Min(window), stat.Mean(window, nil)
}

// Clone returns deep copy of the buffer
func (qb *BrightnessBuffer) Clone() *BrightnessBuffer {
	buf := make([]float64, len(qb.buf))
	copy(buf, qb.buf)
	return &BrightnessBuffer{
		buf:  buf,
		idx:  qb.idx,
		size: qb.size,
	}
}

// Reset drops all samples
func (qb *BrightnessBuffer) Reset() {
	qb.idx = 0
	qb.size = 0
}
