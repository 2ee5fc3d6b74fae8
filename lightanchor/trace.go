package lightanchor

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
)

// TraceEventKind is for kind of tracker's internal event
type TraceEventKind uint16

const (
	// TraceNew is emitted when unclaimed quad becomes a fresh candidate
	TraceNew TraceEventKind = iota
	// TraceGhost is emitted when unmatched candidate survives on shape similarity only
	TraceGhost
	// TraceDrop is emitted when candidate is destroyed
	TraceDrop
	// TraceBit is emitted when new bit is extracted
	TraceBit
	// TraceLock is emitted when UNLOCKED candidate matches registered code
	TraceLock
	// TraceContinue is emitted when LOCKED candidate holds predicted code
	TraceContinue
	// TraceLost is emitted when LOCKED candidate fails continuity check
	TraceLost
)

func (kind TraceEventKind) String() string {
	switch kind {
	case TraceNew:
		return "new"
	case TraceGhost:
		return "ghost"
	case TraceDrop:
		return "drop"
	case TraceBit:
		return "bit"
	case TraceLock:
		return "lock"
	case TraceContinue:
		return "continue"
	case TraceLost:
		return "lost"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(kind))
	}
}

// TraceEvent describes single event of the per-frame cycle
type TraceEvent struct {
	Kind         TraceEventKind
	Frame        uint64
	CandidateID  uuid.UUID
	Code         uint32
	NextCode     uint32
	Width        uint
	Confidence   int
	TTL          int
	Brightnesses []float64
}

// Tracer receives tracker's events. Implementations must not retain candidate state beyond the call
type Tracer interface {
	Trace(event TraceEvent)
}

// NopTracer discards every event
type NopTracer struct{}

// Trace does nothing
func (NopTracer) Trace(TraceEvent) {}

// LogTracer prints events as text lines with binary code dumps
type LogTracer struct {
	Logger *log.Logger
}

// NewLogTracer creates tracer writing into logger
func NewLogTracer(logger *log.Logger) *LogTracer {
	return &LogTracer{Logger: logger}
}

// Trace prints event
func (lt *LogTracer) Trace(event TraceEvent) {
	if lt.Logger == nil {
		return
	}
	line := fmt.Sprintf("frame=%d id=%s event=%s code=%s next=%s confidence=%d ttl=%d",
		event.Frame, event.CandidateID, event.Kind,
		formatBits(event.Code, event.Width), formatBits(event.NextCode, event.Width),
		event.Confidence, event.TTL,
	)
	if event.Kind == TraceLost && len(event.Brightnesses) > 0 {
		values := make([]string, len(event.Brightnesses))
		for i, v := range event.Brightnesses {
			values[i] = fmt.Sprintf("%.0f", v)
		}
		line += " brightnesses=" + strings.Join(values, ",")
	}
	lt.Logger.Println(line)
}

func formatBits(bits uint32, width uint) string {
	if width == 0 {
		return ""
	}
	return fmt.Sprintf("%0*b", int(width), bits&widthMask(width))
}
