// Package replay drives lightanchor tracker from recorded frame logs.
//
// Frame log is a ';'-separated CSV with header "frame;corners;brightness".
// Every row describes single quad: frame index, four corners as "x,y|x,y|x,y|x,y"
// and brightness measured inside the quad. Row with empty corners marks frame without quads.
package replay

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/LdDl/lightanchor-go/lightanchor"
	"github.com/pkg/errors"
)

// Frame is a single recorded frame
type Frame struct {
	Index        int
	Quads        []lightanchor.Quad
	Brightnesses []float64
}

// Brightness returns recorded brightness of the closest quad whose center is within maxDist of the requested one.
// Spot without recorded quad nearby is dark.
func (frame *Frame) Brightness(quad lightanchor.Quad, maxDist float64) float64 {
	best := -1
	minDist := math.MaxFloat64
	for i, recorded := range frame.Quads {
		dist := math.Hypot(recorded.Center.X-quad.Center.X, recorded.Center.Y-quad.Center.Y)
		if dist <= maxDist && dist < minDist {
			minDist = dist
			best = i
		}
	}
	if best == -1 {
		return 0
	}
	return frame.Brightnesses[best]
}

// Sampler returns brightness sampler over recorded frame
func (frame *Frame) Sampler(maxDist float64) lightanchor.Sampler {
	return lightanchor.SamplerFunc(func(quad lightanchor.Quad) (float64, error) {
		return frame.Brightness(quad, maxDist), nil
	})
}

// ReadFrames parses frame log. Rows must be grouped by frame index
func ReadFrames(r io.Reader) ([]Frame, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = 3
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "Can't read frame log")
	}
	frames := make([]Frame, 0)
	for lineIdx, record := range records {
		if lineIdx == 0 && strings.TrimSpace(record[0]) == "frame" {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, errors.Wrapf(err, "Bad frame index on row %d", lineIdx+1)
		}
		if len(frames) == 0 || frames[len(frames)-1].Index != index {
			if len(frames) > 0 && index < frames[len(frames)-1].Index {
				return nil, errors.Errorf("Frame %d on row %d goes after frame %d", index, lineIdx+1, frames[len(frames)-1].Index)
			}
			frames = append(frames, Frame{Index: index})
		}
		if strings.TrimSpace(record[1]) == "" {
			continue
		}
		corners, err := parseCorners(record[1])
		if err != nil {
			return nil, errors.Wrapf(err, "Bad corners on row %d", lineIdx+1)
		}
		brightness, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Bad brightness on row %d", lineIdx+1)
		}
		current := &frames[len(frames)-1]
		current.Quads = append(current.Quads, lightanchor.NewQuad(corners))
		current.Brightnesses = append(current.Brightnesses, brightness)
	}
	return frames, nil
}

func parseCorners(text string) ([4]lightanchor.Point, error) {
	var corners [4]lightanchor.Point
	parts := strings.Split(strings.TrimSpace(text), "|")
	if len(parts) != 4 {
		return corners, errors.Errorf("expected 4 corners, got %d", len(parts))
	}
	for i, part := range parts {
		xy := strings.Split(part, ",")
		if len(xy) != 2 {
			return corners, errors.Errorf("bad point %q", part)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return corners, errors.Wrapf(err, "bad x in %q", part)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return corners, errors.Wrapf(err, "bad y in %q", part)
		}
		corners[i] = lightanchor.NewPoint(x, y)
	}
	return corners, nil
}

// DetectionWriter writes detections as ';'-separated CSV
type DetectionWriter struct {
	writer      *csv.Writer
	width       uint
	wroteHeader bool
}

// NewDetectionWriter creates writer. Codes are printed in binary with given width
func NewDetectionWriter(w io.Writer, width uint) *DetectionWriter {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	return &DetectionWriter{
		writer: writer,
		width:  width,
	}
}

// Write writes detections of the single frame
func (dw *DetectionWriter) Write(frame int, detections []lightanchor.Detection) error {
	if !dw.wroteHeader {
		err := dw.writer.Write([]string{"frame", "id", "code", "confidence", "center", "corners"})
		if err != nil {
			return err
		}
		dw.wroteHeader = true
	}
	for _, detection := range detections {
		corners := make([]string, len(detection.Corners))
		for i, pt := range detection.Corners {
			corners[i] = fmt.Sprintf("%f,%f", pt.X, pt.Y)
		}
		err := dw.writer.Write([]string{
			strconv.Itoa(frame),
			detection.ID.String(),
			fmt.Sprintf("%0*b", int(dw.width), detection.Code),
			strconv.Itoa(detection.Confidence),
			fmt.Sprintf("%f,%f", detection.Center.X, detection.Center.Y),
			strings.Join(corners, "|"),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes underlying CSV writer
func (dw *DetectionWriter) Flush() error {
	dw.writer.Flush()
	return dw.writer.Error()
}

// Stats summarizes replay
type Stats struct {
	Frames        int
	SkippedFrames int
	Detections    int
}

// Run processes frames sequentially. Frame which tracker fails to process is skipped.
// Brightness is looked up within tracker's center distance threshold.
// sink is called for every processed frame (including frames without detections).
func Run(tracker *lightanchor.Tracker, frames []Frame, sink func(frame int, detections []lightanchor.Detection) error) (Stats, error) {
	stats := Stats{}
	maxDist := tracker.Options().CenterDistThreshold
	for i := range frames {
		frame := &frames[i]
		detections, err := tracker.ProcessFrame(frame.Quads, frame.Sampler(maxDist))
		if err != nil {
			log.Printf("Warning: skipping frame %d: %v", frame.Index, err)
			stats.SkippedFrames++
			continue
		}
		stats.Frames++
		stats.Detections += len(detections)
		if sink == nil {
			continue
		}
		if err := sink(frame.Index, detections); err != nil {
			return stats, errors.Wrapf(err, "Can't handle detections of frame %d", frame.Index)
		}
	}
	return stats, nil
}
