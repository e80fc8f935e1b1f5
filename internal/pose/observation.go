package pose

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"time"

	"github.com/2beens/physiotrack/internal/geometry"
)

type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

func (k Keypoint) Point() geometry.Point {
	return geometry.Point{X: k.X, Y: k.Y}
}

// Observation is one frame of pose estimator output.
// It is treated as immutable once built.
type Observation struct {
	Timestamp time.Time          `json:"timestamp"`
	Joints    map[Joint]Keypoint `json:"joints"`
}

func NewObservation(ts time.Time, joints map[Joint]Keypoint) Observation {
	return Observation{
		Timestamp: ts,
		Joints:    maps.Clone(joints),
	}
}

func (o Observation) Keypoint(j Joint) (Keypoint, bool) {
	kp, ok := o.Joints[j]
	return kp, ok
}

// Points are joint positions that passed the confidence gate.
type Points map[Joint]geometry.Point

// Require returns positions for every requested joint observed with confidence
// strictly above threshold. ok is false when any of them is missing or too weak.
func (o Observation) Require(threshold float64, joints ...Joint) (_ Points, ok bool) {
	points := make(Points, len(joints))
	for _, j := range joints {
		kp, found := o.Joints[j]
		if !found || kp.Confidence <= threshold {
			return nil, false
		}
		points[j] = kp.Point()
	}
	return points, true
}

// ReadStream decodes newline delimited observations, skipping blank lines.
func ReadStream(r io.Reader) ([]Observation, error) {
	var observations []Observation
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var obs Observation
		if err := json.Unmarshal(raw, &obs); err != nil {
			return nil, fmt.Errorf("decode observation at line %d: %w", line, err)
		}
		observations = append(observations, obs)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read observations: %w", err)
	}
	return observations, nil
}
