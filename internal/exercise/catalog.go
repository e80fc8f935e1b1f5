package exercise

import (
	"fmt"
	"slices"

	"github.com/2beens/physiotrack/internal/geometry"
	"github.com/2beens/physiotrack/internal/pose"
)

const (
	KindShoulderAbduction Kind = "shoulder_abduction"
	KindElbowFlexion      Kind = "elbow_flexion"
	KindKneeExtension     Kind = "knee_extension"
	KindHipAbduction      Kind = "hip_abduction"
	KindMiniSquat         Kind = "mini_squat"
)

var (
	singleSides = []pose.Side{pose.SideLeft, pose.SideRight}
	allSides    = []pose.Side{pose.SideLeft, pose.SideRight, pose.SideBoth}
)

var catalog = map[Kind]*Definition{
	KindShoulderAbduction: shoulderAbduction().withDefaultClassifiers(),
	KindElbowFlexion:      elbowFlexion().withDefaultClassifiers(),
	KindKneeExtension:     kneeExtension().withDefaultClassifiers(),
	KindHipAbduction:      hipAbduction().withDefaultClassifiers(),
	KindMiniSquat:         miniSquat().withDefaultClassifiers(),
}

func Lookup(kind Kind) (*Definition, error) {
	def, ok := catalog[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return def, nil
}

// Catalog lists all known exercises ordered by kind.
func Catalog() []*Definition {
	defs := make([]*Definition, 0, len(catalog))
	for _, d := range catalog {
		defs = append(defs, d)
	}
	slices.SortFunc(defs, func(a, b *Definition) int {
		if a.Kind < b.Kind {
			return -1
		}
		if a.Kind > b.Kind {
			return 1
		}
		return 0
	})
	return defs
}

// angleAt measures the angle at the middle joint picked from the side's limb.
func angleAt(a, vertex, c func(pose.Limb) pose.Joint) Measure {
	return func(points pose.Points, side pose.Side) (float64, bool) {
		limb := pose.LimbOf(side)
		pa, pb, pc := points[a(limb)], points[vertex(limb)], points[c(limb)]
		if geometry.Degenerate(pa, pb, pc) {
			return 0, false
		}
		return geometry.Angle(pa, pb, pc), true
	}
}

func limbJoints(pick ...func(pose.Limb) pose.Joint) func(pose.Side) []pose.Joint {
	return func(side pose.Side) []pose.Joint {
		limb := pose.LimbOf(side)
		joints := make([]pose.Joint, 0, len(pick))
		for _, p := range pick {
			joints = append(joints, p(limb))
		}
		return joints
	}
}

func ear(l pose.Limb) pose.Joint      { return l.Ear }
func shoulder(l pose.Limb) pose.Joint { return l.Shoulder }
func elbow(l pose.Limb) pose.Joint    { return l.Elbow }
func wrist(l pose.Limb) pose.Joint    { return l.Wrist }
func hip(l pose.Limb) pose.Joint      { return l.Hip }
func knee(l pose.Limb) pose.Joint     { return l.Knee }
func ankle(l pose.Limb) pose.Joint    { return l.Ankle }

// ordered checks points of the side's limb for ascending order along axis.
func ordered(axis geometry.Axis, pick ...func(pose.Limb) pose.Joint) Posture {
	return func(points pose.Points, side pose.Side) bool {
		limb := pose.LimbOf(side)
		ps := make([]geometry.Point, 0, len(pick))
		for _, p := range pick {
			ps = append(ps, points[p(limb)])
		}
		return geometry.IsAscending(axis, ps...)
	}
}

// outward checks that the picked joints extend away from the body horizontally.
// Capture is mirrored, the user's right side appears on the right of the frame.
func outward(pick ...func(pose.Limb) pose.Joint) Posture {
	reversed := slices.Clone(pick)
	slices.Reverse(reversed)
	rightward := ordered(geometry.AxisHorizontal, pick...)
	leftward := ordered(geometry.AxisHorizontal, reversed...)
	return func(points pose.Points, side pose.Side) bool {
		if side == pose.SideLeft {
			return leftward(points, side)
		}
		return rightward(points, side)
	}
}

func shoulderAbduction() *Definition {
	straightArm := angleAt(shoulder, elbow, wrist)
	armOut := outward(shoulder, elbow, wrist)
	return &Definition{
		Kind:        KindShoulderAbduction,
		Name:        "Shoulder abduction",
		Description: "Standing, raise the straight arm sideways to shoulder height and hold.",
		Sides:       allSides,
		Direction:   Increasing,
		Thresholds: Thresholds{
			Start:      Range{Min: 0, Max: 35},
			Target:     Range{Min: 80, Max: 110},
			MinDelta:   10,
			HoldFrames: 15,
			Leeway:     Leeway{Band: 4, Widened: 7, WidenAfter: 0.6, Regression: 12},
		},
		Joints:  limbJoints(hip, shoulder, elbow, wrist),
		Measure: angleAt(hip, shoulder, elbow),
		StartPosture: func(points pose.Points, side pose.Side) bool {
			v, ok := straightArm(points, side)
			return ok && v >= 140
		},
		HoldPosture: armOut,
	}
}

func elbowFlexion() *Definition {
	return &Definition{
		Kind:        KindElbowFlexion,
		Name:        "Elbow flexion",
		Description: "With the upper arm against the body, bend the elbow and hold at the top.",
		Sides:       allSides,
		Direction:   Decreasing,
		Thresholds: Thresholds{
			Start:      Range{Min: 140, Max: 180},
			Target:     Range{Min: 0, Max: 60},
			MinDelta:   10,
			HoldFrames: 10,
			Leeway:     Leeway{Band: 5, Widened: 8, WidenAfter: 0.5, Regression: 15},
		},
		Joints:       limbJoints(shoulder, elbow, wrist),
		Measure:      angleAt(shoulder, elbow, wrist),
		StartPosture: ordered(geometry.AxisVertical, shoulder, elbow, wrist),
		HoldPosture:  ordered(geometry.AxisVertical, shoulder, elbow),
	}
}

func kneeExtension() *Definition {
	return &Definition{
		Kind:        KindKneeExtension,
		Name:        "Seated knee extension",
		Description: "Seated, straighten the knee until the leg is level and hold.",
		Sides:       allSides,
		Direction:   Increasing,
		Thresholds: Thresholds{
			Start:      Range{Min: 70, Max: 115},
			Target:     Range{Min: 150, Max: 180},
			MinDelta:   10,
			HoldFrames: 15,
			Leeway:     Leeway{Band: 4, Widened: 7, WidenAfter: 0.6, Regression: 12},
		},
		Joints:       limbJoints(hip, knee, ankle),
		Measure:      angleAt(hip, knee, ankle),
		StartPosture: ordered(geometry.AxisVertical, knee, ankle),
	}
}

// hipAbduction tracks how far the ankles spread relative to hip width,
// which keeps the measure independent of distance to the camera.
func hipAbduction() *Definition {
	return &Definition{
		Kind:        KindHipAbduction,
		Name:        "Standing hip abduction",
		Description: "Standing tall, move the straight leg out to the side and hold.",
		Sides:       allSides,
		Direction:   Increasing,
		Thresholds: Thresholds{
			Start:      Range{Min: 0, Max: 1.6},
			Target:     Range{Min: 2.2, Max: 6},
			MinDelta:   0.25,
			HoldFrames: 12,
			Leeway:     Leeway{Band: 0.1, Widened: 0.18, WidenAfter: 0.5, Regression: 0.35},
		},
		Joints: func(side pose.Side) []pose.Joint {
			return []pose.Joint{pose.LeftHip, pose.RightHip, pose.LeftAnkle, pose.RightAnkle, pose.LimbOf(side).Knee}
		},
		Measure: func(points pose.Points, _ pose.Side) (float64, bool) {
			spread := geometry.HorizontalDistance(points[pose.LeftAnkle], points[pose.RightAnkle])
			width := geometry.HorizontalDistance(points[pose.LeftHip], points[pose.RightHip])
			return geometry.Ratio(spread, width)
		},
		StartPosture: ordered(geometry.AxisVertical, hip, knee, ankle),
	}
}

func miniSquat() *Definition {
	return &Definition{
		Kind:        KindMiniSquat,
		Name:        "Mini squat",
		Description: "Side on to the camera, bend both knees a little with the back upright and hold.",
		Sides:       singleSides,
		Direction:   Decreasing,
		Thresholds: Thresholds{
			Start:      Range{Min: 160, Max: 180},
			Target:     Range{Min: 100, Max: 140},
			MinDelta:   8,
			HoldFrames: 10,
			Leeway:     Leeway{Band: 5, Widened: 8, WidenAfter: 0.5, Regression: 15},
		},
		Joints:       limbJoints(ear, shoulder, hip, knee, ankle),
		Measure:      angleAt(hip, knee, ankle),
		StartPosture: ordered(geometry.AxisVertical, ear, shoulder, hip, knee, ankle),
		HoldPosture:  ordered(geometry.AxisVertical, shoulder, hip, knee),
	}
}
