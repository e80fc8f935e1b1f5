// Package posetest builds synthetic observations with known joint angles.
package posetest

import (
	"math"
	"time"

	"github.com/2beens/physiotrack/internal/pose"
)

var Epoch = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

const confident = 0.95

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func kp(x, y float64) pose.Keypoint {
	return pose.Keypoint{X: x, Y: y, Confidence: confident}
}

// KneeAngle is a seated side view with both knees bent to angle degrees.
func KneeAngle(ts time.Time, angle float64) pose.Observation {
	joints := map[pose.Joint]pose.Keypoint{}
	for _, side := range []pose.Side{pose.SideLeft, pose.SideRight} {
		limb := pose.LimbOf(side)
		knee := kp(0.5, 0.6)
		phi := rad(180 - angle)
		joints[limb.Hip] = kp(0.3, 0.6)
		joints[limb.Knee] = knee
		joints[limb.Ankle] = kp(knee.X+0.2*math.Cos(phi), knee.Y+0.2*math.Sin(phi))
	}
	return pose.NewObservation(ts, joints)
}

// ArmAbduction is a front view with both straight arms raised sideways by angle degrees.
func ArmAbduction(ts time.Time, angle float64) pose.Observation {
	joints := map[pose.Joint]pose.Keypoint{}
	for _, side := range []pose.Side{pose.SideLeft, pose.SideRight} {
		limb := pose.LimbOf(side)
		x, dir := 0.55, 1.0
		if side == pose.SideLeft {
			x, dir = 0.45, -1.0
		}
		dx, dy := dir*math.Sin(rad(angle)), math.Cos(rad(angle))
		joints[limb.Shoulder] = kp(x, 0.3)
		joints[limb.Hip] = kp(x, 0.6)
		joints[limb.Elbow] = kp(x+0.15*dx, 0.3+0.15*dy)
		joints[limb.Wrist] = kp(x+0.3*dx, 0.3+0.3*dy)
	}
	return pose.NewObservation(ts, joints)
}

// ElbowAngle is a side view with the upper arms hanging and both elbows at angle degrees.
func ElbowAngle(ts time.Time, angle float64) pose.Observation {
	joints := map[pose.Joint]pose.Keypoint{}
	for _, side := range []pose.Side{pose.SideLeft, pose.SideRight} {
		limb := pose.LimbOf(side)
		joints[limb.Shoulder] = kp(0.5, 0.3)
		joints[limb.Elbow] = kp(0.5, 0.5)
		joints[limb.Wrist] = kp(0.5+0.15*math.Sin(rad(angle)), 0.5-0.15*math.Cos(rad(angle)))
	}
	return pose.NewObservation(ts, joints)
}

// HipSpread is a standing front view where the leg of side moves out until the
// ankles are ratio hip widths apart. The other leg stays put.
func HipSpread(ts time.Time, side pose.Side, ratio float64) pose.Observation {
	const width = 0.1
	leftX, rightX := 0.45, 0.55

	leftAnkle, rightAnkle := leftX, leftX+ratio*width
	if side == pose.SideLeft {
		leftAnkle, rightAnkle = rightX-ratio*width, rightX
	}

	joints := map[pose.Joint]pose.Keypoint{
		pose.LeftHip:    kp(leftX, 0.55),
		pose.RightHip:   kp(rightX, 0.55),
		pose.LeftKnee:   kp((leftX+leftAnkle)/2, 0.7),
		pose.RightKnee:  kp((rightX+rightAnkle)/2, 0.7),
		pose.LeftAnkle:  kp(leftAnkle, 0.85),
		pose.RightAnkle: kp(rightAnkle, 0.85),
	}
	return pose.NewObservation(ts, joints)
}

// Without drops the given joints from obs.
func Without(obs pose.Observation, joints ...pose.Joint) pose.Observation {
	out := pose.NewObservation(obs.Timestamp, obs.Joints)
	for _, j := range joints {
		delete(out.Joints, j)
	}
	return out
}

// WithConfidence sets the confidence of the given joints.
func WithConfidence(obs pose.Observation, confidence float64, joints ...pose.Joint) pose.Observation {
	out := pose.NewObservation(obs.Timestamp, obs.Joints)
	for _, j := range joints {
		if k, ok := out.Joints[j]; ok {
			k.Confidence = confidence
			out.Joints[j] = k
		}
	}
	return out
}
