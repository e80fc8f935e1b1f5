package pose

import (
	"fmt"
)

// Joint identifies a tracked body landmark.
type Joint int

const (
	Nose Joint = iota
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
)

var jointNames = [...]string{
	Nose:          "nose",
	LeftEar:       "left_ear",
	RightEar:      "right_ear",
	LeftShoulder:  "left_shoulder",
	RightShoulder: "right_shoulder",
	LeftElbow:     "left_elbow",
	RightElbow:    "right_elbow",
	LeftWrist:     "left_wrist",
	RightWrist:    "right_wrist",
	LeftHip:       "left_hip",
	RightHip:      "right_hip",
	LeftKnee:      "left_knee",
	RightKnee:     "right_knee",
	LeftAnkle:     "left_ankle",
	RightAnkle:    "right_ankle",
}

func (j Joint) String() string {
	if j < 0 || int(j) >= len(jointNames) {
		return fmt.Sprintf("joint(%d)", int(j))
	}
	return jointNames[j]
}

func ParseJoint(s string) (Joint, error) {
	for j, name := range jointNames {
		if name == s {
			return Joint(j), nil
		}
	}
	return 0, fmt.Errorf("unknown joint: %q", s)
}

func (j Joint) MarshalText() ([]byte, error) {
	return []byte(j.String()), nil
}

func (j *Joint) UnmarshalText(text []byte) error {
	parsed, err := ParseJoint(string(text))
	if err != nil {
		return err
	}
	*j = parsed
	return nil
}

// Limb groups the joints of one body side.
type Limb struct {
	Ear      Joint
	Shoulder Joint
	Elbow    Joint
	Wrist    Joint
	Hip      Joint
	Knee     Joint
	Ankle    Joint
}

var (
	leftLimb = Limb{
		Ear:      LeftEar,
		Shoulder: LeftShoulder,
		Elbow:    LeftElbow,
		Wrist:    LeftWrist,
		Hip:      LeftHip,
		Knee:     LeftKnee,
		Ankle:    LeftAnkle,
	}
	rightLimb = Limb{
		Ear:      RightEar,
		Shoulder: RightShoulder,
		Elbow:    RightElbow,
		Wrist:    RightWrist,
		Hip:      RightHip,
		Knee:     RightKnee,
		Ankle:    RightAnkle,
	}
)

// LimbOf returns the joints of an effective side. Both has no single limb
// and resolves to the right side, which is where alternating exercises begin.
func LimbOf(side Side) Limb {
	if side == SideLeft {
		return leftLimb
	}
	return rightLimb
}
