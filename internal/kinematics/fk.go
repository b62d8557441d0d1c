package kinematics

import (
	"sort"

	"github.com/volttools/urdfconv/internal/models"
)

// JointTransform returns the parent-to-child transform of joint at position value.
// Revolute and continuous joints rotate about the axis, prismatic joints slide
// along it; every other type ignores value.
func JointTransform(joint models.Joint, value float64) Transform {
	switch joint.Type {
	case "revolute", "continuous":
		return BuildTransform(joint.Origin, value, joint.Axis)
	case "prismatic":
		return OriginTransform(joint.Origin).Mul(Translation(models.Vec3{
			joint.Axis[0] * value,
			joint.Axis[1] * value,
			joint.Axis[2] * value,
		}))
	}
	return OriginTransform(joint.Origin)
}

// ComputeFK walks the joint tree from baseLink and returns the pose of every
// reachable link in the base frame. Joint values are keyed by joint name; missing
// joints sit at zero. Each link keeps the first pose it is reached with.
func ComputeFK(robot *models.Robot, jointValues map[string]float64, baseLink string) map[string]Transform {
	children := make(map[string][]string)
	for _, name := range sortedJointNames(robot) {
		parent := robot.Joints[name].Parent
		children[parent] = append(children[parent], name)
	}

	transforms := map[string]Transform{baseLink: Identity()}
	var traverse func(parent string)
	traverse = func(parent string) {
		for _, name := range children[parent] {
			joint := robot.Joints[name]
			if _, seen := transforms[joint.Child]; seen {
				continue
			}
			transforms[joint.Child] = transforms[parent].Mul(JointTransform(joint, jointValues[name]))
			traverse(joint.Child)
		}
	}
	traverse(baseLink)

	return transforms
}

// RootLinks returns the links that are never the child of a joint, sorted by name.
func RootLinks(robot *models.Robot) []string {
	candidates := make(map[string]struct{})
	for name := range robot.Links {
		candidates[name] = struct{}{}
	}
	for _, j := range robot.Joints {
		candidates[j.Parent] = struct{}{}
	}
	for _, j := range robot.Joints {
		delete(candidates, j.Child)
	}

	roots := make([]string, 0, len(candidates))
	for name := range candidates {
		roots = append(roots, name)
	}
	sort.Strings(roots)
	return roots
}

func sortedJointNames(robot *models.Robot) []string {
	names := make([]string, 0, len(robot.Joints))
	for name := range robot.Joints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
