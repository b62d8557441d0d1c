package kinematics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volttools/urdfconv/internal/models"
)

const eps = 1e-9

func assertVec(t *testing.T, want, got models.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], eps, "component %d of %v", i, got)
	}
}

func planarArm() *models.Robot {
	robot := models.NewRobot("planar")
	robot.Joints["shoulder"] = models.Joint{
		Type:   "revolute",
		Parent: "base",
		Child:  "upper",
		Axis:   models.Vec3{0, 0, 1},
		Origin: &models.Origin{XYZ: models.Vec3{1, 0, 0}},
	}
	robot.Joints["elbow_fixed"] = models.Joint{
		Type:   "fixed",
		Parent: "upper",
		Child:  "forearm",
		Origin: &models.Origin{XYZ: models.Vec3{1, 0, 0}},
	}
	robot.Joints["slide"] = models.Joint{
		Type:   "prismatic",
		Parent: "forearm",
		Child:  "tool",
		Axis:   models.Vec3{1, 0, 0},
	}
	return robot
}

func TestRotation(t *testing.T) {
	r := Rotation(models.Vec3{0, 0, 2}, math.Pi/2)
	assertVec(t, models.Vec3{0, 1, 0}, r.Apply(models.Vec3{1, 0, 0}))

	assert.Equal(t, Identity(), Rotation(models.Vec3{}, 1))
	assert.Equal(t, Identity(), Rotation(models.Vec3{1, 0, 0}, 0))
}

func TestOriginTransform(t *testing.T) {
	assert.Equal(t, Identity(), OriginTransform(nil))

	// yaw a quarter turn, then translate
	tr := OriginTransform(&models.Origin{XYZ: models.Vec3{0, 0, 1}, RPY: models.Vec3{0, 0, math.Pi / 2}})
	assertVec(t, models.Vec3{0, 1, 1}, tr.Apply(models.Vec3{1, 0, 0}))

	// roll is applied before yaw
	tr = OriginTransform(&models.Origin{RPY: models.Vec3{math.Pi / 2, 0, math.Pi / 2}})
	assertVec(t, models.Vec3{1, 0, 0}, tr.Apply(models.Vec3{0, 0, 1}))
}

func TestBuildTransform(t *testing.T) {
	tr := BuildTransform(&models.Origin{XYZ: models.Vec3{1, 0, 0}}, math.Pi, models.Vec3{0, 0, 1})
	assertVec(t, models.Vec3{0, 0, 0}, tr.Apply(models.Vec3{1, 0, 0}))
}

func TestJointTransform_Revolute(t *testing.T) {
	joint := models.Joint{
		Type:   "continuous",
		Axis:   models.Vec3{0, 0, 1},
		Origin: &models.Origin{XYZ: models.Vec3{1, 0, 0}},
	}
	want := BuildTransform(joint.Origin, math.Pi/2, joint.Axis)
	assert.Equal(t, want, JointTransform(joint, math.Pi/2))
	assertVec(t, models.Vec3{1, 1, 0}, JointTransform(joint, math.Pi/2).Apply(models.Vec3{1, 0, 0}))
}

func TestParseJointValue(t *testing.T) {
	v, err := ParseJointValue(" 0.25 ")
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)

	for _, raw := range []string{"abc", "", "NaN", "Inf", "-inf", "+Infinity"} {
		_, err := ParseJointValue(raw)
		assert.Error(t, err, raw)
	}
}

func TestComputeFK_ZeroPose(t *testing.T) {
	poses := ComputeFK(planarArm(), nil, "base")

	require.Len(t, poses, 4)
	assertVec(t, models.Vec3{0, 0, 0}, poses["base"].Position())
	assertVec(t, models.Vec3{1, 0, 0}, poses["upper"].Position())
	assertVec(t, models.Vec3{2, 0, 0}, poses["forearm"].Position())
	assertVec(t, models.Vec3{2, 0, 0}, poses["tool"].Position())
}

func TestComputeFK_JointValues(t *testing.T) {
	poses := ComputeFK(planarArm(), map[string]float64{
		"shoulder":    math.Pi / 2,
		"slide":       0.5,
		"elbow_fixed": 3, // ignored for fixed joints
	}, "base")

	assertVec(t, models.Vec3{1, 0, 0}, poses["upper"].Position())
	assertVec(t, models.Vec3{1, 1, 0}, poses["forearm"].Position())
	assertVec(t, models.Vec3{1, 1.5, 0}, poses["tool"].Position())
}

func TestComputeFK_UnknownBaseAndCycles(t *testing.T) {
	robot := planarArm()
	robot.Joints["loop"] = models.Joint{Type: "fixed", Parent: "tool", Child: "base"}

	poses := ComputeFK(robot, nil, "base")
	assert.Len(t, poses, 4)
	assert.Equal(t, Identity(), poses["base"])

	poses = ComputeFK(robot, nil, "nowhere")
	assert.Equal(t, map[string]Transform{"nowhere": Identity()}, poses)
}

func TestRootLinks(t *testing.T) {
	robot := planarArm()
	robot.Links["base"] = models.Link{}
	robot.Links["floating"] = models.Link{}
	robot.Links["tool"] = models.Link{}

	assert.Equal(t, []string{"base", "floating"}, RootLinks(robot))
}
