// Package kinematics computes link poses from a converted robot description.
package kinematics

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/volttools/urdfconv/internal/models"
)

// Transform is a row-major homogeneous 4x4 matrix.
type Transform [4][4]float64

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translation returns a pure translation.
func Translation(v models.Vec3) Transform {
	t := Identity()
	t[0][3], t[1][3], t[2][3] = v[0], v[1], v[2]
	return t
}

// Rotation returns a rotation of angle radians about axis. A zero axis yields identity.
func Rotation(axis models.Vec3, angle float64) Transform {
	n := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	if n == 0 || angle == 0 {
		return Identity()
	}
	x, y, z := axis[0]/n, axis[1]/n, axis[2]/n
	c, s := math.Cos(angle), math.Sin(angle)
	k := 1 - c

	return Transform{
		{c + x*x*k, x*y*k - z*s, x*z*k + y*s, 0},
		{y*x*k + z*s, c + y*y*k, y*z*k - x*s, 0},
		{z*x*k - y*s, z*y*k + x*s, c + z*z*k, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns t·o.
func (t Transform) Mul(o Transform) Transform {
	var r Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				r[i][j] += t[i][k] * o[k][j]
			}
		}
	}
	return r
}

// Apply transforms a point.
func (t Transform) Apply(p models.Vec3) models.Vec3 {
	var out models.Vec3
	for i := 0; i < 3; i++ {
		out[i] = t[i][0]*p[0] + t[i][1]*p[1] + t[i][2]*p[2] + t[i][3]
	}
	return out
}

// Position returns the translation component, the image of the frame origin.
func (t Transform) Position() models.Vec3 {
	return t.Apply(models.Vec3{})
}

// OriginTransform converts an origin into T(xyz)·Rz(yaw)·Ry(pitch)·Rx(roll).
// A nil origin is the identity.
func OriginTransform(origin *models.Origin) Transform {
	if origin == nil {
		return Identity()
	}
	rot := Rotation(models.Vec3{0, 0, 1}, origin.RPY[2]).
		Mul(Rotation(models.Vec3{0, 1, 0}, origin.RPY[1])).
		Mul(Rotation(models.Vec3{1, 0, 0}, origin.RPY[0]))
	return Translation(origin.XYZ).Mul(rot)
}

// BuildTransform returns the parent-to-child transform of a rotational joint
// displaced by angle radians about axis.
func BuildTransform(origin *models.Origin, angle float64, axis models.Vec3) Transform {
	return OriginTransform(origin).Mul(Rotation(axis, angle))
}

// ParseJointValue parses a joint position. NaN and infinities are rejected.
func ParseJointValue(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite joint value %q", raw)
	}
	return v, nil
}
