// Normal-space decomposition, spec.md §3 "Normal encoding".
//
// Both the encoder and decoder derive the same smooth normal predictor from
// already-decoded (quantized) positions, so only the small residual
// rotation from predictor to true normal needs to cross the wire.
package mg2

import (
	"math"

	"github.com/wangfeilong321/openctm/mesh"
)

// predictNormals computes, for every vertex, the area-weighted average of
// the face normals of its incident triangles. The cross product of two
// triangle edges already scales with twice the triangle's area, so a plain
// sum of face cross-products (normalized at the end) is the area-weighted
// average direction.
func predictNormals(positions []mesh.Vec3, tris []mesh.Triangle) []mesh.Vec3 {
	acc := make([]mesh.Vec3, len(positions))
	for _, t := range tris {
		p0, p1, p2 := positions[t.A], positions[t.B], positions[t.C]
		faceNormal := p1.Sub(p0).Cross(p2.Sub(p0))
		acc[t.A] = acc[t.A].Add(faceNormal)
		acc[t.B] = acc[t.B].Add(faceNormal)
		acc[t.C] = acc[t.C].Add(faceNormal)
	}

	out := make([]mesh.Vec3, len(positions))
	for i, n := range acc {
		if n.Length() == 0 {
			out[i] = mesh.Vec3{X: 0, Y: 0, Z: 1}
			continue
		}
		out[i] = n.Normalized()
	}

	return out
}

// localFrame builds the orthonormal (tangent, bitangent, predictor) frame
// used to express a normal's residual relative to its predictor: predictor
// is the frame's Z axis, and the tangent is deterministically derived by
// crossing with the world axis of the predictor's smallest component.
func localFrame(predictor mesh.Vec3) (tangent, bitangent, z mesh.Vec3) {
	z = predictor

	var worldAxis mesh.Vec3
	ax, ay, az := math.Abs(float64(z.X)), math.Abs(float64(z.Y)), math.Abs(float64(z.Z))
	switch {
	case ax <= ay && ax <= az:
		worldAxis = mesh.Vec3{X: 1}
	case ay <= ax && ay <= az:
		worldAxis = mesh.Vec3{Y: 1}
	default:
		worldAxis = mesh.Vec3{Z: 1}
	}

	tangent = worldAxis.Cross(z)
	if tangent.Length() == 0 {
		tangent = mesh.Vec3{X: 1}
	} else {
		tangent = tangent.Normalized()
	}
	bitangent = z.Cross(tangent)

	return tangent, bitangent, z
}

// sphericalResidual expresses n's direction in the local frame built from
// predictor as (magnitude, phi, theta): magnitude is n's length (nominally
// 1 for a unit normal), theta is the polar angle from the frame's Z axis,
// and phi is the azimuth in the tangent/bitangent plane.
func sphericalResidual(n, predictor mesh.Vec3) (magnitude, phi, theta float32) {
	t, b, z := localFrame(predictor)

	nt := n.Dot(t)
	nb := n.Dot(b)
	nz := n.Dot(z)

	magnitude = float32(math.Sqrt(float64(nt*nt + nb*nb + nz*nz)))
	if magnitude == 0 {
		return 0, 0, 0
	}

	theta = float32(math.Acos(clamp(float64(nz/magnitude), -1, 1)))
	phi = float32(math.Atan2(float64(nb), float64(nt)))

	return magnitude, phi, theta
}

// reconstructNormal reverses sphericalResidual.
func reconstructNormal(magnitude, phi, theta float32, predictor mesh.Vec3) mesh.Vec3 {
	t, b, z := localFrame(predictor)

	sinTheta := float32(math.Sin(float64(theta)))
	cosTheta := float32(math.Cos(float64(theta)))
	nt := magnitude * sinTheta * float32(math.Cos(float64(phi)))
	nb := magnitude * sinTheta * float32(math.Sin(float64(phi)))
	nz := magnitude * cosTheta

	n := t.Scale(nt).Add(b.Scale(nb)).Add(z.Scale(nz))
	if n.Length() == 0 {
		return z
	}

	// t, b, z form an orthonormal frame, so n's length already equals
	// magnitude; returning it unnormalized lets magnitude correct for any
	// predictor/true-normal length mismatch instead of discarding it.
	return n
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
