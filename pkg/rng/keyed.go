package rng

import (
	"hash/fnv"
	"math"
)

// Hash mixes a seed, a pixel coordinate and a salt into 64 well-distributed
// bits using the splitmix64 finalizer.
func Hash(seed uint64, x, y int, salt uint64) uint64 {
	h := seed ^ 0x243f6a8885a308d3
	h = mix(h + uint64(uint32(int32(x))))
	h = mix(h + uint64(uint32(int32(y)))<<1)
	h = mix(h ^ salt)
	return h
}

func mix(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Unit returns a keyed value in [0, 1).
func Unit(seed uint64, x, y int, salt uint64) float64 {
	return float64(Hash(seed, x, y, salt)>>11) / (1 << 53)
}

// Signed returns a keyed, zero-mean value in [-1, 1).
func Signed(seed uint64, x, y int, salt uint64) float64 {
	return Unit(seed, x, y, salt)*2 - 1
}

// Noise returns smooth value noise in [-1, 1) sampled on a lattice of the
// given cell size and bilinearly interpolated. A cell size below 2 degrades
// to per-pixel [Signed] noise.
func Noise(seed uint64, x, y int, salt uint64, cell int) float64 {
	if cell < 2 {
		return Signed(seed, x, y, salt)
	}
	fx := float64(x) / float64(cell)
	fy := float64(y) / float64(cell)
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := smooth(fx - float64(x0))
	ty := smooth(fy - float64(y0))

	v00 := Signed(seed, x0, y0, salt)
	v10 := Signed(seed, x0+1, y0, salt)
	v01 := Signed(seed, x0, y0+1, salt)
	v11 := Signed(seed, x0+1, y0+1, salt)

	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return top + (bottom-top)*ty
}

func smooth(t float64) float64 {
	return t * t * (3 - 2*t)
}

// Salt derives a stable salt from a string such as a region id.
func Salt(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
