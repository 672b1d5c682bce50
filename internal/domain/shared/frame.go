package shared

// Frame is one discrete tick of the external simulation.
type Frame int

// IsCadence reports whether this frame falls on an every-n-frames boundary.
// A non-positive n matches every frame.
func (f Frame) IsCadence(n int) bool {
	if n <= 1 {
		return true
	}
	return int(f)%n == 0
}
