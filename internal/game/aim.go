package game

// LaunchVelocity maps a drag gesture to a launch velocity. The ball flies
// opposite to the pull: V = clamp(dragStart - dragEnd, maxDrag) * scale.
// Clamping happens before scaling so launch speed never exceeds maxDrag*scale.
func LaunchVelocity(dragStart, dragEnd Vec2, maxDrag, scale float64) Vec2 {
	return dragStart.Minus(dragEnd).ClampMagnitude(maxDrag).Times(scale)
}

// Velocity applies LaunchVelocity with this variant's drag limits.
func (p Params) Velocity(dragStart, dragEnd Vec2) Vec2 {
	return LaunchVelocity(dragStart, dragEnd, p.MaxDrag, p.DragScale)
}

// ClickVelocity treats a single click as a drag from the pointer back to
// ClickOrigin, so clicking further from the origin shoots harder.
func (p Params) ClickVelocity(pointer Vec2) Vec2 {
	return p.Velocity(pointer, p.ClickOrigin)
}

// AimOffset is the world-space pull-back shown while the drag is in progress.
func (p Params) AimOffset(dragStart, dragCurrent Vec2) Vec2 {
	return dragCurrent.Minus(dragStart).ClampMagnitude(p.MaxDrag).Times(p.AimPreviewScale)
}
