package gallery

// hoverSuppressed reports whether picking is paused.
func (e *Engine) hoverSuppressed() bool {
	return e.gesture.Dragging || e.wheelTimer != 0 || e.modalOpen
}

// resolveHover runs on the throttle's cadence. The suppression check is
// repeated here because state may change while a trailing call is pending.
func (e *Engine) resolveHover(p Vec2) {
	if !e.active() || e.hoverSuppressed() {
		return
	}
	idx := e.pick(p)
	if idx < 0 {
		e.clearHover()
		e.setCursor(CursorGrab)
		return
	}
	e.setHover(idx)
	e.setCursor(CursorPointer)
}

func (e *Engine) pick(p Vec2) int {
	ray := e.camera.Ray(e.camera.ScreenToNDC(p))
	return e.picker.Pick(ray, e.cells, e.motion.Offset)
}

func (e *Engine) hoveredItem() int {
	if e.hovered < 0 || e.hovered >= len(e.cells) {
		return -1
	}
	return e.cells[e.hovered].ItemIndex
}

func (e *Engine) setHover(idx int) {
	prev := e.hoveredItem()
	for i := range e.cells {
		if i == idx {
			e.cells[i].highlight(&e.cfg)
		} else {
			e.cells[i].resetTarget()
		}
	}
	e.hovered = idx
	e.hoverRect = e.camera.CellBounds(e.cells[idx], e.motion.Offset)

	if item := e.cells[idx].ItemIndex; item != prev && e.onHover != nil {
		e.onHover(item, true)
	}
}

func (e *Engine) clearHover() {
	prev := e.hoveredItem()
	for i := range e.cells {
		e.cells[i].resetTarget()
	}
	e.hovered = -1
	e.hoverRect = Rect{}
	if prev >= 0 && e.onHover != nil {
		e.onHover(-1, false)
	}
}

// refreshHoverBounds follows the hovered cell while the grid drifts.
func (e *Engine) refreshHoverBounds() {
	if e.hovered < 0 || e.gesture.Dragging || e.wheelTimer != 0 {
		return
	}
	e.hoverRect = e.camera.CellBounds(e.cells[e.hovered], e.motion.Offset)
}
