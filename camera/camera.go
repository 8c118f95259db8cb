// Package camera provides a scrolling viewport onto a grid for terminal
// rendering.
package camera

import "github.com/pthm-cable/hive/components"

// Camera maps grid cells to screen cells. The viewport may be smaller than
// the grid, in which case it scrolls but never shows space past the edges.
type Camera struct {
	// X, Y is the display cell shown at the viewport's top-left corner.
	X, Y int

	// Viewport dimensions (screen cells)
	ViewportW, ViewportH int

	// Grid dimensions (cols, rows)
	WorldW, WorldH int

	// FlipRows draws grid row 0 at the bottom.
	FlipRows bool
}

// New creates a camera centered on the grid.
func New(viewportW, viewportH, worldW, worldH int, flipRows bool) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		FlipRows:  flipRows,
	}
	c.Reset()
	return c
}

// display converts a grid cell to unscrolled display coordinates.
func (c *Camera) display(cell components.Cell) (dx, dy int) {
	dy = cell.Row
	if c.FlipRows {
		dy = c.WorldH - 1 - cell.Row
	}
	return cell.Col, dy
}

// WorldToScreen converts a grid cell to viewport coordinates and reports
// whether it is visible.
func (c *Camera) WorldToScreen(cell components.Cell) (sx, sy int, visible bool) {
	dx, dy := c.display(cell)
	sx, sy = dx-c.X, dy-c.Y
	visible = sx >= 0 && sx < c.ViewportW && sy >= 0 && sy < c.ViewportH
	return sx, sy, visible
}

// ScreenToWorld converts viewport coordinates back to a grid cell and
// reports whether the cell lies inside the grid.
func (c *Camera) ScreenToWorld(sx, sy int) (components.Cell, bool) {
	col := sx + c.X
	dy := sy + c.Y
	row := dy
	if c.FlipRows {
		row = c.WorldH - 1 - dy
	}
	cell := components.Cell{Row: row, Col: col}
	return cell, col >= 0 && col < c.WorldW && row >= 0 && row < c.WorldH
}

// Resize updates the viewport and keeps the view inside the grid.
func (c *Camera) Resize(viewportW, viewportH int) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.clampView()
}

// Pan scrolls the view by (dx, dy) screen cells.
func (c *Camera) Pan(dx, dy int) {
	c.X += dx
	c.Y += dy
	c.clampView()
}

// Follow scrolls just enough to keep cell at least margin cells away from
// the viewport edge, where the grid allows it.
func (c *Camera) Follow(cell components.Cell, margin int) {
	mx := min(margin, (c.ViewportW-1)/2)
	my := min(margin, (c.ViewportH-1)/2)
	dx, dy := c.display(cell)

	if dx < c.X+mx {
		c.X = dx - mx
	} else if dx > c.X+c.ViewportW-1-mx {
		c.X = dx - (c.ViewportW - 1 - mx)
	}
	if dy < c.Y+my {
		c.Y = dy - my
	} else if dy > c.Y+c.ViewportH-1-my {
		c.Y = dy - (c.ViewportH - 1 - my)
	}
	c.clampView()
}

// Reset centers the view on the grid.
func (c *Camera) Reset() {
	c.X = (c.WorldW - c.ViewportW) / 2
	c.Y = (c.WorldH - c.ViewportH) / 2
	c.clampView()
}

// clampView keeps the view inside the grid. A viewport larger than the
// grid pins the grid to the top-left corner.
func (c *Camera) clampView() {
	c.X = clamp(c.X, 0, max(0, c.WorldW-c.ViewportW))
	c.Y = clamp(c.Y, 0, max(0, c.WorldH-c.ViewportH))
}

// clamp restricts a value to a range.
func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
