// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import "github.com/gogpu/framegraph/driver"

// Engine is the host application's GPU context, the same role
// gogpu.App plays for gg's renderers. A FrameGraph doesn't need one —
// Execute takes a driver.Driver directly — but a host that already has
// an Engine around can use ExecuteWithEngine to skip wiring one up by
// hand each frame.
type Engine interface {
	// Driver returns the command sink this engine's device submits
	// through.
	Driver() driver.Driver
}

// ExecuteWithEngine is Execute with engine as an additional collaborator
// alongside the explicit driver, mirroring Filament's
// execute(FEngine&, DriverApi&) signature where the engine and the
// driver it submits through are independent parameters rather than one
// derived from the other. A nil drv falls back to engine.Driver().
func (fg *FrameGraph) ExecuteWithEngine(engine Engine, drv driver.Driver) error {
	if drv == nil {
		drv = engine.Driver()
	}
	return fg.Execute(drv)
}
