package sbar

// Repainter drives the Painting/Idle half of §4.F's state machine: it owns
// the busy-buffer arbitration of §4.B, independent of whether the surface
// is a Bar or a Popup.
type Repainter struct {
	Factory SurfaceFactory
}

// Repaint attempts to render s's current blocks and present them. If s has
// no buffer yet (or its old one didn't match the new size), a fresh
// ShmBuffer is allocated. If the existing buffer is still busy, the paint
// is deferred (§4.B, §8 invariant 2: never commit a busy buffer) and
// needsRepaint stays set so a later RepaintDirtySurfaces sweep retries it
// once the buffer has been released.
func (rp *Repainter) Repaint(s *Surface) error {
	if !s.Render || s.Width <= 0 || s.Height <= 0 {
		return nil
	}
	if s.Buffer != nil && s.Buffer.Busy() {
		s.Buffer.SetDirty()
		s.needsRepaint = true
		return nil
	}

	if s.Buffer == nil || !s.Buffer.Matches(s.Width, s.Height) {
		if s.Buffer != nil {
			s.Buffer.Close()
		}
		buf, err := NewShmBuffer(s.Width, s.Height)
		if err != nil {
			return err
		}
		s.Buffer = buf
	}

	bmp := NewBitmap(s.Width, s.Height)
	s.Paint(bmp)
	s.Buffer.Write(bmp)

	handle, err := rp.Factory.CreateBuffer(s.Buffer)
	if err != nil {
		return newErr(RendererResourceError, "create wl_buffer", err)
	}
	if s.PendingBuf != nil {
		s.PendingBuf.Destroy()
	}
	s.PendingBuf = handle

	s.WlSurface.Attach(handle, 0, 0)
	s.WlSurface.DamageBuffer(0, 0, int32(s.Width), int32(s.Height))
	s.WlSurface.SetInputRegion(s.InputRegions)
	s.WlSurface.Commit()
	s.Buffer.MarkBusy()
	s.needsRepaint = false
	s.state = StatePainting
	return nil
}

// OnBufferReleased clears busy and, if a repaint was deferred while busy,
// retries it now (§4.B, §4.F "Idle → ... returns to Painting via ...
// release-then-dirty"). Nothing calls it: the driver's wl_buffer.release
// handler only calls ShmBuffer.Release, leaving the deferred repaint to the
// next RepaintDirtySurfaces sweep.
func (rp *Repainter) OnBufferReleased(s *Surface) error {
	if s.Buffer == nil {
		return nil
	}
	s.Buffer.Release()
	s.state = StateIdle
	if s.Buffer.Dirty() || s.needsRepaint {
		s.Buffer.ClearDirty()
		return rp.Repaint(s)
	}
	return nil
}

// RepaintDirtySurfaces walks a bar (and its popup subtree) and repaints
// every surface with needsRepaint set, after a reconciliation pass.
func (rp *Repainter) RepaintDirtySurfaces(bar *Bar) {
	if bar.needsRepaint || bar.WlSurface != nil && bar.Buffer == nil {
		rp.Repaint(&bar.Surface)
	}
	rp.repaintPopups(bar.Popups)
}

func (rp *Repainter) repaintPopups(popups []*Popup) {
	for _, p := range popups {
		if p == nil {
			continue
		}
		if p.needsRepaint || p.WlSurface != nil && p.Buffer == nil {
			rp.Repaint(&p.Surface)
		}
		rp.repaintPopups(p.Popups)
	}
}
