package sbar

// BuildReport serialises the renderer's current view (§4.J). It is called
// whenever Dirty() is true and StateEvents is enabled; the caller is
// responsible for clearing dirty state and marshaling the result to a
// newline-terminated line.
func (r *Renderer) BuildReport() StateReport {
	report := StateReport{UserData: r.UserData}
	for _, out := range r.Outputs {
		report.Outputs = append(report.Outputs, buildOutputReport(out))
	}
	for _, seat := range r.Seats {
		report.Seats = append(report.Seats, buildSeatReport(seat))
	}
	return report
}

func buildOutputReport(out *Output) ReportOutput {
	ro := ReportOutput{
		Name: out.Name, Width: out.Width, Height: out.Height,
		Scale: out.Scale, Transform: out.Transform,
	}
	ro.Bars = make([]*ReportSurface, len(out.Bars))
	for i, bar := range out.Bars {
		if bar == nil {
			continue // §6: "bars that failed reconciliation appear as null at their index"
		}
		ro.Bars[i] = buildSurfaceReport(&bar.Surface)
	}
	return ro
}

func buildSurfaceReport(s *Surface) *ReportSurface {
	rs := &ReportSurface{
		UserData: rawOrNil(s.UserData),
		Width:    s.Width,
		Height:   s.Height,
		Scale:    s.Scale,
		Blocks:   make([]ReportHotspot, len(s.BlockBoxes)),
		Popups:   make([]*ReportSurface, len(s.Popups)),
	}
	for i, box := range s.BlockBoxes {
		rs.Blocks[i] = ReportHotspot{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}
	}
	for i, p := range s.Popups {
		if p == nil {
			continue
		}
		rs.Popups[i] = buildSurfaceReport(&p.Surface)
	}
	return rs
}

func buildSeatReport(seat *Seat) ReportSeat {
	rs := ReportSeat{Name: seat.Name}
	if !seat.HasPointer {
		return rs
	}
	ptr := &ReportPointer{}
	if seat.Pointer.Focus != nil {
		ptr.Focus = &ReportFocus{
			SurfaceUserData: rawOrNil(seat.Pointer.Focus.UserData),
			X:               seat.Pointer.FocusX,
			Y:               seat.Pointer.FocusY,
		}
	}
	if seat.Pointer.LastButtonSerial != 0 {
		ptr.Button = &ReportButton{
			Code: seat.Pointer.LastButtonCode, State: seat.Pointer.LastButtonState,
			Serial: seat.Pointer.LastButtonSerial,
		}
	}
	if seat.Pointer.HasScroll {
		ptr.Scroll = &ReportScroll{Axis: seat.Pointer.ScrollAxis, VectorLength: seat.Pointer.ScrollDelta}
	}
	rs.Pointer = ptr
	return rs
}
