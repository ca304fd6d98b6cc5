package sbar

import (
	"fmt"
	"os"

	"github.com/daaku/swizzle"
	"golang.org/x/sys/unix"
)

// ShmBuffer wraps one anonymous shared-memory backed wl_buffer-sized
// region (§4.B): an mmap'd byte slice holding wl_shm ARGB8888 pixels, plus
// the busy bookkeeping the renderer arbitrates repaints against. Creation
// allocates an XDG_RUNTIME_DIR tempfile, truncates it to size, then unlinks
// it immediately so the fd is the only reference.
type ShmBuffer struct {
	Width, Height, Stride int
	file                  *os.File
	mem                    []byte
	busy                   bool
	dirty                  bool
}

// NewShmBuffer allocates a buffer sized for width x height, ARGB32
// (4 bytes/pixel). A failure here is §4.B's BufferAllocFailed, a
// FatalEnvironmentError per §7.
func NewShmBuffer(width, height int) (*ShmBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, newErr(FatalEnvironmentError, "new shm buffer", fmt.Errorf("invalid size %dx%d", width, height))
	}
	stride := width * 4
	size := int64(stride * height)

	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return nil, newErr(FatalEnvironmentError, "new shm buffer", fmt.Errorf("XDG_RUNTIME_DIR is not set"))
	}
	f, err := os.CreateTemp(dir, "sbar-shm-*")
	if err != nil {
		return nil, newErr(FatalEnvironmentError, "new shm buffer", err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, newErr(FatalEnvironmentError, "new shm buffer", err)
	}
	if err := os.Remove(f.Name()); err != nil {
		f.Close()
		return nil, newErr(FatalEnvironmentError, "new shm buffer", err)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, newErr(FatalEnvironmentError, "new shm buffer", err)
	}

	return &ShmBuffer{Width: width, Height: height, Stride: stride, file: f, mem: mem}, nil
}

// Fd is the backing file descriptor, passed to wl_shm.create_pool.
func (b *ShmBuffer) Fd() int { return int(b.file.Fd()) }

// Size is the mmap'd region length in bytes.
func (b *ShmBuffer) Size() int { return b.Stride * b.Height }

// Write copies bmp's premultiplied pixels into the shm region, converting
// to wl_shm's ARGB8888 wire byte order (little-endian BGRA) with
// github.com/daaku/swizzle's channel-swap helper.
func (b *ShmBuffer) Write(bmp *Bitmap) {
	for y := 0; y < bmp.Height && y < b.Height; y++ {
		row := b.mem[y*b.Stride : y*b.Stride+min(b.Stride, bmp.Width*4)]
		for x := 0; x*4 < len(row); x++ {
			p := bmp.Pix[bmp.at(x, y)]
			row[x*4+0] = p.R
			row[x*4+1] = p.G
			row[x*4+2] = p.B
			row[x*4+3] = p.A
		}
		// wl_shm ARGB8888 is little-endian B,G,R,A in memory; swap the R/B
		// channels we wrote in natural order into wire order.
		swizzle.BGRA(row)
	}
}

// Busy reports whether the compositor still holds this buffer (between
// attach+commit and release). §8 invariant 2: no surface is committed with
// a buffer whose busy=true.
func (b *ShmBuffer) Busy() bool { return b.busy }

// MarkBusy is called at attach+commit.
func (b *ShmBuffer) MarkBusy() { b.busy = true }

// Release is called from the compositor's wl_buffer.release event.
func (b *ShmBuffer) Release() { b.busy = false }

// SetDirty/Dirty/ClearDirty track whether a repaint was deferred because
// the buffer was busy at paint time (§4.B).
func (b *ShmBuffer) SetDirty()   { b.dirty = true }
func (b *ShmBuffer) Dirty() bool { return b.dirty }
func (b *ShmBuffer) ClearDirty() { b.dirty = false }

// Close unmaps and closes the backing file. Safe to call once per buffer,
// on resize (old buffer dropped) or surface teardown.
func (b *ShmBuffer) Close() error {
	if b.mem != nil {
		unix.Munmap(b.mem)
		b.mem = nil
	}
	return b.file.Close()
}

// Matches reports whether this buffer's dimensions already satisfy a
// requested width/height, so the reconciler/bar state machine can skip
// reallocation (§4.B: "Each surface owns at most one buffer matching its
// current width×height×scale").
func (b *ShmBuffer) Matches(width, height int) bool {
	return b.Width == width && b.Height == height
}
