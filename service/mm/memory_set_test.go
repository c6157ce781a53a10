package mm

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtAddr(t *testing.T) {
	type testCase struct {
		name    string
		addr    VirtAddr
		floor   VirtPageNum
		ceil    VirtPageNum
		aligned bool
	}
	tests := []testCase{
		{name: "zero", addr: 0, floor: 0, ceil: 0, aligned: true},
		{name: "misaligned start", addr: 5, floor: 0, ceil: 1, aligned: false},
		{name: "page boundary", addr: PageSize, floor: 1, ceil: 1, aligned: true},
		{name: "inside second page", addr: PageSize + 1, floor: 1, ceil: 2, aligned: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.floor, tc.addr.Floor())
			assert.Equal(t, tc.ceil, tc.addr.Ceil())
			assert.Equal(t, tc.aligned, tc.addr.Aligned())
		})
	}
}

func TestPermissionFromPort(t *testing.T) {
	type testCase struct {
		port   uint64
		expect MapPermission
		ok     bool
	}
	tests := []testCase{
		{port: 0b000, ok: false},
		{port: 0b1000, ok: false},
		{port: 0b1001, ok: false},
		{port: 0b001, expect: PermR | PermU, ok: true},
		{port: 0b011, expect: PermR | PermW | PermU, ok: true},
		{port: 0b111, expect: PermR | PermW | PermX | PermU, ok: true},
	}
	for _, tc := range tests {
		perm, ok := PermissionFromPort(tc.port)
		assert.Equal(t, tc.ok, ok, "port %b", tc.port)
		assert.Equal(t, tc.expect, perm, "port %b", tc.port)
	}
}

func TestParsePermission(t *testing.T) {
	perm, err := ParsePermission("RX")
	assert.NoError(t, err)
	assert.Equal(t, PermR|PermX, perm)
	assert.Equal(t, "r-x-", perm.String())

	_, err = ParsePermission("rz")
	assert.Error(t, err)
}

func TestMemorySet_InsertAndUnmap(t *testing.T) {
	frames := NewFrameAllocator(0x80400, 16)
	ms, err := NewMemorySet(frames)
	require.NoError(t, err)
	assert.Equal(t, 15, frames.Available())

	assert.NoError(t, ms.InsertFramedArea(0x10000, 0x10000+2*PageSize, PermR|PermW|PermU))
	assert.True(t, ms.IsConflict(VirtAddr(0x10000).Floor(), VirtAddr(0x10000+PageSize).Floor()+1))
	assert.False(t, ms.IsConflict(VirtAddr(0x12000).Floor(), VirtAddr(0x13000).Floor()))
	assert.Equal(t, 13, frames.Available())

	err = ms.InsertFramedArea(0x11000, 0x13000, PermR|PermU)
	assert.True(t, errors.Is(err, ErrAlreadyMapped))
	assert.Equal(t, 13, frames.Available())

	// partially unmapped range is rejected as a whole
	err = ms.UnmapArea(0x11000, 0x13000)
	assert.True(t, errors.Is(err, ErrNotMapped))
	assert.Len(t, ms.MappedPages(), 2)

	assert.NoError(t, ms.UnmapArea(0x11000, 0x12000))
	assert.Equal(t, []VirtPageNum{0x10}, ms.MappedPages())
	assert.Equal(t, 14, frames.Available())
}

func TestMemorySet_OutOfFramesIsAtomic(t *testing.T) {
	frames := NewFrameAllocator(0, 3)
	ms, err := NewMemorySet(frames)
	require.NoError(t, err)

	err = ms.InsertFramedArea(0, 3*PageSize, PermR|PermU)
	assert.True(t, errors.Is(err, ErrOutOfFrames))
	assert.Empty(t, ms.MappedPages())
	assert.Equal(t, 2, frames.Available())
}

func TestMemorySet_InvalidPermission(t *testing.T) {
	ms, err := NewMemorySet(NewFrameAllocator(0, 4))
	require.NoError(t, err)
	assert.True(t, errors.Is(ms.InsertFramedArea(0, PageSize, PermU), ErrInvalidPermission))
}

func TestFromImage(t *testing.T) {
	frames := NewFrameAllocator(0x80400, 64)
	ms, sp, err := FromImage(frames, []Segment{
		{Start: 0x10000, Pages: 2, Perm: PermR | PermX},
		{Start: 0x12000, Pages: 1, Perm: PermR | PermW},
	}, 2)
	require.NoError(t, err)
	// segments end at 0x13000, guard page, two stack pages
	assert.EqualValues(t, 0x16000, sp)
	pte, ok := ms.Translate(VirtAddr(0x10000).Floor())
	assert.True(t, ok)
	assert.Equal(t, PermR|PermX|PermU, pte.Perm)
	_, ok = ms.Translate(VirtAddr(0x13000).Floor())
	assert.False(t, ok, "guard page must stay unmapped")
	_, ok = ms.Translate(VirtAddr(TrapContextAddr).Floor())
	assert.True(t, ok)
	assert.Equal(t, uint64(8<<60|0x80400), ms.Token())

	ms.RecycleDataPages()
	assert.Empty(t, ms.MappedPages())
	assert.Equal(t, 63, frames.Available())
	ms.Release()
	ms.Release()
	assert.Equal(t, 64, frames.Available())
}

func TestFrameAllocator_DoubleFreePanics(t *testing.T) {
	frames := NewFrameAllocator(0, 1)
	ppn, err := frames.Alloc()
	require.NoError(t, err)
	frames.Dealloc(ppn)
	assert.Panics(t, func() { frames.Dealloc(ppn) })
}

func TestMemorySet_HugeRanges(t *testing.T) {
	frames := NewFrameAllocator(0, 8)
	ms, err := NewMemorySet(frames)
	require.NoError(t, err)
	require.NoError(t, ms.InsertFramedArea(0x40000000, 0x40000000+PageSize, PermR|PermU))

	start := VirtAddr(0x40000000)
	huge := VirtAddr(math.MaxUint64 &^ (PageSize - 1))
	assert.True(t, ms.IsConflict(start.Floor(), huge.Floor()))
	assert.False(t, ms.IsConflict(VirtAddr(0x40001000).Floor(), huge.Floor()))

	err = ms.InsertFramedArea(0x40001000, huge, PermR|PermU)
	assert.True(t, errors.Is(err, ErrOutOfFrames))
	assert.Equal(t, 6, frames.Available())

	err = ms.InsertFramedArea(0x40001000, 0x1000, PermR|PermU)
	assert.True(t, errors.Is(err, ErrOutOfFrames))

	err = ms.UnmapArea(start, huge)
	assert.True(t, errors.Is(err, ErrNotMapped))
	err = ms.UnmapArea(start, 0x1000)
	assert.True(t, errors.Is(err, ErrNotMapped))
	assert.Len(t, ms.MappedPages(), 1)
}
