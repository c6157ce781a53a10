package mm

import (
	"fmt"
	"sort"
)

// AddressSpace is what the scheduling core needs from a task's memory.
type AddressSpace interface {
	// IsConflict reports whether any page in [start, end) is mapped.
	IsConflict(start, end VirtPageNum) bool
	// InsertFramedArea maps [start, end) page-rounded with fresh frames.
	InsertFramedArea(start, end VirtAddr, perm MapPermission) error
	// UnmapArea removes every page of [start, end); all must be mapped.
	UnmapArea(start, end VirtAddr) error
	// RecycleDataPages frees every data frame; the root table stays.
	RecycleDataPages()
	// Release frees whatever RecycleDataPages left behind.
	Release()
	// Token identifies the address space for trap handling.
	Token() uint64
}

// PageTableEntry maps one virtual page.
type PageTableEntry struct {
	PPN  PhysPageNum
	Perm MapPermission
}

// Segment describes one framed area requested by a program image.
type Segment struct {
	Start VirtAddr
	Pages int
	Perm  MapPermission
}

// MemorySet is a page-granular AddressSpace.
type MemorySet struct {
	frames *FrameAllocator
	root   PhysPageNum
	pages  map[VirtPageNum]PageTableEntry
	live   bool
}

var _ AddressSpace = (*MemorySet)(nil)

// NewMemorySet allocates a root frame and returns an empty address space.
func NewMemorySet(frames *FrameAllocator) (*MemorySet, error) {
	root, err := frames.Alloc()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate page table root: %w", err)
	}
	return &MemorySet{frames: frames, root: root, pages: map[VirtPageNum]PageTableEntry{}, live: true}, nil
}

// FromImage builds a user address space: every segment, a guard page, the
// user stack and the trap context page. It returns the initial user stack
// pointer.
func FromImage(frames *FrameAllocator, segments []Segment, stackPages int) (*MemorySet, uint64, error) {
	ret, err := NewMemorySet(frames)
	if err != nil {
		return nil, 0, err
	}
	var maxEnd VirtAddr
	for _, segment := range segments {
		end := segment.Start + VirtAddr(segment.Pages*PageSize)
		if err = ret.InsertFramedArea(segment.Start, end, segment.Perm|PermU); err != nil {
			ret.Release()
			return nil, 0, fmt.Errorf("failed to map segment %#x: %w", uint64(segment.Start), err)
		}
		if end > maxEnd {
			maxEnd = end
		}
	}
	if stackPages <= 0 {
		stackPages = UserStackSize / PageSize
	}
	stackBottom := maxEnd.Ceil().Addr() + PageSize
	stackTop := stackBottom + VirtAddr(stackPages*PageSize)
	if err = ret.InsertFramedArea(stackBottom, stackTop, PermR|PermW|PermU); err != nil {
		ret.Release()
		return nil, 0, fmt.Errorf("failed to map user stack: %w", err)
	}
	if err = ret.InsertFramedArea(TrapContextAddr, Trampoline, PermR|PermW); err != nil {
		ret.Release()
		return nil, 0, fmt.Errorf("failed to map trap context: %w", err)
	}
	return ret, uint64(stackTop), nil
}

func (m *MemorySet) IsConflict(start, end VirtPageNum) bool {
	if end <= start {
		return false
	}
	if uint64(end-start) > uint64(len(m.pages)) {
		for vpn := range m.pages {
			if vpn >= start && vpn < end {
				return true
			}
		}
		return false
	}
	for vpn := start; vpn < end; vpn++ {
		if _, ok := m.pages[vpn]; ok {
			return true
		}
	}
	return false
}

func (m *MemorySet) InsertFramedArea(start, end VirtAddr, perm MapPermission) error {
	if perm&(PermR|PermW|PermX) == 0 || perm&^permMask != 0 {
		return ErrInvalidPermission
	}
	if end < start {
		return fmt.Errorf("range [%#x, %#x) wraps: %w", uint64(start), uint64(end), ErrOutOfFrames)
	}
	startVPN, endVPN := start.Floor(), end.Ceil()
	if uint64(endVPN-startVPN) > uint64(m.frames.Available()) {
		return fmt.Errorf("%d pages requested: %w", uint64(endVPN-startVPN), ErrOutOfFrames)
	}
	if m.IsConflict(startVPN, endVPN) {
		return ErrAlreadyMapped
	}
	allocated := make([]VirtPageNum, 0, endVPN-startVPN)
	for vpn := startVPN; vpn < endVPN; vpn++ {
		ppn, err := m.frames.Alloc()
		if err != nil {
			for _, mapped := range allocated {
				m.frames.Dealloc(m.pages[mapped].PPN)
				delete(m.pages, mapped)
			}
			return err
		}
		m.pages[vpn] = PageTableEntry{PPN: ppn, Perm: perm}
		allocated = append(allocated, vpn)
	}
	return nil
}

func (m *MemorySet) UnmapArea(start, end VirtAddr) error {
	if end < start {
		return fmt.Errorf("range [%#x, %#x) wraps: %w", uint64(start), uint64(end), ErrNotMapped)
	}
	startVPN, endVPN := start.Floor(), end.Ceil()
	if uint64(endVPN-startVPN) > uint64(len(m.pages)) {
		return fmt.Errorf("%d pages requested, %d mapped: %w", uint64(endVPN-startVPN), len(m.pages), ErrNotMapped)
	}
	for vpn := startVPN; vpn < endVPN; vpn++ {
		if _, ok := m.pages[vpn]; !ok {
			return fmt.Errorf("page %#x: %w", uint64(vpn), ErrNotMapped)
		}
	}
	for vpn := startVPN; vpn < endVPN; vpn++ {
		m.frames.Dealloc(m.pages[vpn].PPN)
		delete(m.pages, vpn)
	}
	return nil
}

func (m *MemorySet) RecycleDataPages() {
	for vpn, pte := range m.pages {
		m.frames.Dealloc(pte.PPN)
		delete(m.pages, vpn)
	}
}

func (m *MemorySet) Release() {
	m.RecycleDataPages()
	if m.live {
		m.live = false
		m.frames.Dealloc(m.root)
	}
}

func (m *MemorySet) Token() uint64 {
	return 8<<60 | uint64(m.root)
}

// Translate returns the entry mapping vpn.
func (m *MemorySet) Translate(vpn VirtPageNum) (PageTableEntry, bool) {
	pte, ok := m.pages[vpn]
	return pte, ok
}

// MappedPages returns the mapped pages in ascending order.
func (m *MemorySet) MappedPages() []VirtPageNum {
	ret := make([]VirtPageNum, 0, len(m.pages))
	for vpn := range m.pages {
		ret = append(ret, vpn)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}
