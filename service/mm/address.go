package mm

import (
	"fmt"
	"math"
	"strings"
)

const (
	PageSizeBits = 12
	PageSize     = 1 << PageSizeBits

	// Trampoline is the highest virtual page, shared by every address space.
	Trampoline = math.MaxUint64 - PageSize + 1
	// TrapContextAddr is the page right below the trampoline.
	TrapContextAddr = Trampoline - PageSize

	KernelStackSize = PageSize * 2
	UserStackSize   = PageSize * 2
)

// VirtAddr is a user virtual address.
type VirtAddr uint64

// VirtPageNum is a virtual page number.
type VirtPageNum uint64

// PhysPageNum is a physical frame number.
type PhysPageNum uint64

// Floor returns the page containing a.
func (a VirtAddr) Floor() VirtPageNum {
	return VirtPageNum(a / PageSize)
}

// Ceil returns the first page at or above a.
func (a VirtAddr) Ceil() VirtPageNum {
	if a == 0 {
		return 0
	}
	return VirtPageNum((uint64(a)-1)/PageSize + 1)
}

// Aligned reports whether a sits on a page boundary.
func (a VirtAddr) Aligned() bool {
	return a&(PageSize-1) == 0
}

// Addr returns the first address of the page.
func (v VirtPageNum) Addr() VirtAddr {
	return VirtAddr(uint64(v) << PageSizeBits)
}

// MapPermission holds page table permission bits.
type MapPermission uint8

const (
	PermR MapPermission = 1 << 1
	PermW MapPermission = 1 << 2
	PermX MapPermission = 1 << 3
	PermU MapPermission = 1 << 4

	permMask = PermR | PermW | PermX | PermU
)

// PermissionFromPort converts mmap protection bits (bit0 R, bit1 W, bit2 X)
// into a user permission set. ok is false when port sets bits outside the
// low three or sets none of them.
func PermissionFromPort(port uint64) (perm MapPermission, ok bool) {
	if port&^0b111 != 0 || port&0b111 == 0 {
		return 0, false
	}
	return MapPermission(port<<1) | PermU, true
}

// ParsePermission parses a permission string such as "rx" or "rwu".
func ParsePermission(text string) (MapPermission, error) {
	var ret MapPermission
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch r {
		case 'r':
			ret |= PermR
		case 'w':
			ret |= PermW
		case 'x':
			ret |= PermX
		case 'u':
			ret |= PermU
		default:
			return 0, fmt.Errorf("invalid permission %q: unexpected %q", text, r)
		}
	}
	return ret, nil
}

// String renders the permission as "rwxu" with '-' for cleared bits.
func (p MapPermission) String() string {
	flags := []struct {
		bit  MapPermission
		char byte
	}{{PermR, 'r'}, {PermW, 'w'}, {PermX, 'x'}, {PermU, 'u'}}
	ret := make([]byte, 0, len(flags))
	for _, f := range flags {
		if p&f.bit != 0 {
			ret = append(ret, f.char)
		} else {
			ret = append(ret, '-')
		}
	}
	return string(ret)
}
