package loader

import (
	"fmt"

	"github.com/viant/kproc/service/mm"
	"github.com/viant/kproc/user"
)

// Segment is one mapped region of an image.
type Segment struct {
	Start uint64 `yaml:"start" json:"start"`
	Pages int    `yaml:"pages" json:"pages"`
	Perm  string `yaml:"perm" json:"perm"`
}

// Image is a loaded program.
type Image struct {
	Name     string     `yaml:"name" json:"name"`
	Entry    string     `yaml:"entry" json:"entry"`
	Priority uint64     `yaml:"priority,omitempty" json:"priority,omitempty"`
	Segments []*Segment `yaml:"segments" json:"segments"`

	URL     string     `yaml:"-" json:"-"`
	Program user.Entry `yaml:"-" json:"-"`
}

// Validate checks segment alignment and permissions.
func (i *Image) Validate() error {
	if i.Entry == "" {
		return fmt.Errorf("%w: %s: entry is required", ErrInvalidImage, i.Name)
	}
	for idx, segment := range i.Segments {
		if !mm.VirtAddr(segment.Start).Aligned() {
			return fmt.Errorf("%w: %s: segment[%d] start %#x is not page aligned", ErrInvalidImage, i.Name, idx, segment.Start)
		}
		if segment.Pages <= 0 {
			return fmt.Errorf("%w: %s: segment[%d] has no pages", ErrInvalidImage, i.Name, idx)
		}
		if _, err := mm.ParsePermission(segment.Perm); err != nil {
			return fmt.Errorf("%w: %s: segment[%d]: %v", ErrInvalidImage, i.Name, idx, err)
		}
	}
	return nil
}

// MemorySegments converts the manifest segments for mm.FromImage.
func (i *Image) MemorySegments() []mm.Segment {
	ret := make([]mm.Segment, 0, len(i.Segments))
	for _, segment := range i.Segments {
		perm, _ := mm.ParsePermission(segment.Perm)
		ret = append(ret, mm.Segment{Start: mm.VirtAddr(segment.Start), Pages: segment.Pages, Perm: perm})
	}
	return ret
}
