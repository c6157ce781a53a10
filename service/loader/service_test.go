package loader

import (
	"context"
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
	"github.com/viant/kproc/service/mm"
	"github.com/viant/kproc/user"
)

//go:embed testdata/*
var testFS embed.FS

func newService() *Service {
	registry := NewRegistry()
	registry.Register("initproc", func(lib *user.Lib) int32 { return 0 })
	registry.Register("worker", func(lib *user.Lib) int32 { return 1 })
	return New("embed:///testdata", WithFs(afs.New()), WithStorageOptions(&testFS), WithRegistry(registry))
}

func TestService_Load(t *testing.T) {
	srv := newService()
	ctx := context.Background()

	testCases := []struct {
		name      string
		image     string
		expectErr error
		expect    func(t *testing.T, image *Image)
	}{
		{
			name:  "init image",
			image: "initproc",
			expect: func(t *testing.T, image *Image) {
				assert.Equal(t, "initproc", image.Name)
				assert.Equal(t, uint64(16), image.Priority)
				assert.NotNil(t, image.Program)
				assert.Equal(t, []mm.Segment{
					{Start: 0x10000, Pages: 2, Perm: mm.PermR | mm.PermX},
					{Start: 0x12000, Pages: 1, Perm: mm.PermR | mm.PermW},
				}, image.MemorySegments())
			},
		},
		{
			name:  "name defaults to file name",
			image: "worker",
			expect: func(t *testing.T, image *Image) {
				assert.Equal(t, "worker", image.Name)
				assert.Equal(t, int32(1), image.Program(nil))
			},
		},
		{name: "missing", image: "nope", expectErr: ErrImageNotFound},
		{name: "path traversal", image: "../initproc", expectErr: ErrImageNotFound},
		{name: "unregistered entry", image: "orphan", expectErr: ErrEntryNotRegistered},
		{name: "misaligned segment", image: "broken", expectErr: ErrInvalidImage},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			image, err := srv.Load(ctx, tc.image)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			tc.expect(t, image)
		})
	}
}

func TestService_Apps(t *testing.T) {
	apps, err := newService().Apps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"broken", "initproc", "orphan", "worker"}, apps)
}

func TestRegister(t *testing.T) {
	Register("loader-test", func(lib *user.Lib) int32 { return 5 })
	entry, ok := DefaultRegistry().Lookup("loader-test")
	require.True(t, ok)
	assert.Equal(t, int32(5), entry(nil))
}
