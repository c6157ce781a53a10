package loader

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

const imageExt = ".yaml"

// Service loads images from baseURL.
type Service struct {
	fs       afs.Service
	baseURL  string
	options  []storage.Option
	registry *Registry
}

// New creates a loader reading manifests under baseURL.
func New(baseURL string, options ...Option) *Service {
	ret := &Service{baseURL: baseURL}
	for _, opt := range options {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.registry == nil {
		ret.registry = defaultRegistry
	}
	return ret
}

// BaseURL returns the manifest location.
func (s *Service) BaseURL() string {
	return s.baseURL
}

// Load reads, validates and resolves the image called name.
func (s *Service) Load(ctx context.Context, name string) (*Image, error) {
	if name == "" || strings.ContainsAny(name, "/\\") {
		return nil, fmt.Errorf("%w: %q", ErrImageNotFound, name)
	}
	URL := url.Join(s.baseURL, name+imageExt)
	if exists, _ := s.fs.Exists(ctx, URL, s.options...); !exists {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, name)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", URL, err)
	}
	image := &Image{}
	if err = yaml.Unmarshal(data, image); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidImage, URL, err)
	}
	image.URL = URL
	if image.Name == "" {
		image.Name = name
	}
	if err = image.Validate(); err != nil {
		return nil, err
	}
	program, ok := s.registry.Lookup(image.Entry)
	if !ok {
		return nil, fmt.Errorf("%w: %s (image %s)", ErrEntryNotRegistered, image.Entry, name)
	}
	image.Program = program
	return image, nil
}

// Apps lists the names of all images under baseURL, sorted.
func (s *Service) Apps(ctx context.Context) ([]string, error) {
	objects, err := s.fs.List(ctx, s.baseURL, s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to list images in %s: %w", s.baseURL, err)
	}
	var ret []string
	for _, obj := range objects {
		if obj.IsDir() || path.Ext(obj.Name()) != imageExt {
			continue
		}
		ret = append(ret, strings.TrimSuffix(obj.Name(), imageExt))
	}
	sort.Strings(ret)
	return ret, nil
}
