package filesystem

import "fmt"

// Router dispatches s3:// paths to an S3 provider and every other path to
// a fallback provider.
type Router struct {
	fallback FileSystemProvider
	s3       FileSystemProvider
}

// NewRouter creates a router. s3 may be nil, in which case s3:// paths fail.
func NewRouter(fallback, s3 FileSystemProvider) *Router {
	return &Router{fallback: fallback, s3: s3}
}

func (r *Router) pick(p string) (FileSystemProvider, error) {
	if IsS3Path(p) {
		if r.s3 == nil {
			return nil, fmt.Errorf("no S3 provider configured for %s", p)
		}
		return r.s3, nil
	}
	return r.fallback, nil
}

func (r *Router) Open(p string) (Directory, error) {
	provider, err := r.pick(p)
	if err != nil {
		return nil, err
	}
	return provider.Open(p)
}

func (r *Router) ReadFile(p string) ([]byte, error) {
	provider, err := r.pick(p)
	if err != nil {
		return nil, err
	}
	return provider.ReadFile(p)
}

func (r *Router) Stat(p string) (FileInfo, error) {
	provider, err := r.pick(p)
	if err != nil {
		return nil, err
	}
	return provider.Stat(p)
}
