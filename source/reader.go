package source

import "io"

type reader struct {
	src Source
}

// NewReader returns an io.Reader that fills buffers from src.
func NewReader(src Source) io.Reader {
	return &reader{src: src}
}

func (r *reader) Read(b []byte) (n int, err error) {
	data, err := r.src.Generate(len(b))
	if err != nil {
		return 0, err
	}
	return copy(b, data), nil
}
