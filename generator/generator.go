// Package generator combines multiple entropy sources into a single source.
//
// Sources are ranked by their strength and queried for the full requested
// size each; their outputs are mixed, the strongest source last. Because a
// Generator is a source itself, generators can be nested.
package generator

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/safing/entropy/crypto/hash"
	"github.com/safing/entropy/log"
	"github.com/safing/entropy/metrics"
	"github.com/safing/entropy/mixer"
	"github.com/safing/entropy/source"
	"github.com/safing/entropy/strength"
)

// Errors.
var (
	ErrNoSources      = errors.New("no sources")
	ErrAllFailed      = errors.New("all sources failed")
	ErrInvalidRange   = errors.New("invalid range")
	ErrInvalidMixer   = errors.New("invalid mixer")
	ErrInvalidCharset = errors.New("invalid charset")
)

// defaultStrength is the security strength in bits the default mixer
// algorithm is chosen for.
const defaultStrength = 256

// Generator mixes the output of several sources. It is safe for concurrent use.
type Generator struct {
	mixer       mixer.Mixer
	sources     []source.Source
	parallelism int
}

// Option configures a Generator.
type Option func(*Generator)

// WithMixer sets the mixer. Defaults to a HashMixer with the hash algorithm
// recommended for 256 bit security strength.
func WithMixer(m mixer.Mixer) Option {
	return func(g *Generator) {
		g.mixer = m
	}
}

// WithParallelism limits how many sources are queried at the same time.
// Values below 1 mean no limit.
func WithParallelism(n int) Option {
	return func(g *Generator) {
		g.parallelism = n
	}
}

// New returns a generator mixing the given sources. Sources are wrapped with
// source.Locked; pass a locked source if it is also used elsewhere.
func New(sources []source.Source, opts ...Option) (*Generator, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	g := &Generator{
		sources: make([]source.Source, 0, len(sources)),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.mixer == nil {
		g.mixer = mixer.NewHashMixer(hash.RecommendedAlg(defaultStrength))
	}
	// a mixer that cannot produce a single byte will never produce more
	if len(g.mixer.Mix([][]byte{{0}}, 1)) != 1 {
		return nil, ErrInvalidMixer
	}

	for _, src := range sources {
		if src == nil {
			return nil, fmt.Errorf("generator: nil source")
		}
		g.sources = append(g.sources, source.Locked(src))
	}
	// weakest first, so the strongest source is folded last
	slices.SortStableFunc(g.sources, func(a, b source.Source) int {
		return a.Strength().Compare(b.Strength())
	})

	return g, nil
}

// Name returns the name of the generator.
func (g *Generator) Name() string {
	return "generator"
}

// Strength returns the strength of the strongest source, limited by the
// strength of the mixer.
func (g *Generator) Strength() strength.Level {
	strongest := g.sources[len(g.sources)-1].Strength()
	return strength.Min(strongest, g.mixer.Strength())
}

// Generate returns size bytes mixed from all sources. Sources that fail are
// left out; Generate only fails if all sources fail.
func (g *Generator) Generate(size int) ([]byte, error) {
	if err := source.CheckSize(size); err != nil {
		return nil, err
	}
	if size == 0 {
		return []byte{}, nil
	}

	parts := make([][]byte, len(g.sources))
	errs := make([]error, len(g.sources))

	var group errgroup.Group
	if g.parallelism > 0 {
		group.SetLimit(g.parallelism)
	}
	for i, src := range g.sources {
		i, src := i, src
		group.Go(func() error {
			data, err := src.Generate(size)
			switch {
			case err != nil:
				errs[i] = fmt.Errorf("%s: %w", source.Name(src), err)
			case len(data) != size:
				errs[i] = fmt.Errorf("%s: returned %d bytes instead of %d", source.Name(src), len(data), size)
			default:
				parts[i] = data
			}
			return nil
		})
	}
	_ = group.Wait()

	var failed *multierror.Error
	available := make([][]byte, 0, len(parts))
	for i, part := range parts {
		if errs[i] != nil {
			failed = multierror.Append(failed, errs[i])
			metrics.SourceFailed(source.Name(g.sources[i]))
			continue
		}
		available = append(available, part)
		metrics.SourceGenerated(source.Name(g.sources[i]), size)
	}

	if len(available) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAllFailed, failed.Error())
	}
	if failed != nil {
		log.Warningf("generator: mixing without %d of %d sources: %s", len(failed.Errors), len(g.sources), failed.Error())
	}

	mixed := g.mixer.Mix(available, size)
	if len(mixed) != size {
		return nil, fmt.Errorf("%w: returned %d bytes instead of %d", ErrInvalidMixer, len(mixed), size)
	}
	return mixed, nil
}
