package rng

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"github.com/aead/serpent"
	"github.com/seehuhn/fortuna"
	"github.com/tevino/abool"

	"github.com/safing/entropy/config"
	"github.com/safing/entropy/log"
	"github.com/safing/entropy/metrics"
	"github.com/safing/entropy/source"
)

var (
	rng      *fortuna.Generator
	rngLock  sync.Mutex
	rngReady = abool.New()

	rngCipherOption    config.StringOption
	minFeedEntropy     config.IntOption
	reseedAfterSeconds config.IntOption
	reseedAfterBytes   config.IntOption
	sourceFeedInterval config.IntOption

	// rngFeeder transports gathered entropy from feeders to the rng.
	rngFeeder = make(chan []byte)

	shutdownSignal = make(chan struct{})
	shutdownLock   sync.Mutex
	feeders        sync.WaitGroup

	sources     []source.Source
	sourcesLock sync.Mutex

	// ErrAlreadyStarted is returned when Start is called on a running rng.
	ErrAlreadyStarted = errors.New("rng already started")
)

func init() {
	if err := prep(); err != nil {
		log.Errorf("rng: failed to register config options: %s", err)
	}
}

func prep() error {
	err := config.Register(&config.Option{
		Name:            "RNG Cipher",
		Key:             "random/rng_cipher",
		Description:     "Cipher to use for the Fortuna RNG. Requires restart to take effect.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		ReleaseLevel:    config.ReleaseLevelExperimental,
		DefaultValue:    "aes",
		ValidationRegex: "^(aes|serpent)$",
	})
	if err != nil {
		return err
	}
	rngCipherOption = config.GetAsString("random/rng_cipher", "aes")

	err = config.Register(&config.Option{
		Name:            "Minimum Feed Entropy",
		Key:             "random/min_feed_entropy",
		Description:     "The minimum amount of entropy before a entropy source is feed to the RNG, in bits.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		ReleaseLevel:    config.ReleaseLevelExperimental,
		DefaultValue:    256,
		ValidationRegex: "^[0-9]{3,5}$",
	})
	if err != nil {
		return err
	}
	minFeedEntropy = config.GetAsInt("random/min_feed_entropy", 256)

	err = config.Register(&config.Option{
		Name:            "Reseed after x seconds",
		Key:             "random/reseed_after_seconds",
		Description:     "Number of seconds until reseed",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		ReleaseLevel:    config.ReleaseLevelExperimental,
		DefaultValue:    360, // ten minutes
		ValidationRegex: "^[1-9][0-9]{1,5}$",
	})
	if err != nil {
		return err
	}
	reseedAfterSeconds = config.GetAsInt("random/reseed_after_seconds", 360)

	err = config.Register(&config.Option{
		Name:            "Reseed after x bytes",
		Key:             "random/reseed_after_bytes",
		Description:     "Number of fetched bytes until reseed",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		ReleaseLevel:    config.ReleaseLevelExperimental,
		DefaultValue:    1000000, // one megabyte
		ValidationRegex: "^[1-9][0-9]{2,9}$",
	})
	if err != nil {
		return err
	}
	reseedAfterBytes = config.GetAsInt("random/reseed_after_bytes", 1000000)

	err = config.Register(&config.Option{
		Name:            "Source feed interval",
		Key:             "random/source_feed_interval",
		Description:     "Milliseconds between fetching entropy from added sources.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		ReleaseLevel:    config.ReleaseLevelExperimental,
		DefaultValue:    1000,
		ValidationRegex: "^[1-9][0-9]{1,6}$",
	})
	if err != nil {
		return err
	}
	sourceFeedInterval = config.GetAsInt("random/source_feed_interval", 1000)

	return nil
}

func newCipher(key []byte) (cipher.Block, error) {
	cipher := rngCipherOption()
	switch cipher {
	case "aes":
		return aes.NewCipher(key)
	case "serpent":
		return serpent.NewCipher(key)
	default:
		return nil, fmt.Errorf("unknown or unsupported cipher: %s", cipher)
	}
}

// Start starts the RNG and its feeders. The RNG is seeded from the OS before
// it becomes ready.
func Start() (err error) {
	rngLock.Lock()
	defer rngLock.Unlock()

	if rngReady.IsSet() {
		return ErrAlreadyStarted
	}

	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return fmt.Errorf("rng: failed to get initial seed from os: %w", err)
	}
	rng = fortuna.NewGenerator(newCipher)
	rng.Reseed(seed)
	metrics.RNGReseeded()
	resetReseedLimits()

	shutdownLock.Lock()
	shutdownSignal = make(chan struct{})
	shutdownLock.Unlock()

	// random source: OS
	startFeeder(osFeeder)

	// random source: goroutine ticks
	startFeeder(tickFeeder)

	// full feeder
	startFeeder(fullFeeder)

	// random sources: added sources
	sourcesLock.Lock()
	for _, src := range sources {
		startSourceFeeder(src)
	}
	sourcesLock.Unlock()

	rngReady.Set()
	log.Debugf("rng: started with %s cipher", rngCipherOption())
	return nil
}

// Stop stops all feeders. The RNG is unavailable until started again.
func Stop() {
	rngLock.Lock()
	sourcesLock.Lock()
	stopped := rngReady.SetToIf(true, false)
	sourcesLock.Unlock()
	rngLock.Unlock()
	if !stopped {
		return
	}

	shutdownLock.Lock()
	close(shutdownSignal)
	shutdownLock.Unlock()

	feeders.Wait()
}

// AddSource adds an entropy source that is regularly used to feed the RNG.
// The source is used from its own goroutine; calls to it are serialized.
// If src is also used elsewhere, pass the same source.Locked value to all users.
func AddSource(src source.Source) {
	src = source.Locked(src)

	sourcesLock.Lock()
	defer sourcesLock.Unlock()

	sources = append(sources, src)
	if rngReady.IsSet() {
		startSourceFeeder(src)
	}
}

func getShutdownSignal() chan struct{} {
	shutdownLock.Lock()
	defer shutdownLock.Unlock()
	return shutdownSignal
}

func startFeeder(fn func(shutdown chan struct{})) {
	shutdown := getShutdownSignal()
	feeders.Add(1)
	go func() {
		defer feeders.Done()
		fn(shutdown)
	}()
}

func startSourceFeeder(src source.Source) {
	startFeeder(func(shutdown chan struct{}) {
		sourceFeeder(src, shutdown)
	})
}
