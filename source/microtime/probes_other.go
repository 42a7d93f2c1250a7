//go:build !linux

package microtime

func schedTimesProbe() (Probe, bool) {
	return Probe{}, false
}
