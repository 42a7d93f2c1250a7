//go:build linux

package microtime

import (
	"golang.org/x/sys/unix"
)

func schedTimesProbe() (Probe, bool) {
	return Probe{
		Name: "scheduler times",
		Read: func() ([]byte, bool) {
			var tms unix.Tms
			ticks, err := unix.Times(&tms)
			if err != nil {
				return nil, false
			}
			return marshalProbe([]int64{
				int64(ticks),
				int64(tms.Utime),
				int64(tms.Stime),
				int64(tms.Cutime),
				int64(tms.Cstime),
			})
		},
	}, true
}
