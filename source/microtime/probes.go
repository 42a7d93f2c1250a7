package microtime

import (
	"encoding/binary"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/process"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/safing/entropy/log"
)

// Probe reads one ambient signal of the process. Signals are best effort:
// a probe that cannot read its signal reports ok == false and contributes
// nothing.
type Probe struct {
	Name string
	Read func() (data []byte, ok bool)
}

// DefaultProbes returns the probes used to seed new sources: scheduler
// times (where the platform provides them), process CPU times, resident
// memory, the process ID, heap usage and the environment.
func DefaultProbes() []Probe {
	probes := make([]Probe, 0, 6)
	if schedTimes, ok := schedTimesProbe(); ok {
		probes = append(probes, schedTimes)
	}
	return append(probes,
		Probe{Name: "cpu times", Read: readCPUTimes},
		Probe{Name: "resident memory", Read: readResidentMemory},
		Probe{Name: "pid", Read: readPID},
		Probe{Name: "memory usage", Read: readMemoryUsage},
		Probe{Name: "environment", Read: readEnvironment},
	)
}

// gatherProbes concatenates the output of all available probes.
func gatherProbes(probes []Probe) []byte {
	var gathered []byte
	for _, probe := range probes {
		data, ok := probe.Read()
		if !ok {
			log.Tracef("microtime: %s probe unavailable", probe.Name)
			continue
		}
		gathered = append(gathered, data...)
	}
	return gathered
}

func marshalProbe(v interface{}) ([]byte, bool) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, false
	}
	return data, true
}

func currentProcess() (*process.Process, bool) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, false
	}
	return p, true
}

func readCPUTimes() ([]byte, bool) {
	p, ok := currentProcess()
	if !ok {
		return nil, false
	}
	times, err := p.Times()
	if err != nil || times == nil {
		return nil, false
	}
	return marshalProbe(times)
}

func readResidentMemory() ([]byte, bool) {
	p, ok := currentProcess()
	if !ok {
		return nil, false
	}
	info, err := p.MemoryInfo()
	if err != nil || info == nil {
		return nil, false
	}
	return marshalProbe(info)
}

func readPID() ([]byte, bool) {
	return encodeUint64(uint64(os.Getpid())), true
}

func readMemoryUsage() ([]byte, bool) {
	return encodeUint64(memoryUsage()), true
}

func readEnvironment() ([]byte, bool) {
	return marshalProbe(os.Environ())
}

// memoryUsage returns the bytes currently allocated on the heap.
func memoryUsage() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.HeapAlloc
}

func encodeUint64(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
