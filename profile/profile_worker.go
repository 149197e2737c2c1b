package profile

import (
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/pprof/profile"
)

// since we are assuming usage of this package from a single go routine, this
// channel only has one "producer", and one "consumer". its purpose is to
// guarantee the order of execution of adding / removing a profiling session
// and sampling events, while enabling the builders to sample the events
// asynchronously.
var chCommands = make(chan command, 100)
var onceInit sync.Once

type command struct {
	p      *Profile
	pc     []uintptr
	count  int64
	remove bool
}

func worker() {
	for c := range chCommands {
		if c.p != nil {
			if c.remove {
				for i := 0; i < len(sessions); i++ {
					if sessions[i] == c.p {
						sessions[i] = sessions[len(sessions)-1]
						sessions = sessions[:len(sessions)-1]
						break
					}
				}
				close(c.p.chDone)

				// decrement active sessions
				atomic.AddUint32(&activeSessions, ^uint32(0))
			} else {
				sessions = append(sessions, c.p)
			}
			continue
		}

		// it's a sampling event
		collectSample(c.pc, c.count)
	}
}

// collectSample must be called from the worker go routine
func collectSample(pc []uintptr, count int64) {
	// for each session we may have a distinct sample, since ids of functions
	// and locations may mismatch
	samples := make([]*profile.Sample, len(sessions))
	for i := range samples {
		samples[i] = &profile.Sample{Value: []int64{count}}
	}

	frames := runtime.CallersFrames(pc)
	for {
		frame, more := frames.Next()

		if filterGateEmissionFunc(frame.Function) {
			if !more {
				break
			}
			continue
		}

		if strings.HasPrefix(frame.Function, "runtime.") {
			break
		}
		if strings.HasPrefix(frame.Function, "testing.") {
			break
		}

		for i := range samples {
			samples[i].Location = append(samples[i].Location, sessions[i].getLocation(&frame))
		}

		if !more {
			break
		}
	}

	for i := range sessions {
		sessions[i].pprof.Sample = append(sessions[i].pprof.Sample, samples[i])
		sessions[i].nbGates += count
	}
}

func filterGateEmissionFunc(f string) bool {
	// filter the gate emission plumbing from the trace, so that samples are
	// attributed to the operator builders and their callers.
	const circuitPrefix = "github.com/qforge/revmod/circuit."
	return strings.HasPrefix(f, circuitPrefix)
}
