// Package profile provides a simple way to generate pprof compatible gate
// profiles of a synthesis session.
//
// Since circuit synthesis is not thread safe and operates in a single
// go-routine, this package is also NOT thread safe and is meant to be called
// in the same go-routine.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/pprof/profile"

	"github.com/qforge/revmod/logger"
)

var (
	sessions       []*Profile // active sessions
	activeSessions uint32
)

// Profile represents an active gate-count profiling session.
type Profile struct {
	// defaults to ./revmod.pprof
	// if blank, profile is not written to disk
	filePath string

	// actual pprof profile struct
	// details on pprof format: https://github.com/google/pprof/blob/main/proto/README.md
	pprof profile.Profile

	functions map[string]*profile.Function
	locations map[uint64]*profile.Location

	nbGates int64

	chDone chan struct{}
}

// Option defines configuration Options for Profile.
type Option func(*Profile)

// WithPath controls the profile destination file. If blank, profile is not written.
//
// Defaults to ./revmod.pprof.
func WithPath(path string) Option {
	return func(p *Profile) {
		p.filePath = path
	}
}

// WithNoOutput indicates that the profile is not going to be written to disk.
//
// This is equivalent to WithPath("")
func WithNoOutput() Option {
	return func(p *Profile) {
		p.filePath = ""
	}
}

// Start creates a new active profiling session. When Stop() is called, this
// session is removed from active profiling sessions and may be serialized to
// disk as a pprof compatible file (see WithPath option).
//
// All calls to profile.Start() and Stop() are meant to be executed in the same
// go routine that runs the builders.
//
// It is allowed to create multiple overlapping profiling sessions in one
// synthesis.
func Start(options ...Option) *Profile {

	// start the worker first time a profiling session starts.
	onceInit.Do(func() {
		go worker()
	})

	p := Profile{
		functions: make(map[string]*profile.Function),
		locations: make(map[uint64]*profile.Location),
		filePath:  filepath.Join(".", "revmod.pprof"),
		chDone:    make(chan struct{}),
	}
	p.pprof.SampleType = []*profile.ValueType{{
		Type: "gates",
		Unit: "count",
	}}

	for _, option := range options {
		option(&p)
	}

	log := logger.Logger()
	if p.filePath == "" {
		log.Warn().Msg("profiling enabled [not writing to disk]")
	} else {
		log.Info().Str("path", p.filePath).Msg("profiling enabled")
	}

	chCommands <- command{p: &p}
	atomic.AddUint32(&activeSessions, 1)

	return &p
}

// Stop removes the profile from active sessions and may write the pprof file
// to disk. See WithPath option.
func (p *Profile) Stop() {
	log := logger.Logger()

	if p.chDone == nil {
		log.Fatal().Msg("profile stopped multiple times")
	}

	// ask worker routine to remove ourselves from the active sessions
	chCommands <- command{p: p, remove: true}

	// wait for worker routine to remove us.
	<-p.chDone
	p.chDone = nil

	if p.filePath != "" {
		f, err := os.Create(p.filePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create profile")
		}
		if err := p.pprof.Write(f); err != nil {
			log.Error().Err(err).Msg("writing profile")
		}
		f.Close()
		log.Info().Str("path", p.filePath).Msg("profiling disabled")
	} else {
		log.Warn().Msg("profiling disabled [not writing to disk]")
	}
}

// NbGates returns the number of gates collected by the profile session.
func (p *Profile) NbGates() int64 {
	return p.nbGates
}

// Top returns a per-callsite summary of collected gate counts, similar to
// pprof top output, most expensive call site first.
func (p *Profile) Top() string {
	byFunc := make(map[string]int64)
	for _, s := range p.pprof.Sample {
		if len(s.Location) == 0 || len(s.Location[0].Line) == 0 {
			continue
		}
		byFunc[s.Location[0].Line[0].Function.Name] += s.Value[0]
	}
	names := make([]string, 0, len(byFunc))
	for name := range byFunc {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if byFunc[names[i]] != byFunc[names[j]] {
			return byFunc[names[i]] > byFunc[names[j]]
		}
		return names[i] < names[j]
	})
	var sb strings.Builder
	fmt.Fprintf(&sb, "total gates: %d\n", p.nbGates)
	for _, name := range names {
		fmt.Fprintf(&sb, "%10d  %s\n", byFunc[name], name)
	}
	return sb.String()
}

// RecordGates adds a sample of n gates to all the active profiling sessions.
func RecordGates(n int) {
	if n == 0 {
		return
	}
	if active := atomic.LoadUint32(&activeSessions); active == 0 {
		return // do nothing, no active session.
	}

	// collect the stack and send it async to the worker
	pc := make([]uintptr, 20)
	nbFrames := runtime.Callers(3, pc)
	if nbFrames == 0 {
		return
	}
	pc = pc[:nbFrames]
	chCommands <- command{pc: pc, count: int64(n)}
}

func (p *Profile) getLocation(frame *runtime.Frame) *profile.Location {
	l, ok := p.locations[uint64(frame.PC)]
	if !ok {
		f, ok := p.functions[frame.File+frame.Function]
		if !ok {
			fe := strings.Split(frame.Function, "/")
			fName := fe[len(fe)-1]
			f = &profile.Function{
				ID:         uint64(len(p.functions) + 1),
				Name:       fName,
				SystemName: frame.Function,
				Filename:   frame.File,
			}

			p.functions[frame.File+frame.Function] = f
			p.pprof.Function = append(p.pprof.Function, f)
		}

		l = &profile.Location{
			ID:   uint64(len(p.locations) + 1),
			Line: []profile.Line{{Function: f, Line: int64(frame.Line)}},
		}
		p.locations[uint64(frame.PC)] = l
		p.pprof.Location = append(p.pprof.Location, l)
	}
	return l
}
