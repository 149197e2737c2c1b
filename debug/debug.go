// Package debug exposes the debug build flag and stack helpers used by the
// logger and the profiler.
package debug

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Stack returns a compact stack trace of the caller.
func Stack() string {
	var sbb strings.Builder
	WriteStack(&sbb)
	return sbb.String()
}

// WriteStack writes a compact stack trace to sbb. Unless the debug build tag
// is set, file paths are reduced to their base name and runtime internals are
// skipped.
func WriteStack(sbb *strings.Builder, forceClean ...bool) {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	if n == 0 {
		return
	}
	pc = pc[:n]
	frames := runtime.CallersFrames(pc)
	for {
		frame, more := frames.Next()
		fe := strings.Split(frame.Function, "/")
		function := fe[len(fe)-1]
		file := frame.File

		if !Debug || (len(forceClean) > 0 && forceClean[0]) {
			if strings.Contains(function, "runtime.gopanic") {
				continue
			}
			file = filepath.Base(file)
		}

		sbb.WriteString(function)
		sbb.WriteByte('\n')
		sbb.WriteByte('\t')
		sbb.WriteString(file)
		sbb.WriteByte(':')
		sbb.WriteString(strconv.Itoa(frame.Line))
		sbb.WriteByte('\n')
		if !more {
			break
		}
		if strings.HasPrefix(function, "testing.") {
			break
		}
	}
}
