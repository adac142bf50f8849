package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// SubstituteFilename expands %d (date YYYYMMDD), %t (time HHMMSS), %n
// (process id), %p (program name) and %f (program path with path
// separators replaced by underscores) in pattern, per spec.md §6's
// filename substitution rule.
func SubstituteFilename(pattern string, now time.Time, programPath string) string {
	programName := programPath

	if i := strings.LastIndexAny(programPath, `/\`); i >= 0 {
		programName = programPath[i+1:]
	}

	flatPath := strings.NewReplacer("/", "_", `\`, "_").Replace(programPath)

	r := strings.NewReplacer(
		"%d", now.Format("20060102"),
		"%t", now.Format("150405"),
		"%n", strconv.Itoa(os.Getpid()),
		"%p", programName,
		"%f", flatPath,
	)

	return r.Replace(pattern)
}
