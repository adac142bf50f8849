// Package config parses the single configuration string that controls
// every runtime option of the debugging allocator (spec.md §6). The
// grammar is whitespace-separated `KEY` or `KEY=VALUE` tokens, the same
// shape the original mpatrol option parser reads from its environment
// variable (see original_source/src/option.c's token scanner, which
// splits on isspace and "="); error reporting follows the teacher's
// internal/errors.StandardError pattern.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orizon-lang/orizon-memdebug/internal/memdebug/lowalloc"
)

// Options holds every parsed runtime setting, defaulted per spec.md §6.
type Options struct {
	Policy lowalloc.Policy

	AllocStop   uint64
	ReallocStop uint64
	FreeStop    uint64

	FailFreq uint64
	FailSeed uint64

	CheckFrom, CheckTo uint64
	CheckAll           bool

	NoFree uint64

	SafeSignals bool
	NoProtect   bool
	AllowOflow  bool

	SmallBound, MediumBound, LargeBound uint64
	AutoSave                            uint64

	LogFile     string
	ProfileFile string
	TraceFile   string

	// UnfreedAbort is the live-byte-count threshold (spec.md §6
	// UNFREEDABORT) above which Shutdown reports a fatal error instead
	// of a clean exit. 0 disables the check.
	UnfreedAbort uintptr

	// AllocaBias is the address-heuristic mode's local-variable bias
	// (spec.md §4.K mode 2). No default value is named in spec.md; this
	// module picks 256 bytes, matching the small stack-frame slack
	// mpatrol's own ALLOCABIAS documentation describes it guarding
	// against (see DESIGN.md Open Questions).
	AllocaBias uint64
}

// Default returns the option set with every documented default applied.
func Default() Options {
	return Options{
		Policy:      lowalloc.DefaultPolicy(),
		SmallBound:  32,
		MediumBound: 256,
		LargeBound:  4096,
		AllocaBias:  256,
	}
}

// Parse reads a whitespace-separated KEY or KEY=VALUE option string and
// applies it on top of Default(). Unknown keys and malformed values
// return an error naming the offending token.
func Parse(s string) (Options, error) {
	opt := Default()

	for _, tok := range strings.Fields(s) {
		key, value, hasValue := strings.Cut(tok, "=")
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if err := opt.apply(key, value, hasValue); err != nil {
			return Options{}, fmt.Errorf("config: option %q: %w", tok, err)
		}
	}

	return opt, nil
}

func (o *Options) apply(key, value string, hasValue bool) error {
	switch key {
	case "ALLOCBYTE":
		b, err := parseByte(value)
		if err != nil {
			return err
		}

		o.Policy.AllocByte = b
	case "FREEBYTE":
		b, err := parseByte(value)
		if err != nil {
			return err
		}

		o.Policy.FreeByte = b
	case "OFLOWBYTE":
		b, err := parseByte(value)
		if err != nil {
			return err
		}

		o.Policy.OverflowByte = b
	case "OFLOWSIZE":
		n, err := parseUint(value)
		if err != nil {
			return err
		}

		o.Policy.OverflowSize = uintptr(n)
	case "DEFALIGN":
		n, err := parseUint(value)
		if err != nil {
			return err
		}

		if n == 0 || n&(n-1) != 0 {
			return fmt.Errorf("alignment must be a power of two, got %d", n)
		}

		o.Policy.DefaultAlign = uintptr(n)
	case "LIMIT":
		n, err := parseUint(value)
		if err != nil {
			return err
		}

		o.Policy.Limit = uintptr(n)
	case "ALLOCSTOP":
		n, err := parseUint(value)
		if err != nil {
			return err
		}

		o.AllocStop = n
	case "REALLOCSTOP":
		n, err := parseUint(value)
		if err != nil {
			return err
		}

		o.ReallocStop = n
	case "FREESTOP":
		n, err := parseUint(value)
		if err != nil {
			return err
		}

		o.FreeStop = n
	case "FAILFREQ":
		n, err := parseUint(value)
		if err != nil {
			return err
		}

		o.FailFreq = n
	case "FAILSEED":
		n, err := parseUint(value)
		if err != nil {
			return err
		}

		o.FailSeed = n
	case "CHECK":
		from, to, err := parseRange(value)
		if err != nil {
			return err
		}

		o.CheckFrom, o.CheckTo = from, to
	case "CHECKALL":
		o.CheckAll = true
	case "NOFREE":
		n, err := parseUint(value)
		if err != nil {
			if !hasValue {
				n = 1 // bare NOFREE retains a single block, per mpatrol's own default
			} else {
				return err
			}
		}

		o.NoFree = n
	case "OFLOWWATCH":
		o.Policy.OverflowWatch = true
	case "PAGEALLOC":
		switch strings.ToUpper(value) {
		case "LOWER":
			o.Policy.PageAlloc = lowalloc.PageAllocLower
		case "UPPER":
			o.Policy.PageAlloc = lowalloc.PageAllocUpper
		default:
			return fmt.Errorf("PAGEALLOC must be LOWER or UPPER, got %q", value)
		}
	case "PRESERVE":
		o.Policy.Preserve = true
	case "SAFESIGNALS":
		o.SafeSignals = true
	case "NOPROTECT":
		o.NoProtect = true
	case "ALLOWOFLOW":
		o.AllowOflow = true
	case "SMALLBOUND":
		n, err := parseUint(value)
		if err != nil {
			return err
		}

		o.SmallBound = n
	case "MEDIUMBOUND":
		n, err := parseUint(value)
		if err != nil {
			return err
		}

		o.MediumBound = n
	case "LARGEBOUND":
		n, err := parseUint(value)
		if err != nil {
			return err
		}

		o.LargeBound = n
	case "AUTOSAVE":
		n, err := parseUint(value)
		if err != nil {
			return err
		}

		o.AutoSave = n
	case "LOGFILE":
		o.LogFile = value
	case "PROFFILE":
		o.ProfileFile = value
	case "TRACEFILE":
		o.TraceFile = value
	case "ALLOCABIAS":
		n, err := parseUint(value)
		if err != nil {
			return err
		}

		o.AllocaBias = n
	case "UNFREEDABORT":
		n, err := parseUint(value)
		if err != nil {
			return err
		}

		o.UnfreedAbort = uintptr(n)
	case "LOGALL", "LOGALLOCS", "LOGREALLOCS", "LOGFREES", "LOGMEMORY",
		"SHOWMAP", "SHOWSYMBOLS", "SHOWFREE", "SHOWFREED", "SHOWUNFREED",
		"PROF", "LOGDIR", "PROGFILE", "USEDEBUG", "USEMMAP":
		// Recognised but do not alter this port's behaviour: logging
		// always covers every event kind (no per-kind toggle), and the
		// backend is always sysmem.Provider regardless of USEDEBUG/
		// USEMMAP. Accepting the key without error keeps option strings
		// written for the original tool usable unchanged.
	default:
		return fmt.Errorf("unrecognised option key")
	}

	return nil
}

func parseByte(s string) (byte, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("expected an 8-bit value: %w", err)
	}

	return byte(n), nil
}

func parseUint(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("expected an unsigned integer: %w", err)
	}

	return n, nil
}

// parseRange parses "N" (meaning [N, N]) or "N-M".
func parseRange(s string) (uint64, uint64, error) {
	before, after, ok := strings.Cut(s, "-")
	if !ok {
		n, err := parseUint(s)

		return n, n, err
	}

	from, err := parseUint(before)
	if err != nil {
		return 0, 0, err
	}

	to, err := parseUint(after)
	if err != nil {
		return 0, 0, err
	}

	return from, to, nil
}
