package model

import (
	"regexp"
	"time"
)

// Verdict classifies a finished test command.
type Verdict int

// Test command verdicts.
const (
	VerdictPass Verdict = iota
	VerdictFail
	VerdictCompileError
	VerdictTimeout
)

func (v Verdict) String() string {
	switch v {
	case VerdictPass:
		return "pass"
	case VerdictFail:
		return "fail"
	case VerdictCompileError:
		return "compile-error"
	case VerdictTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Status maps a verdict onto the mutation status it produces.
func (v Verdict) Status() Status {
	switch v {
	case VerdictPass:
		return Survived
	case VerdictFail:
		return Killed
	case VerdictTimeout:
		return Timeout
	default:
		return Error
	}
}

// TestRequest describes one invocation of the project's test command.
type TestRequest struct {
	Dir             Path
	Command         []string
	Env             []string
	Timeout         time.Duration
	CompilePatterns []*regexp.Regexp
}

// TestRun is the classified result of a test command.
type TestRun struct {
	Verdict  Verdict
	ExitCode int
	Output   string
	Elapsed  time.Duration
}

// Backup is a journal entry for original file content saved before a mutation.
type Backup struct {
	ID        string
	Path      Path
	Hash      string
	Size      int64
	Mode      uint32
	CreatedAt time.Time
}
