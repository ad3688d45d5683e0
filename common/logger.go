package common

import (
	"fmt"

	"github.com/devlights/gomy/output"
)

type LogLevel int32

const (
	DEBUG_INFO_DETAIL LogLevel = 1
	DEBUG_INFO         LogLevel = 2
	INFO               LogLevel = 16
	WARN               LogLevel = 32
	ERROR              LogLevel = 64
	FATAL              LogLevel = 128
)

// LogLevelSetting controls which levels ShPrintf actually emits.
var LogLevelSetting LogLevel = INFO | WARN | ERROR | FATAL

func ShPrintf(logLevel LogLevel, fmtStl string, a ...interface{}) {
	if logLevel&LogLevelSetting > 0 {
		fmt.Printf(fmtStl, a...)
	}
}

// DumpState prints a single labeled diagnostic line through gomy's
// output writer, so the replacer's eviction trace and TrieStore's
// fingerprint logging share one console sink instead of bare fmt.
func DumpState(label string, a ...interface{}) {
	if LogLevelSetting&DEBUG_INFO == 0 {
		return
	}
	output.Stdoutl(label, fmt.Sprint(a...))
}
