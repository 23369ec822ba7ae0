package debug

import (
	"fmt"
	"strings"
)

type DebugLevel int8

const (
	NoDebug DebugLevel = iota
	Debug
	Warn
	Error
)

type DebugWithPrefix struct {
	Level  DebugLevel
	Prefix string
}

func NewDebugWithPrefix(level DebugLevel, prefix string) *DebugWithPrefix {
	return &DebugWithPrefix{Level: level, Prefix: prefix}
}

func (d *DebugWithPrefix) String() string {
	return d.Prefix
}

func IsDebug(level DebugLevel) bool {
	return level <= Debug
}

func IsWarn(level DebugLevel) bool {
	return level <= Warn
}

func IsError(level DebugLevel) bool {
	return level <= Error
}

// ParseLevel converts the value of a -debug flag into a DebugLevel.
func ParseLevel(name string) (DebugLevel, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return NoDebug, nil
	case "debug":
		return Debug, nil
	case "warn":
		return Warn, nil
	case "error":
		return Error, nil
	}
	return NoDebug, fmt.Errorf("unrecognized debug level: %s", name)
}
