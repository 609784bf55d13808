package seedcheck

import "time"

// Defaults applied to zero Config fields.
const (
	DefaultRows     = 500
	DefaultMembers  = 5
	DefaultSeed     = 42
	DefaultDays     = 120
	DefaultTimeout  = 10 * time.Second
	DefaultWait     = 30 * time.Second
	DefaultInterval = 500 * time.Millisecond
)
