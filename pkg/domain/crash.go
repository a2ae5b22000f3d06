package domain

import "time"

// CrashReport describes an unrecoverable fault captured by a fault sink.
type CrashReport struct {
	Time     time.Time `json:"time"`
	Fault    string    `json:"fault"`
	Location string    `json:"location,omitempty"`
	Stack    string    `json:"stack,omitempty"`
}

// CrashFile is a persisted crash report.
type CrashFile struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
}
