package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPlugin     = "plugin"
	KeyFormat     = "format"
	KeyFilename   = "filename"
	KeyLocation   = "location"
	KeyPhase      = "phase"
	KeySource     = "source"
	KeyPath       = "path"
	KeyTrigger    = "trigger"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Format(f string) slog.Attr       { return slog.String(KeyFormat, f) }
func Filename(f string) slog.Attr     { return slog.String(KeyFilename, f) }
func Location(l string) slog.Attr     { return slog.String(KeyLocation, l) }
func Phase(p string) slog.Attr        { return slog.String(KeyPhase, p) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Trigger(t string) slog.Attr      { return slog.String(KeyTrigger, t) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
