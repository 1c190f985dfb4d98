package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyUserID     = "user_id"
	KeyBuildType  = "build_type"
	KeyStatus     = "status"
	KeyStep       = "step"
	KeyDurationMS = "duration_ms"
	KeyURL        = "url"
	KeyPath       = "path"
	KeyKey        = "storage_key"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func UserID(id string) slog.Attr       { return slog.String(KeyUserID, id) }
func BuildType(t string) slog.Attr     { return slog.String(KeyBuildType, t) }
func Status(s string) slog.Attr        { return slog.String(KeyStatus, s) }
func Step(name string) slog.Attr       { return slog.String(KeyStep, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func StorageKey(k string) slog.Attr    { return slog.String(KeyKey, k) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
