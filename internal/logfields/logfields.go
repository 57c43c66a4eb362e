package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyDir        = "dir"
	KeyPath       = "path"
	KeyStrategy   = "strategy"
	KeyStage      = "stage"
	KeyExitCode   = "exit_code"
	KeyNumChanged = "num_changed"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Strategy(s string) slog.Attr     { return slog.String(KeyStrategy, s) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func ExitCode(c int) slog.Attr        { return slog.Int(KeyExitCode, c) }
func NumChanged(n int) slog.Attr      { return slog.Int(KeyNumChanged, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
