package databar

import "log/slog"

// pkgLogger is the logger used for engine diagnostics. Nil means
// slog.Default(), resolved on every call so a later slog.SetDefault
// still takes effect.
var pkgLogger *slog.Logger

// SetLogger replaces the logger used for warnings and debug output.
// Passing nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	pkgLogger = l
}

func logger() *slog.Logger {
	if pkgLogger != nil {
		return pkgLogger
	}
	return slog.Default()
}
