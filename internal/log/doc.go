// Package log builds wordspider's slog loggers.
//
// Every logger returned here wraps its handler in a SecureHandler, which
// masks cookies, auth headers and tokens, and strips passwords from URLs.
// Site files routinely carry session cookies, and verbose logs get pasted
// into bug reports.
//
// Three output formats are available: "text" (slog text handler), "json"
// (slog JSON handler) and "pretty" (charmbracelet/log for terminals).
//
//	logger, err := log.NewLogger(os.Stderr, log.Options{Verbose: true, Format: "pretty"})
//	if err != nil {
//	    return err
//	}
//	logger.Debug("request", "cookie", "session=abc") // cookie=***REDACTED***
package log
