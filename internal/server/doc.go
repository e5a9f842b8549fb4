// Package server provides the optional HTTP status surface of the bot.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Status Handler
//
// [StatusHandler] serves two routes:
//
//	GET /healthz → "ok" while the process is up
//	GET /status  → {"ready": bool, "users": n, "autofix_enabled": n}
//
// The server is disabled unless server.enabled is set in config.toml.
package server
