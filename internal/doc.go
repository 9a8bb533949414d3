// Package internal contains the core implementation packages for emojikit.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the emojikit CLI and demo server.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - emoji: Catalog records, category and skintone enums, embedded data
//   - storage: Durable key-value state with in-memory and SQLite backends
//   - skintone: Glyph resolution under the active skintone policy
//   - suggestions: Recent and frequent usage tracking
//   - filter: Locale-aware keyword search over embedded tables
//   - localization: Translation lookup over embedded string bundles
//   - rows: Packing emoji sequences into display rows
//   - picker: The session coordinator tying the above together
//   - config: Configuration management with validation
//   - logging: Structured logging on top of log/slog
//   - watcher: Config file monitoring with debouncing
//   - server: The demo HTTP server with WebSocket row streaming
//
// # Inter-Package Communication
//
// Packages communicate through well-defined collaborators:
//
//   - The picker session receives its catalog, tracker, filter engine and
//     translator at construction and owns all derived state
//   - Storage is only ever touched through the suggestions tracker
//   - Row updates reach consumers over buffered subscriber channels; slow
//     consumers miss intermediate updates rather than blocking the session
//   - The watcher debounces config file changes into settings reloads
//
// For detailed documentation, see the individual package documentation.
package internal
