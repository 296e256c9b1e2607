// Package history persists solver runs and their iteration traces in a local
// SQLite database so they can be listed and replayed from the CLI.
//
// The database lives at <dir>/history.db and is created on first use.
// Schema changes are plain SQL files under migrations/, applied in version
// order when the store opens.
package history
