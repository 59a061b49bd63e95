// Package tablet is the composition root of a small flat-file record store.
//
// Every record lives in its own text file, <base>/<entity>/<id>.json, encoded
// in a flat JSON-like format (see pkg/codec). Ids come from a persistent
// counter in lastId.txt, and data.json holds an aggregate snapshot that is only
// refreshed on request.
//
// Features:
//
//   - **Hexagonal Architecture**: the domain (pkg/core) is isolated from the
//     filesystem adapter (pkg/adapters/fs).
//   - **Atomic Writes**: records are written to a temp file and renamed.
//   - **Wildcard Search**: LIKE-style '%' patterns over any text field.
//   - **Multi-process Safe (opt-in)**: WithProcessLock adds a lock file.
//   - **Observable**: Prometheus metrics, slog logging and introspection state.
//
// Usage:
//
//	svc, err := tablet.Open("./db",
//		tablet.WithLogger(logger),
//		tablet.WithProcessLock(true),
//	)
//
//	q, err := svc.Write(ctx, "Stay hungry", "Steve Jobs")
package tablet
