// Package proplist provides property lists for HTTP server request and
// connection state: ordered, integer-indexed containers with optional name
// lookup, carved out of scoped memory pools.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	proplist/            Root package with the Pool and Releaser interfaces
//	├── plist/           Property lists, type registry and the locked wrapper
//	├── pool/            Byte-accounting arenas implementing Pool
//	├── resource/        Handle table behind type references
//	├── errors/          Structured error types with negative result codes
//	├── errtab/          Windows Sockets error names
//	├── fcgierr/         FastCGI gateway failure kinds
//	├── metrics/         Prometheus collector fed by list events
//	├── config/          YAML settings with validation
//	└── cmd/plist/       Script runner and interactive shell
//
// # Quick Start
//
// Create a list in a request arena and work with it by index or name:
//
//	arena := pool.New("request", 64<<10)
//	defer arena.Release()
//
//	req, err := plist.Create(arena, 2, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer req.Destroy()
//
//	req.InitProperty(1, "method", "GET", 0)
//	idx, err := req.InitProperty(0, "host", "example.com", 0)
//
//	p, err := req.FindValue("host") // p.Index == idx
//
// # Results
//
// Operations return the affected index or an error. Errors carry a kind that
// maps to a negative code through errors.Code, so callers that need the
// numeric convention can keep it:
//
//	_, err := req.DefineProperty(0, "", false)
//	if errors.Is(err, plist.ErrListFull) {
//	    // errors.Code(err) == -5
//	}
//
// # Memory Model
//
// Lists charge their bookkeeping to a Pool and return it on Destroy. Values
// and type references are borrowed; a list never frees what it stores.
//
// # Thread Safety
//
// Arenas, the type registry and SyncList are safe for concurrent use. A bare
// List is not.
package proplist
