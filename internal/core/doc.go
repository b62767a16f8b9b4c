// Package core provides the import, validation and assembly logic of the
// auto-enrolment pipeline.
//
// This package contains all domain logic independent of any UI or transport
// layer. It can be used by web handlers, CLI tools, or tests without
// modification, and it performs no logging of its own.
//
// # Architecture
//
// The package is organized around the stages of a submission:
//
//   - Importers: one per payroll vendor, registered via the registry and
//     selected by source key. Row defects are returned as data.
//   - Generic mapper: header-driven import of canonical employee, employer
//     and contribution files. Any malformed row fails the call.
//   - Validator: PPSN format, amount parsing and date normalization.
//   - Assembler: combines records into a model.Submission and enforces its
//     invariants.
//
// # Importer Registry
//
// Importers are registered at init time using [RegisterImporter]:
//
//	func init() {
//	    core.RegisterImporter(core.ImporterFunc{Name: "brightpay", Fn: mapBrightPay})
//	}
//
// Sources that are announced but not built yet are registered with
// [RegisterPlanned]; [LookupImporter] reports them with
// [ErrSourceNotImplemented] so the console can answer 501.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - VAL001-VAL003: Cell value errors (numbers, dates)
//   - SUB001-SUB002: Submission errors (validation, unreadable document)
//   - PKG001-PKG004: Packaging errors (run ids, path safety, concurrency)
//   - REQ001-REQ004: Malformed or incomplete API requests
//   - SRC001-SRC002: Unknown or unbuilt payroll sources
//   - FILE001-FILE008: File errors (size, encoding, format, disk)
//   - UPL001-UPL002: Request cancelled or timed out
//
// # Concurrency
//
// Every function here is stateless apart from the registry, which is
// populated at init and read-only afterwards. [PackLimiter] is provided for
// adapters that write archives concurrently.
package core
