// Package logging configures the process-wide slog logger used by every
// videoauto component.
//
// Two output formats are supported. The console format renders a compact,
// human-readable line per record with indented fields and is the default
// for interactive runs. The json format emits one JSON object per record
// for ingestion by log collectors.
//
// Components obtain loggers through NewComponentLogger so every record
// carries a component field, and the typed attribute helpers in this
// package keep field names consistent across the codebase.
package logging
