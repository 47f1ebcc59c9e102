// Package main hosts the critable CLI entrypoint and command graph.
//
// The Cobra-based command tree ingests detector output files, runs the
// criterion table pipeline over them, and inspects or exports what the
// store holds. It centralizes configuration resolution, logger setup, and
// store access so subcommands can focus on presentation.
//
// Keep this package lean: new behavior belongs in the internal packages
// first, surfaced here through dedicated commands or flags.
package main
