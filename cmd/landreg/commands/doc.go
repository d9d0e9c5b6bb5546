// Package commands defines the landreg CLI and wires dependencies for subcommands.
//
// Commands
//
//   - parcel <id>              Show a parcel (view function, else registry table)
//   - next-id                  Show the registry's next parcel id
//   - submit                   File a new land claim
//   - approve|reject|dispute   Change a parcel's status
//   - transfer <id> <address>  Transfer a parcel to a new owner
//   - wallet init|import|address
//
// # Implementation
//
// The root command loads configuration (defaults, YAML file, LANDREG_*
// environment, flags) and a logger tagged with a per-invocation id before any
// subcommand runs. Commands that talk to a node build the dependency graph
// lazily through app.NewWire; wallet management only touches the keystore.
// Metrics are flushed to --metrics-file when the command finishes, whether
// or not it succeeded.
package commands
