// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - HostDocument: The building model designs are applied to
//   - HostSession / HostTransaction: Primitive construction operations
//   - DesignCodec: Request and response wire format
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DesignGenerator: Without it, only file and inline imports work.
//   - ImportHistoryStore: Without it, import outcomes are not recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
