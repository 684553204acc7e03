// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The import pipeline lives here: Resolver maps design references to host
// handles, Builder emits host calls phase by phase, RunAtomic wraps a build
// in one host transaction, and ImportService ties them to the generator.
package services
