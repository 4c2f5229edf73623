// Package splitengine implements the royalty split engine for Prism.
//
// The module owns the split, payout-audit, pending-balance, and earnings
// tables and exposes HTTP command/query handlers plus the worker outbox
// relay entrypoint.
package splitengine
