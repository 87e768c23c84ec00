/*
Package types defines the core data structures used throughout the harness.

This package contains the fundamental types representing the harness domain
model: cluster roles and role sets, node volumes, credentials, the persisted
node/cluster specs, and the typed errors surfaced by remote command
execution. These types are used by all other packages for cluster modeling,
snapshotting, and command routing.
*/
package types
