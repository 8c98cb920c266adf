// Package registry provides the per-kind registry of loaded nodes.
//
// A Registry is an arena of slots addressed by generation-checked handles.
// Detaching a node invalidates its slot in O(1) and any later use of the old
// handle is reported as "not found" rather than reaching a different node.
//
// The registry lock only protects the slots themselves. It lets the language
// swap enumerate nodes while loads and unloads keep attaching and detaching;
// it does not serialize loader bookkeeping, which is the execution queue's job.
package registry
