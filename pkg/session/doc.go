/*
Package session serialises access to stored game sessions.

A Manager wraps a ports.SnapshotStore with per-session locks, reference counted
so they do not outlive their users, and optionally a ports.DistributedLocker so
that several processes can share one store.
*/
package session
