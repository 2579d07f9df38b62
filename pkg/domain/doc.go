/*
Package domain contains the core value types shared by every calcgame package.

It is kept pure and free of I/O so that adapters (stores, HTTP, MCP) and the
runtime can depend on it without pulling each other in.

# Key Entities

  - Number: the complex value produced by evaluating an expression.
  - ActionContext: the immutable payload describing what triggered an action.
  - View: what the presentation layer draws after every state change.
  - Snapshot: the persisted form of a session (screen, money, draw log, history metadata).
  - LifecycleHooks: observability callbacks fired by the history and the calculate action.
  - ModRule: an operator or function declared as a formula by a mod.
*/
package domain
