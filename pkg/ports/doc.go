/*
Package ports defines the driven ports (interfaces) of calcgame.

These interfaces decouple the game from storage backends, mod sources and the
transports that drive it.

# Key Interfaces

  - SnapshotStore: persists and loads session Snapshots.
  - DistributedLocker: serialises access to a session across replicas.
  - ModLoader: reads operator and function rules declared by mods.
  - GameService: the operations transports (HTTP, MCP) expose for a session.
*/
package ports
