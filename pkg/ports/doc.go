/*
Package ports defines the driven ports (interfaces) of the canvas engine.

These interfaces decouple the interaction controllers from the host that owns
persisted state, the platform clipboard and the animation clock. Every
controller depends only on the slice it needs.

# Key Interfaces

  - GraphStore: The document mutation sink holding the live graph snapshot.
  - Notifier: Receives a single "changed" signal once a mutation is final.
  - Clipboard: Platform clipboard text access; may be unavailable at any time.
  - UndoRecorder: Optional recorder of pasted nodes/edges for atomic undo.
  - FrameScheduler: Per-frame callbacks used by viewport animation.
  - DocumentStore: Persistence of whole canvas documents (memory, Redis).
  - DistributedLocker: Cross-replica locking for document writes.
*/
package ports
