/*
Package domain contains the core data model of the canvas interaction engine.

It defines the graph document (Nodes and Edges), the coordinate types shared by
every controller, and the transient interaction snapshots (Viewport, Selection,
ClipboardDocument). This package is kept pure and free of I/O, following
Hexagonal Architecture principles: controllers mutate these values and hand new
snapshots to the ports.

# Key Entities

  - Node: A positioned unit of the workflow graph. Frame nodes group other nodes.
  - Edge: A directed, non-owning relation between two node ports.
  - Graph: An immutable-by-convention snapshot of nodes and edges.
  - Viewport: Zoom factor and pan offset that map canvas space to screen space.
  - ClipboardDocument: The portable, versioned serialization of a copied selection.
*/
package domain
