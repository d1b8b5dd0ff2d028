// Package output persists the final cross-join artifact and the
// failure diagnostics table.
package output

import (
	"github.com/retailops/common-items/pkg/intersect"
)

// Sink is the persistence collaborator. Implementations must write
// rows in exactly the order given: the cross join is emitted with the
// sorted stores as the outer loop and sorted items inner, and the
// diagnostics table keeps its ranking order.
type Sink interface {
	// WriteResult persists the (store, item) cross product and returns
	// the artifact path.
	WriteResult(stores, items []string) (string, error)
	// WriteDiagnostics persists the per-store item counts and returns
	// the artifact path.
	WriteDiagnostics(counts []intersect.StoreCount) (string, error)
}
