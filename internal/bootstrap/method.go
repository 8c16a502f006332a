package bootstrap

import (
	"fmt"

	"intersectomics/domain/core"
)

// Method identifies the pairwise similarity measure used inside each
// bootstrap iteration.
type Method string

const (
	MethodSpearman Method = "spearman"

	// Reserved values. These share the contract shape (symmetric
	// correlation + p-value matrices) but are not implemented yet.
	MethodPearson   Method = "pearson"
	MethodEuclidean Method = "euclidean"
)

// Validate rejects unknown and not-yet-implemented methods.
func (m Method) Validate() error {
	switch m {
	case MethodSpearman:
		return nil
	case MethodPearson, MethodEuclidean:
		return fmt.Errorf("%w: %q is reserved but not implemented", core.ErrUnsupportedMethod, m)
	default:
		return fmt.Errorf("%w: %q", core.ErrUnsupportedMethod, m)
	}
}
