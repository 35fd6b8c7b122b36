package chain

import "fmt"

// ConfigError describes a fatal construction-time problem with a
// SupplyChain definition: a duplicate node id, an edge referencing an
// unknown node, a cycle in the BOM, or a non-positive multiplicity.
type ConfigError struct {
	SKU    SKU
	Reason string
}

func (e *ConfigError) Error() string {
	if e.SKU == "" {
		return fmt.Sprintf("chain config error: %s", e.Reason)
	}
	return fmt.Sprintf("chain config error: %s: %s", e.SKU, e.Reason)
}

func newConfigError(sku SKU, reason string) error {
	return &ConfigError{SKU: sku, Reason: reason}
}

// StateError describes a fatal runtime invariant violation detected by
// the simulator's release phase: a release strategy proposing more than
// is on hand, more than a child's outstanding order, or a release to an
// unknown child. Stock levels are not otherwise checked for negative
// values. It names the offending node and the phase in which the
// violation was detected, per spec §7.
type StateError struct {
	Node   SKU
	Phase  string
	Reason string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("chain state error: node %s phase %s: %s", e.Node, e.Phase, e.Reason)
}

func newStateError(node SKU, phase, reason string) error {
	return &StateError{Node: node, Phase: phase, Reason: reason}
}
