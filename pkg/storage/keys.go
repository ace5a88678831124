package storage

import "strings"

const (
	defaultNamespace = "pos"

	cartPrefix         = "cart"
	activeTablePrefix  = "active_table"
	recentOrdersPrefix = "recent_orders"
)

// Keys builds namespaced storage keys per terminal.
type Keys struct {
	Namespace string
}

// Cart returns the key holding a terminal's cart snapshot.
func (k Keys) Cart(terminalID string) string {
	return k.build(cartPrefix, terminalID)
}

// ActiveTable returns the key holding a terminal's cached table.
func (k Keys) ActiveTable(terminalID string) string {
	return k.build(activeTablePrefix, terminalID)
}

// RecentOrders returns the key holding a terminal's order history.
func (k Keys) RecentOrders(terminalID string) string {
	return k.build(recentOrdersPrefix, terminalID)
}

func (k Keys) build(parts ...string) string {
	ns := strings.TrimSpace(k.Namespace)
	if ns == "" {
		ns = defaultNamespace
	}
	clean := []string{ns}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		clean = append(clean, part)
	}
	return strings.Join(clean, ":")
}
