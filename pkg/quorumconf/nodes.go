package quorumconf

import ast "github.com/honeybbq/corosyncconf/pkg/ast/corosync"

// NodeAddress is one cluster member as declared in a nodelist node section.
// Fields are empty when the corresponding attribute is absent.
type NodeAddress struct {
	Ring0Addr string
	Ring1Addr string
	Name      string
	ID        string
}

// Label returns the most specific identifier available for display:
// name, then ring0 address, then node id.
func (n NodeAddress) Label() string {
	switch {
	case n.Name != "":
		return n.Name
	case n.Ring0Addr != "":
		return n.Ring0Addr
	default:
		return n.ID
	}
}

// NodeAddressList is the ordered projection of every node section across
// all nodelist sections, in document order.
type NodeAddressList []NodeAddress

// IDs returns the non-empty node ids in list order.
func (l NodeAddressList) IDs() []string {
	ids := make([]string, 0, len(l))
	for _, node := range l {
		if node.ID != "" {
			ids = append(ids, node.ID)
		}
	}
	return ids
}

// nodesFromConfig projects nodelist/node sections into addresses. When an
// attribute repeats within one node section, the last occurrence wins.
func nodesFromConfig(config *ast.Section) NodeAddressList {
	var result NodeAddressList
	for _, nodelist := range config.SectionsByName("nodelist") {
		for _, node := range nodelist.SectionsByName("node") {
			var addr NodeAddress
			for _, attr := range node.Attributes() {
				switch attr.Name {
				case "ring0_addr":
					addr.Ring0Addr = attr.Value
				case "ring1_addr":
					addr.Ring1Addr = attr.Value
				case "name":
					addr.Name = attr.Value
				case "nodeid":
					addr.ID = attr.Value
				}
			}
			result = append(result, addr)
		}
	}
	return result
}
