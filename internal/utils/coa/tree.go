// Package coa builds the nested chart-of-accounts view from the flat account
// and group tables. The tree is a pure function of its inputs; collapse state
// is a client concern and never stored here.
package coa

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
)

// NodeKind discriminates group nodes from account leaves.
type NodeKind string

const (
	KindGroup   NodeKind = "group"
	KindAccount NodeKind = "account"
)

// Node is one entry of the chart-of-accounts tree. Balance of a group node is
// the recursive sum of its descendant account balances.
type Node struct {
	Kind     NodeKind        `json:"kind"`
	ID       string          `json:"id"`
	Number   string          `json:"number"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Children []*Node         `json:"children,omitempty"`
}

// BuildTree assembles the tree from flat accounts and groups. Roots are groups
// without a parent plus accounts without a group. Children are sorted by
// lexicographic number compare. A visited set guards against parent_id cycles
// in the group table: a group whose parent chain loops is lifted to the root
// rather than recursed into twice.
func BuildTree(accounts []domain.Account, groups []domain.AccountGroup, balances map[string]decimal.Decimal) []*Node {
	groupNodes := make(map[string]*Node, len(groups))
	for _, g := range groups {
		groupNodes[g.GroupID] = &Node{
			Kind:    KindGroup,
			ID:      g.GroupID,
			Number:  g.Number,
			Name:    g.Name,
			Balance: decimal.Zero,
		}
	}

	parents := make(map[string]*string, len(groups))
	for _, g := range groups {
		parents[g.GroupID] = g.ParentID
	}

	var roots []*Node

	// Groups under their parents. Anything on a broken or cyclic parent chain
	// becomes a root instead of being recursed into twice.
	for _, g := range groups {
		node := groupNodes[g.GroupID]
		if g.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := groupNodes[*g.ParentID]
		if !ok || onParentCycle(g.GroupID, parents) {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	// Accounts under their groups, or at the root when ungrouped.
	for _, acc := range accounts {
		node := &Node{
			Kind:    KindAccount,
			ID:      acc.AccountID,
			Number:  acc.Number,
			Name:    acc.Name,
			Balance: balances[acc.AccountID],
		}
		if acc.GroupID != nil {
			if parent, ok := groupNodes[*acc.GroupID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	for _, root := range roots {
		rollUp(root)
	}
	sortNodes(roots)
	return roots
}

// onParentCycle reports whether following the group's parent chain revisits a
// group before reaching a root.
func onParentCycle(groupID string, parents map[string]*string) bool {
	visited := map[string]bool{}
	cur := groupID
	for {
		if visited[cur] {
			return true
		}
		visited[cur] = true
		p, ok := parents[cur]
		if !ok || p == nil {
			return false
		}
		cur = *p
	}
}

// rollUp sums descendant balances into group nodes and sorts children.
func rollUp(n *Node) decimal.Decimal {
	if n.Kind == KindAccount {
		return n.Balance
	}
	total := decimal.Zero
	for _, child := range n.Children {
		total = total.Add(rollUp(child))
	}
	n.Balance = total
	sortNodes(n.Children)
	return total
}

func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Number != nodes[j].Number {
			return nodes[i].Number < nodes[j].Number
		}
		return nodes[i].Name < nodes[j].Name
	})
}

// FilterZero prunes nodes whose balance is zero and which have no surviving
// children. It operates on a copy; the input tree is not mutated.
func FilterZero(nodes []*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		kept := &Node{Kind: n.Kind, ID: n.ID, Number: n.Number, Name: n.Name, Balance: n.Balance}
		kept.Children = FilterZero(n.Children)
		if !kept.Balance.IsZero() || len(kept.Children) > 0 {
			out = append(out, kept)
		}
	}
	return out
}

// Search keeps nodes whose number or name contains the query (case
// insensitive), along with every ancestor of a match. Matching group nodes
// keep their full subtree.
func Search(nodes []*Node, query string) []*Node {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nodes
	}
	var out []*Node
	for _, n := range nodes {
		if strings.Contains(strings.ToLower(n.Number), q) || strings.Contains(strings.ToLower(n.Name), q) {
			out = append(out, n)
			continue
		}
		if kids := Search(n.Children, q); len(kids) > 0 {
			kept := &Node{Kind: n.Kind, ID: n.ID, Number: n.Number, Name: n.Name, Balance: n.Balance, Children: kids}
			out = append(out, kept)
		}
	}
	return out
}
