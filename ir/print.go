package ir

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

// String renders the block one statement per line.
func (b *Block) String() string {
	var sb strings.Builder

	sb.WriteString("IRSB {\n")
	for i, ty := range b.temps {
		fmt.Fprintf(&sb, "   t%d:%s\n", i, ty)
	}
	for _, s := range b.Stmts {
		fmt.Fprintf(&sb, "   %s\n", s)
	}
	if b.Next != nil {
		fmt.Fprintf(&sb, "   PUT(%d) = %s; exit-%s\n", b.OffsIP, b.Next, b.JumpKind)
	}
	sb.WriteString("}\n")

	return sb.String()
}

// Tree renders the block grouped by guest instruction.
func (b *Block) Tree(title string) treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("%s (%d stmts, %d temps)", title, len(b.Stmts), len(b.temps)))

	var insn treeprint.Tree
	for _, s := range b.Stmts {
		if m, ok := s.(IMark); ok {
			insn = tree.AddBranch(fmt.Sprintf("0x%x (len %d)", m.Addr, m.Len))
			continue
		}
		if insn == nil {
			tree.AddNode(s.String())
			continue
		}
		insn.AddNode(s.String())
	}

	if b.Next != nil {
		tree.AddMetaNode("next", fmt.Sprintf("%s exit-%s", b.Next, b.JumpKind))
	}

	return tree
}
