package parser

import "github.com/oarkflow/questdbsql/lexer"

// Node is a concrete syntax tree node (spec 3): lossless, every consumed
// token appears either directly in Children or inside a nested *Node.
// A Node may be partial when built under error recovery.
type Node struct {
	Rule     string
	Children []any // lexer.Token or *Node
}

func newNode(rule string) *Node {
	return &Node{Rule: rule}
}

func (n *Node) addToken(tok lexer.Token) {
	n.Children = append(n.Children, tok)
}

func (n *Node) addChild(c *Node) {
	if c == nil {
		return
	}
	n.Children = append(n.Children, c)
}

// Tokens returns every lexer.Token directly or transitively under n, in
// source order — used to verify CST losslessness in tests.
func (n *Node) Tokens() []lexer.Token {
	var out []lexer.Token
	var walk func(*Node)
	walk = func(node *Node) {
		for _, c := range node.Children {
			switch v := c.(type) {
			case lexer.Token:
				out = append(out, v)
			case *Node:
				walk(v)
			}
		}
	}
	walk(n)
	return out
}
