package tree

import (
	"fmt"
	"io"
	"strings"
)

// Property represents a property of a [Node]. It is a key-value-pair, where
// the value is either a single value or a list of values.
// A single-value property is rendered as `key=value` and a multi-value
// property as `key=(value1, value2, ...)`.
type Property struct {
	// Key is the name of the property.
	Key string
	// Values holds the value(s) of the property.
	Values []any
	// IsMultiValue marks whether the property is a multi-value property.
	IsMultiValue bool
}

// NewProperty creates a new Property with the specified key, multi-value
// flag, and values.
func NewProperty(key string, multi bool, values ...any) Property {
	return Property{
		Key:          key,
		Values:       values,
		IsMultiValue: multi,
	}
}

func (p Property) String() string {
	if p.IsMultiValue {
		values := make([]string, len(p.Values))
		for i, v := range p.Values {
			values[i] = fmt.Sprintf("%v", v)
		}
		return fmt.Sprintf("%s=(%s)", p.Key, strings.Join(values, ", "))
	}
	if len(p.Values) == 1 {
		return fmt.Sprintf("%s=%v", p.Key, p.Values[0])
	}
	return fmt.Sprintf("%s=%v", p.Key, p.Values)
}

// Node represents a node in a tree structure that can be traversed and
// printed by the [Printer]. It allows for building hierarchical
// representations where each node can have multiple properties and multiple
// children.
type Node struct {
	// Name is the display name of the node.
	Name string
	// Properties contains a list of key-value properties associated with the node.
	Properties []Property
	// Children are child nodes of the node.
	Children []*Node
}

// NewNode creates a new node with the given name and properties.
func NewNode(name string, properties ...Property) *Node {
	return &Node{
		Name:       name,
		Properties: properties,
	}
}

// AddChild creates a new node with the given name and properties and adds it
// to the parent node.
func (n *Node) AddChild(name string, properties []Property) *Node {
	child := NewNode(name, properties...)
	n.Children = append(n.Children, child)
	return child
}

// Printer renders a [Node] hierarchy as an indented tree using box-drawing
// characters, in the style of the unix `tree` command.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new Printer instance that writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes the tree representation of root to the printer's writer.
func (p *Printer) Print(root *Node) {
	p.printNode(root, "", "")
}

func (p *Printer) printNode(n *Node, prefix, childPrefix string) {
	line := n.Name
	if len(n.Properties) > 0 {
		props := make([]string, len(n.Properties))
		for i, prop := range n.Properties {
			props[i] = prop.String()
		}
		line = fmt.Sprintf("%s %s", n.Name, strings.Join(props, " "))
	}
	fmt.Fprintf(p.w, "%s%s\n", prefix, line)

	for i, child := range n.Children {
		if i == len(n.Children)-1 {
			p.printNode(child, childPrefix+"└── ", childPrefix+"    ")
		} else {
			p.printNode(child, childPrefix+"├── ", childPrefix+"│   ")
		}
	}
}
