package types

// Node is an in-memory description of a file or a directory.
// The only implementations are *Leaf and *Directory.
type Node interface {
	isNode()
}

// Leaf holds the content of a single file.
type Leaf struct {
	Content []byte
}

func (*Leaf) isNode() {}

// Entry is a named child of a Directory.
type Entry struct {
	Name string
	Node Node
}

// Directory holds ordered child entries. An empty Directory still
// describes a directory that must exist.
type Directory struct {
	Entries []Entry
}

func (*Directory) isNode() {}

// File returns a Leaf holding content.
func File(content string) *Leaf {
	return &Leaf{Content: []byte(content)}
}

// Dir returns a Directory with the given entries, in order.
func Dir(entries ...Entry) *Directory {
	return &Directory{Entries: entries}
}

// E pairs a name with a node.
func E(name string, node Node) Entry {
	return Entry{Name: name, Node: node}
}

// Add appends a child and returns the directory for chaining.
func (d *Directory) Add(name string, node Node) *Directory {
	d.Entries = append(d.Entries, Entry{Name: name, Node: node})
	return d
}

// Lookup returns the first child with the given name.
func (d *Directory) Lookup(name string) (Node, bool) {
	for _, e := range d.Entries {
		if e.Name == name {
			return e.Node, true
		}
	}
	return nil, false
}

// Len returns the number of direct children.
func (d *Directory) Len() int {
	return len(d.Entries)
}
