package keytip

// State is the mode of one binding. The zero value is inactive.
type State struct {
	Active    bool
	Path      []string
	Current   *Node
	Available []*Node
}

func inactive() State { return State{} }

func activeAt(path []string, n *Node) State {
	return State{
		Active:    true,
		Path:      path,
		Current:   n,
		Available: AvailableKeys(n),
	}
}

// Option is one selectable entry in the overlay.
type Option struct {
	Key     string `json:"key" yaml:"key"`
	Label   string `json:"label" yaml:"label"`
	Caption string `json:"caption" yaml:"caption"`
}

// Snapshot is the presentation view of a State.
type Snapshot struct {
	Active  bool     `json:"active" yaml:"active"`
	Prefix  string   `json:"prefix" yaml:"prefix"`
	Path    []string `json:"path" yaml:"path"`
	Options []Option `json:"options" yaml:"options"`
}

// Project builds the snapshot for s. prefix is the activation modifier label.
func Project(s State, prefix string) Snapshot {
	snap := Snapshot{Active: s.Active, Prefix: prefix}
	if !s.Active {
		return snap
	}
	snap.Path = append([]string(nil), s.Path...)
	snap.Options = make([]Option, 0, len(s.Available))
	for _, n := range s.Available {
		snap.Options = append(snap.Options, Option{Key: n.Key(), Label: n.Label(), Caption: n.Caption()})
	}
	return snap
}
