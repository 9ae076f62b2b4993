package score

import (
	"fmt"

	"github.com/xlab/treeprint"
)

// String returns a tree dump of the score nodes and their assembly state.
func (s *Score) String() string {
	t := treeprint.New()
	root := t.AddBranch(fmt.Sprintf("score %s", joinState(s.join != nil && s.join.Fired(), s.commits > 0)))
	for _, sys := range s.systems {
		sb := root.AddBranch(fmt.Sprintf("system %d [%s] %s", sys.index, sys.conf.Connector,
			joinState(sys.join != nil && sys.join.Fired(), sys.artifact != nil)))
		for _, st := range sys.staves {
			stb := sb.AddBranch(fmt.Sprintf("stave %d %s", st.index,
				joinState(st.join != nil && st.join.Fired(), st.sc != nil)))
			for _, v := range st.voices {
				vb := stb.AddBranch(fmt.Sprintf("voice stem=%s %s", v.conf.Stem,
					joinState(v.join != nil && v.join.Fired(), v.sc != nil)))
				for _, l := range v.leaves {
					switch l := l.(type) {
					case *Tuplet:
						vb.AddNode(fmt.Sprintf("tuplet %s", doneState(l.artifact != nil)))
					case *Beam:
						vb.AddNode(fmt.Sprintf("beam %s", doneState(l.artifact != nil)))
					}
				}
			}
		}
	}
	for _, c := range s.curves {
		root.AddNode(fmt.Sprintf("curve %s→%s %s", c.conf.From, c.conf.To, doneState(c.artifact != nil)))
	}
	return t.String()
}

func joinState(fired, started bool) string {
	switch {
	case fired:
		return "(ready)"
	case started:
		return "(waiting)"
	}
	return "(idle)"
}

func doneState(done bool) string {
	if done {
		return "(built)"
	}
	return "(waiting)"
}
