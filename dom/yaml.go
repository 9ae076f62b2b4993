package dom

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// A YAML document mirrors the markup vocabulary:
//
//	score:
//	  width: 600
//	  systems:
//	    - connector: brace
//	      staves:
//	        - clef: treble
//	          voices:
//	            - autoBeam: true
//	              content:
//	                - "C5/q, B4"
//	                - tuplet: "B4/8, A4, G4"
//	                  beamed: true
//	                - beam: "C4/16, D4, E4, F4"
//	  curves:
//	    - from: n1
//	      to: n2
//
// Any scalar key which is not a nested collection becomes an attribute.

type yamlDocument struct {
	Score *yamlScore `yaml:"score"`
}

type yamlScore struct {
	Attrs   map[string]interface{}   `yaml:",inline"`
	Systems []yamlSystem             `yaml:"systems"`
	Curves  []map[string]interface{} `yaml:"curves"`
}

type yamlSystem struct {
	Attrs  map[string]interface{} `yaml:",inline"`
	Staves []yamlStave            `yaml:"staves"`
}

type yamlStave struct {
	Attrs  map[string]interface{} `yaml:",inline"`
	Voices []yamlVoice            `yaml:"voices"`
}

type yamlVoice struct {
	Attrs   map[string]interface{} `yaml:",inline"`
	Content []yaml.Node            `yaml:"content"`
}

// ParseYAML reads a document in YAML notation and returns its score element.
func ParseYAML(r io.Reader) (*Element, error) {
	var doc yamlDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot parse YAML score: %w", err)
	}
	if doc.Score == nil {
		return nil, ErrNoScore
	}
	score := NewElement(KindScore, stringify(doc.Score.Attrs))
	for _, ysys := range doc.Score.Systems {
		system := NewElement(KindSystem, stringify(ysys.Attrs))
		score.Append(system)
		for _, yst := range ysys.Staves {
			stave := NewElement(KindStave, stringify(yst.Attrs))
			system.Append(stave)
			for _, yv := range yst.Voices {
				voice := NewElement(KindVoice, stringify(yv.Attrs))
				stave.Append(voice)
				if err := appendContent(voice, yv.Content); err != nil {
					return nil, err
				}
			}
		}
	}
	for _, c := range doc.Score.Curves {
		score.Append(NewElement(KindCurve, stringify(c)))
	}
	return score, nil
}

func appendContent(voice *Element, content []yaml.Node) error {
	for i := range content {
		n := &content[i]
		switch n.Kind {
		case yaml.ScalarNode:
			voice.Append(NewText(n.Value))
		case yaml.MappingNode:
			var m map[string]interface{}
			if err := n.Decode(&m); err != nil {
				return fmt.Errorf("line %d: %w", n.Line, err)
			}
			attrs := stringify(m)
			var kind Kind
			var notes string
			if v, ok := attrs["tuplet"]; ok {
				kind, notes = KindTuplet, v
				delete(attrs, "tuplet")
			} else if v, ok := attrs["beam"]; ok {
				kind, notes = KindBeam, v
				delete(attrs, "beam")
			} else {
				return fmt.Errorf("line %d: voice content must be notes, a tuplet or a beam", n.Line)
			}
			voice.Append(NewElement(kind, attrs).Append(NewText(notes)))
		default:
			return fmt.Errorf("line %d: voice content must be notes, a tuplet or a beam", n.Line)
		}
	}
	return nil
}

func stringify(m map[string]interface{}) map[string]string {
	attrs := make(map[string]string, len(m))
	for k, v := range m {
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			tracer().Infof("ignoring nested YAML value for key %q", k)
			continue
		case nil:
			attrs[k] = ""
		default:
			attrs[k] = fmt.Sprint(v)
		}
	}
	return attrs
}
