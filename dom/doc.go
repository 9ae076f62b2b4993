/*
Package dom provides the declarative document a score is built from.

A document is a tree of elements: a score holds systems and curves, a system
holds staves, a stave holds voices and a voice holds note text, tuplets and
beams. Tuplets and beams hold note text.

    <vf-score width="600" systemsPerLine="2">
      <vf-system connector="brace">
        <vf-stave clef="treble" timeSig="4/4">
          <vf-voice autoBeam>
            C5/q, B4
            <vf-tuplet beamed>B4/8, A4, G4</vf-tuplet>
            <vf-beam>C4/16, D4, E4, F4</vf-beam>
          </vf-voice>
        </vf-stave>
      </vf-system>
      <vf-curve from="n1" to="n2"></vf-curve>
    </vf-score>

Documents are parsed from markup (ParseMarkup) or from YAML (ParseYAML).

Tree Implementation

Elements are built on top of the general purpose tree type of package tree.
Go resorts to composition instead of subclassing, thus every element includes
a generic tree node, with the payload referencing the element itself.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'engrave.dom'.
func tracer() tracing.Trace {
	return tracing.Select("engrave.dom")
}
