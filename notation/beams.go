package notation

// DefaultBeamGroup is the default beam grouping: two eighths, i.e. one
// quarter beat.
var DefaultBeamGroup = Frac(2, 8)

// BeamGroupsFor returns the beam grouping for a time signature. Compound
// meters group in dotted quarters, everything else in quarters.
func BeamGroupsFor(ts TimeSig) Fraction {
	if ts.Value == 8 && ts.Beats%3 == 0 && ts.Beats > 3 {
		return Frac(3, 8)
	}
	return DefaultBeamGroup
}

// GenerateBeams partitions notes into runs to be beamed together.
// group is the length of a beam group, as a fraction of a whole note.
// Runs are cut at group boundaries and at notes which cannot be beamed;
// only runs of at least two notes are returned.
func GenerateBeams(notes []*Note, group Fraction) [][]*Note {
	groupTicks := group.Mul(Ticks(Resolution))
	if groupTicks.IsZero() {
		groupTicks = DefaultBeamGroup.Mul(Ticks(Resolution))
	}
	var groups [][]*Note
	var current []*Note
	acc := Ticks(0)
	flush := func() {
		groups = append(groups, current)
		current = nil
		acc = Ticks(0)
	}
	for _, n := range notes {
		if acc.Add(n.ticks).Cmp(groupTicks) > 0 {
			flush()
		}
		current = append(current, n)
		acc = acc.Add(n.ticks)
		for acc.Cmp(groupTicks) >= 0 {
			rest := acc.Sub(groupTicks)
			flush()
			acc = rest
		}
	}
	if len(current) > 0 {
		flush()
	}
	var runs [][]*Note
	for _, g := range groups {
		var run []*Note
		for _, n := range g {
			if n.Beamable() {
				run = append(run, n)
				continue
			}
			if len(run) > 1 {
				runs = append(runs, run)
			}
			run = nil
		}
		if len(run) > 1 {
			runs = append(runs, run)
		}
	}
	return runs
}
