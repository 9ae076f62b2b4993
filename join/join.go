package join

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

// Join waits for a set of children, identified by keys of type K, each of
// which delivers an artifact of type A.
//
// A Join is not safe for concurrent use; all calls have to happen on the
// same dispatch timeline.
type Join[K comparable, A any] struct {
	name      string
	order     []K          // registration order
	expected  map[K]bool   // registered children
	done      map[K]A      // completion map
	pending   int          // #registered - #completed, may be transiently negative
	holds     map[string]bool
	sealed    bool
	fired     bool
	cancelled bool
	onReady   func(artifacts []A)
}

// New creates a join. onReady will be called exactly once, with the
// artifacts of all registered children in registration order.
func New[K comparable, A any](name string, onReady func(artifacts []A)) *Join[K, A] {
	return &Join[K, A]{
		name:     name,
		expected: make(map[K]bool),
		done:     make(map[K]A),
		holds:    make(map[string]bool),
		onReady:  onReady,
	}
}

// Name returns the name of the join, as given to New.
func (j *Join[K, A]) Name() string {
	return j.name
}

// Expect registers children in declaration order.
// Registering a child twice, or registering after Seal, panics.
func (j *Join[K, A]) Expect(children ...K) {
	for _, ch := range children {
		if j.sealed {
			protocolViolation(j.name, ch, "registration after seal")
		}
		if j.expected[ch] {
			protocolViolation(j.name, ch, "duplicate registration")
		}
		j.expected[ch] = true
		j.order = append(j.order, ch)
		j.pending++
	}
	tracer().Debugf("join %s: expecting %d children, %d pending", j.name, len(j.order), j.pending)
}

// Seal marks the registration as finished. Every child which completed early
// has to be registered by now.
func (j *Join[K, A]) Seal() {
	if j.sealed {
		protocolViolation(j.name, nil, "sealed twice")
	}
	for ch := range j.done {
		if !j.expected[ch] {
			protocolViolation(j.name, ch, "completion from unregistered child")
		}
	}
	j.sealed = true
	tracer().Debugf("join %s: sealed with %d children, %d pending", j.name, len(j.order), j.pending)
	j.tryFire()
}

// Complete stores the artifact of a child and counts it as done.
// A child may complete before it is registered, but not after Seal
// without having been registered. A child may complete only once.
func (j *Join[K, A]) Complete(child K, artifact A) {
	if _, dup := j.done[child]; dup {
		protocolViolation(j.name, child, "duplicate completion")
	}
	if j.sealed && !j.expected[child] {
		protocolViolation(j.name, child, "completion from unregistered child")
	}
	j.done[child] = artifact
	j.pending--
	tracer().Debugf("join %s: child completed, %d pending", j.name, j.pending)
	j.tryFire()
}

// Hold places an additional precondition on the join. The join will not fire
// before the hold has been released. Holds are identified by name.
func (j *Join[K, A]) Hold(name string) {
	if j.fired {
		protocolViolation(j.name, nil, "hold %q placed after firing", name)
	}
	j.holds[name] = true
}

// Release releases a hold placed by Hold. Releasing a hold which is not
// placed is a no-op.
func (j *Join[K, A]) Release(name string) {
	if !j.holds[name] {
		return
	}
	delete(j.holds, name)
	j.tryFire()
}

// Cancel disables the join. It will never fire after Cancel.
func (j *Join[K, A]) Cancel() {
	j.cancelled = true
	j.onReady = nil
}

// Pending returns the number of registered children which have not yet
// completed, minus the number of early completions of unregistered children.
func (j *Join[K, A]) Pending() int {
	return j.pending
}

// Sealed returns true if registration is finished.
func (j *Join[K, A]) Sealed() bool {
	return j.sealed
}

// Ready is true if all preconditions for firing are met.
func (j *Join[K, A]) Ready() bool {
	return j.sealed && j.pending == 0 && len(j.holds) == 0 && !j.cancelled
}

// Fired returns true if the join has fired.
func (j *Join[K, A]) Fired() bool {
	return j.fired
}

// Children returns the registered children in registration order.
func (j *Join[K, A]) Children() []K {
	return append([]K(nil), j.order...)
}

// Artifact returns the artifact a child has completed with.
func (j *Join[K, A]) Artifact(child K) (A, bool) {
	a, ok := j.done[child]
	return a, ok
}

// Ordered returns the artifacts of all registered children in registration
// order. It panics if called before the join is ready.
func (j *Join[K, A]) Ordered() []A {
	if !j.sealed || j.pending != 0 {
		protocolViolation(j.name, nil, "ordered artifacts requested before completion")
	}
	artifacts := make([]A, 0, len(j.order))
	for _, ch := range j.order {
		artifacts = append(artifacts, j.done[ch])
	}
	return artifacts
}

func (j *Join[K, A]) tryFire() {
	if j.fired || !j.Ready() {
		return
	}
	j.fired = true
	tracer().Infof("join %s: all %d children complete", j.name, len(j.order))
	if j.onReady != nil {
		j.onReady(j.Ordered())
	}
}
