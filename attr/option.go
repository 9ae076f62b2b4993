package attr

/*
type Option a
	= Just a
	| Nothing
*/

// Option is an optional value. A zero Option is Nothing.
type Option[T any] struct {
	value T
	tag   bool
}

// Just creates an Option holding x.
func Just[T any](x T) Option[T] {
	return Option[T]{value: x, tag: true}
}

// Nothing creates an empty Option.
func Nothing[T any]() Option[T] {
	return Option[T]{}
}

// IsNothing is true for an empty Option.
func (o Option[T]) IsNothing() bool {
	return !o.tag
}

// WithDefault returns the value of o, or def if o is Nothing.
func (o Option[T]) WithDefault(def T) T {
	if o.tag {
		return o.value
	}
	return def
}

// Or returns o if it holds a value, alt otherwise.
func (o Option[T]) Or(alt Option[T]) Option[T] {
	if o.tag {
		return o
	}
	return alt
}

// Match starts a match expression over o:
//
//     var n int
//     switch m := opt.Match(); m {
//     case m.Just(&n):
//         …
//     case m.Nothing():
//         …
//     }
//
func (o Option[T]) Match() Matcher[T] {
	return matcher[T]{o: o}
}

// Matcher is a helper type for switch-based matching of Options.
type Matcher[T any] interface {
	Just(*T) Matcher[T]
	Nothing() Matcher[T]
}

type matcher[T any] struct {
	o Option[T]
}

func (mm matcher[T]) Just(v *T) Matcher[T] {
	if mm.o.tag {
		if v != nil {
			*v = mm.o.value
		}
		return mm
	}
	return nil
}

func (mm matcher[T]) Nothing() Matcher[T] {
	if !mm.o.tag {
		return mm
	}
	return nil
}

// Map applies f to the value of x, if present.
func Map[T, S any](f func(T) S, x Option[T]) Option[S] {
	var v T
	switch m := x.Match(); m {
	case m.Just(&v):
		return Just(f(v))
	}
	return Nothing[S]()
}
