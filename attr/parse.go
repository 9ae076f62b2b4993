package attr

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strconv"
	"strings"
)

// Getter is implemented by declarations which carry attributes.
type Getter interface {
	Attr(key string) (string, bool)
}

// ConfigError is a configuration error for a declared attribute.
// If Fatal is false, a default has been substituted and processing continues.
type ConfigError struct {
	Attr    string // attribute name
	Value   string // declared value
	Reason  string
	Default string // substituted default, if not fatal
	Fatal   bool
}

func (e *ConfigError) Error() string {
	if e.Fatal {
		return fmt.Sprintf("attribute %s=%q: %s", e.Attr, e.Value, e.Reason)
	}
	return fmt.Sprintf("attribute %s=%q: %s; using %q", e.Attr, e.Value, e.Reason, e.Default)
}

func substituted(key, value, reason string, def interface{}) *ConfigError {
	err := &ConfigError{Attr: key, Value: value, Reason: reason, Default: fmt.Sprintf("%v", def)}
	tracer().Infof("%s", err)
	return err
}

// Errors collects configuration errors while parsing a set of attributes.
// A nil *ConfigError is ignored.
type Errors []*ConfigError

// Add appends err to the collection, if err is non-nil.
func (errs *Errors) Add(err *ConfigError) {
	if err != nil {
		*errs = append(*errs, err)
	}
}

// Fatal returns the fatal errors of a collection.
func (errs Errors) Fatal() Errors {
	var fatal Errors
	for _, err := range errs {
		if err.Fatal {
			fatal = append(fatal, err)
		}
	}
	return fatal
}

// String returns the value of an attribute, or def if the attribute is not
// declared or empty.
func String(g Getter, key string, def string) string {
	if v, ok := g.Attr(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// StringOption returns the value of an attribute, if declared and non-empty.
func StringOption(g Getter, key string) Option[string] {
	if v, ok := g.Attr(key); ok && strings.TrimSpace(v) != "" {
		return Just(strings.TrimSpace(v))
	}
	return Nothing[string]()
}

// Int parses an integer attribute. Malformed values are replaced by def.
func Int(g Getter, key string, def int) (int, *ConfigError) {
	n, err := IntOption(g, key)
	return n.WithDefault(def), substitutedIf(err, def)
}

// IntOption parses an integer attribute, if declared.
// Malformed values result in Nothing and a non-fatal error.
func IntOption(g Getter, key string) (Option[int], *ConfigError) {
	v, ok := g.Attr(key)
	if !ok {
		return Nothing[int](), nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return Nothing[int](), &ConfigError{Attr: key, Value: v, Reason: "not an integer", Default: "default"}
	}
	return Just(n), nil
}

// PositiveInt parses an integer attribute which must be at least 1.
func PositiveInt(g Getter, key string, def int) (int, *ConfigError) {
	n, err := Int(g, key, def)
	if err == nil && n < 1 {
		v, _ := g.Attr(key)
		return def, substituted(key, v, "must be positive", def)
	}
	return n, err
}

// Bool parses a boolean attribute. A declared attribute without a value
// counts as true. Malformed values are replaced by def.
func Bool(g Getter, key string, def bool) (bool, *ConfigError) {
	b, err := BoolOption(g, key)
	return b.WithDefault(def), substitutedIf(err, def)
}

// BoolOption parses a boolean attribute, if declared.
func BoolOption(g Getter, key string) (Option[bool], *ConfigError) {
	v, ok := g.Attr(key)
	if !ok {
		return Nothing[bool](), nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "true", strings.ToLower(key):
		return Just(true), nil
	case "false":
		return Just(false), nil
	}
	return Nothing[bool](), &ConfigError{Attr: key, Value: v, Reason: "not a boolean", Default: "default"}
}

// Dimension parses a dimension attribute, in device units if no unit is
// given. A missing attribute or the value "auto" results in Auto. Malformed
// values and values beyond MaxUnits device units result in Auto and a
// non-fatal error.
func Dimension(g Getter, key string) (Dimen, *ConfigError) {
	v, ok := g.Attr(key)
	if !ok {
		return Auto(), nil
	}
	v = strings.TrimSpace(v)
	if v == "" || v == "auto" {
		return Auto(), nil
	}
	du, reason := parseDimen(v)
	if reason != "" {
		return Auto(), substituted(key, v, reason, "auto")
	}
	return JustDimen(du), nil
}

// Enum parses an attribute which has to be one of a set of tokens.
// Unknown tokens are replaced by def, resulting in a non-fatal error.
func Enum(g Getter, key string, tokens []string, def string) (string, *ConfigError) {
	v, ok := g.Attr(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	if t, found := lookupToken(strings.TrimSpace(v), tokens); found {
		return t, nil
	}
	return def, substituted(key, v, "unknown token", def)
}

// EnumOption parses an attribute which has to be one of a set of tokens, if
// declared. Unknown tokens result in Nothing and a fatal error.
func EnumOption(g Getter, key string, tokens []string) (Option[string], *ConfigError) {
	v, ok := g.Attr(key)
	if !ok || strings.TrimSpace(v) == "" {
		return Nothing[string](), nil
	}
	if t, found := lookupToken(strings.TrimSpace(v), tokens); found {
		return Just(t), nil
	}
	err := &ConfigError{Attr: key, Value: v, Reason: "unknown token", Fatal: true}
	tracer().Errorf("%s", err)
	return Nothing[string](), err
}

// lookupToken matches case-insensitively and returns the canonical token.
func lookupToken(v string, tokens []string) (string, bool) {
	for _, t := range tokens {
		if strings.EqualFold(v, t) {
			return t, true
		}
	}
	return "", false
}

func substitutedIf(err *ConfigError, def interface{}) *ConfigError {
	if err == nil {
		return nil
	}
	return substituted(err.Attr, err.Value, err.Reason, def)
}
