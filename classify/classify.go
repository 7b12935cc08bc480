// Package classify decides which host types are stateful, which operations are
// eligible for sampling and which operations may serve as builder steps.
package classify

import (
	"fmt"
	"strings"

	"alma.local/iogen/catalog"
	"alma.local/iogen/domains"
)

// MutatorPolicy selects how builder-step candidates are chosen.
type MutatorPolicy string

const (
	// PolicyVerbs keeps instance operations whose name is in the verb list.
	PolicyVerbs MutatorPolicy = "verbs"
	// PolicyShape keeps eligible instance operations that look state-changing:
	// void results, self-returning results, or boolean results with arguments.
	PolicyShape MutatorPolicy = "shape"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (MutatorPolicy, error) {
	switch p := MutatorPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyVerbs, PolicyShape:
		return p, nil
	case "":
		return PolicyVerbs, nil
	}
	return "", fmt.Errorf("unknown mutator policy %q", s)
}

// DefaultBlocklist names operations that are never sampled, whatever their shape.
var DefaultBlocklist = []string{
	"removeIf", "replaceAll", "sort", "toArray", "subList", "copyOf", "forEach",
	"ensureCapacity", "trimToSize", "clone", "hashCode", "equals", "repeat", "indent",
}

// DefaultVerbs is the mutator verb list used by PolicyVerbs.
var DefaultVerbs = []string{
	"add", "addLast", "put", "append", "push", "pop", "offer", "offerLast",
	"remove", "removeLast", "clear", "contains", "getLast", "peek", "peekLast",
	"pollLast", "isEmpty", "size", "element",
}

var statefulFamilies = []domains.Family{
	domains.FamilyList, domains.FamilyMap, domains.FamilyBuilder, domains.FamilyQueue,
	domains.FamilyDeque, domains.FamilySet, domains.FamilySortedSet, domains.FamilyStack,
}

// IsStateful reports whether t declares a mutable container or builder
// capability.
func IsStateful(t *catalog.TypeInfo) bool {
	for _, f := range statefulFamilies {
		if t.HasCapability(f) {
			return true
		}
	}
	return false
}

// Classifier holds the configured block-list and mutator policy. It is
// immutable once built, so every method is a pure function of its inputs.
type Classifier struct {
	blocked map[string]struct{}
	policy  MutatorPolicy
	verbs   map[string]struct{}
}

func toSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}

// New builds a classifier. A nil verbs list means DefaultVerbs.
func New(blocklist []string, policy MutatorPolicy, verbs []string) *Classifier {
	if verbs == nil {
		verbs = DefaultVerbs
	}
	if policy == "" {
		policy = PolicyVerbs
	}
	return &Classifier{blocked: toSet(blocklist), policy: policy, verbs: toSet(verbs)}
}

// Default uses DefaultBlocklist and the verb policy.
func Default() *Classifier {
	return New(DefaultBlocklist, PolicyVerbs, nil)
}

func (c *Classifier) Policy() MutatorPolicy { return c.policy }

// Blocked reports whether name is on the block-list.
func (c *Classifier) Blocked(name string) bool {
	_, ok := c.blocked[name]
	return ok
}

func resultEligible(res domains.TypeDescriptor, stateful bool) bool {
	switch {
	case res.Kind == domains.KindIterator:
		return false
	case res.IsPrimitiveOrText():
		return true
	}
	return stateful
}

func paramsEligible(params []domains.TypeDescriptor, stateful bool) bool {
	if stateful {
		return true
	}
	for _, p := range params {
		if !p.IsPrimitiveOrText() {
			return false
		}
	}
	return true
}

// Eligible reports whether op should be sampled, given whether its owner is
// stateful.
func (c *Classifier) Eligible(op *catalog.Operation, stateful bool) bool {
	if c.Blocked(op.Name) {
		return false
	}
	if !resultEligible(op.Result, stateful) {
		return false
	}
	if op.Static {
		return op.Arity() >= 1 && paramsEligible(op.Params, stateful)
	}
	return op.Arity() == 0 || paramsEligible(op.Params, stateful)
}

// EligibleOps filters t's operations, keeping registration order.
func (c *Classifier) EligibleOps(t *catalog.TypeInfo) []*catalog.Operation {
	stateful := IsStateful(t)
	var out []*catalog.Operation
	for _, op := range t.Operations() {
		if c.Eligible(op, stateful) {
			out = append(out, op)
		}
	}
	return out
}

// IsMutator reports whether op may be used as a builder step on an instance
// of owner.
func (c *Classifier) IsMutator(owner *catalog.TypeInfo, op *catalog.Operation) bool {
	if op.Static || c.Blocked(op.Name) || op.Result.Kind == domains.KindIterator {
		return false
	}
	if c.policy == PolicyVerbs {
		_, ok := c.verbs[op.Name]
		return ok
	}
	if !c.Eligible(op, IsStateful(owner)) {
		return false
	}
	switch {
	case op.Result.Kind == domains.KindVoid:
		return true
	case op.Result.Kind == domains.KindContainer && op.Result.Family == owner.Family:
		return true
	case op.Result.Kind == domains.KindBoolean && op.Arity() > 0:
		return true
	}
	return false
}

// Mutators returns the builder-step candidates of t in registration order.
func (c *Classifier) Mutators(t *catalog.TypeInfo) []*catalog.Operation {
	var out []*catalog.Operation
	for _, op := range t.Operations() {
		if c.IsMutator(t, op) {
			out = append(out, op)
		}
	}
	return out
}
