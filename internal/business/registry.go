// Package business provides static fact providers for known business
// domains. Profiles are resolved through a registry populated at init
// time; unknown domains fall back to a generic profile. No reflection
// or dynamic class lookup is involved.
package business

import "sort"

// Profile answers simple factual questions for one business domain from
// built-in lookup tables, before the assistant falls back to retrieval.
type Profile interface {
	// Domain returns the domain tag this profile serves.
	Domain() string

	// Answer tries to resolve the utterance from static facts.
	// The boolean is false when the utterance needs the knowledge base.
	Answer(utterance string) (string, bool)
}

var registry = map[string]func() Profile{}

// register adds a profile constructor for a domain tag.
// Called from init functions of the per-domain files.
func register(tag string, ctor func() Profile) {
	registry[tag] = ctor
}

// ForDomain returns the profile registered for tag, or a generic
// profile when the tag is unknown.
func ForDomain(tag string) Profile {
	if ctor, ok := registry[tag]; ok {
		return ctor()
	}
	return &genericProfile{domain: tag}
}

// Registered lists the domain tags with a dedicated profile, sorted.
func Registered() []string {
	tags := make([]string, 0, len(registry))
	for tag := range registry {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
