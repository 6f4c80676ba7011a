// ABOUTME: Persona captures the data-driven personality records loaded from JSON
// ABOUTME: Behavior is parameterized by trait fields, never by type hierarchy
package persona

import (
	"fmt"
	"strings"
)

// ConversationalDNA describes how a persona speaks.
type ConversationalDNA struct {
	Tone            string `json:"tone"`
	Style           string `json:"style"`
	ResponsePattern string `json:"response_pattern"`
}

// Persona is a read-only personality record valid within one mode.
type Persona struct {
	Name         string            `json:"name"`
	Role         string            `json:"role"`
	CoreIdentity string            `json:"core_identity"`
	DNA          ConversationalDNA `json:"conversational_dna"`
	UniqueTraits []string          `json:"unique_traits"`
	NeverDoes    []string          `json:"never_does"`
	MoodCapable  bool              `json:"mood_capable"`
}

// Technical reports whether this persona specializes in code and task
// execution and therefore always gets the technical token budget.
func (p *Persona) Technical() bool {
	name := strings.ToLower(p.Name)
	return name == "sage" || name == "rebel"
}

// Instructions renders the persona's system-prompt identity block from
// its JSON fields. Any persona record renders through this one path.
func (p *Persona) Instructions() string {
	var b strings.Builder

	fmt.Fprintf(&b, "IDENTITY:\nYou are %s.\nRole: %s\nCore Identity: %s\n\n", p.Name, p.Role, p.CoreIdentity)

	b.WriteString("CONVERSATIONAL DNA:\n")
	if p.DNA.Tone != "" {
		fmt.Fprintf(&b, "- Tone: %s\n", p.DNA.Tone)
	}
	if p.DNA.Style != "" {
		fmt.Fprintf(&b, "- Style: %s\n", p.DNA.Style)
	}
	if p.DNA.ResponsePattern != "" {
		fmt.Fprintf(&b, "- Response Pattern: %s\n", p.DNA.ResponsePattern)
	}

	if len(p.UniqueTraits) > 0 {
		b.WriteString("\nBEHAVIORAL GUIDELINES:\n")
		for _, t := range p.UniqueTraits {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}

	if len(p.NeverDoes) > 0 {
		b.WriteString("\nCONSTRAINTS (NEVER DO):\n")
		for _, n := range p.NeverDoes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}

	return b.String()
}

// Moods available to mood-capable personas.
var AvailableMoods = []string{
	"witty",
	"sarcastic",
	"philosophical",
	"empathetic",
	"cheeky",
	"poetic",
	"inspired",
	"melancholic",
}

// ValidMood reports whether name is a recognized mood.
func ValidMood(name string) bool {
	for _, m := range AvailableMoods {
		if m == name {
			return true
		}
	}
	return false
}
