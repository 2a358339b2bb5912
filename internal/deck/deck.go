// Package deck holds the in-memory card collection: subjects containing
// sets containing cards, in stored order. The scheduler operates on the
// cards of one set; persistence and interchange move whole collections.
package deck

import (
	"lernbox/internal/card"
)

// Subject groups related sets.
type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Sets []*Set `json:"sets"`
}

// Set is one learnable unit of cards. Card order inside a set is the
// stored order that sequential mode preserves.
type Set struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Cards []*card.Card `json:"tasks"`
}

// Collection is the root of the nested structure.
type Collection struct {
	Subjects []*Subject `json:"subjects"`
}

// FindSubject returns the subject with the given ID, or nil.
func (c *Collection) FindSubject(id string) *Subject {
	for _, s := range c.Subjects {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// FindSet returns the set with the given ID and its owning subject, or nils.
func (c *Collection) FindSet(id string) (*Subject, *Set) {
	for _, subj := range c.Subjects {
		for _, set := range subj.Sets {
			if set.ID == id {
				return subj, set
			}
		}
	}
	return nil, nil
}

// FindCard returns the card with the given ID and its owning set, or nils.
func (c *Collection) FindCard(id string) (*Set, *card.Card) {
	for _, subj := range c.Subjects {
		for _, set := range subj.Sets {
			for _, cd := range set.Cards {
				if cd.ID == id {
					return set, cd
				}
			}
		}
	}
	return nil, nil
}

// AllCards returns every card in the collection in stored order.
func (c *Collection) AllCards() []*card.Card {
	var out []*card.Card
	for _, subj := range c.Subjects {
		for _, set := range subj.Sets {
			out = append(out, set.Cards...)
		}
	}
	return out
}

// StatusCounts tallies the cards of a set per status, treating absent
// scheduling state as new.
func (s *Set) StatusCounts() map[card.Status]int {
	counts := make(map[card.Status]int)
	for _, cd := range s.Cards {
		counts[cd.Status()]++
	}
	return counts
}

// LearnedCount returns how many cards of the set are retired from rotation.
func (s *Set) LearnedCount() int {
	n := 0
	for _, cd := range s.Cards {
		if cd.Status().Retired() {
			n++
		}
	}
	return n
}
