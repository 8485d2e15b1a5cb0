package storage

import (
	"cmp"
	"slices"

	"github.com/mcoot/chessclub/internal/model"
)

// SortEvents orders events by date, then ID
func SortEvents(events []*model.Event) {
	slices.SortFunc(events, func(a, b *model.Event) int {
		if c := a.EventDate.Compare(b.EventDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// SortSections orders sections by sort order, then name
func SortSections(sections []*model.Section) {
	slices.SortFunc(sections, func(a, b *model.Section) int {
		if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// SortRegistrationsNewestFirst orders registrations by registration time, newest first
func SortRegistrationsNewestFirst(regs []*model.Registration) {
	slices.SortFunc(regs, func(a, b *model.Registration) int {
		if c := b.RegisteredAt.Compare(a.RegisteredAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
