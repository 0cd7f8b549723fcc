// Package state holds the client-side stores. Each store applies actions through a
// pure reducer and announces every new state on an event bus.
package state

import (
	"fmt"
	"sync"

	"contact_keeper/internal/model"

	evbus "github.com/asaskevich/EventBus"
)

// TopicContactsChanged receives the new ContactState after every dispatch
const TopicContactsChanged = "contacts:changed"

// EmptyContactsMessage is shown instead of a list when the user has no contacts
const EmptyContactsMessage = "Please add a contact"

// ContactState is the client mirror of the user's contacts.
// Filtered is nil when no filter is active; an active filter with no matches is an empty, non-nil slice.
type ContactState struct {
	Contacts []model.Contact
	Current  *model.Contact
	Filtered []model.Contact
	Loading  bool
	Error    string
}

// Visible is what a list view shows: the filtered subset when a filter is active, otherwise everything.
func (s ContactState) Visible() []model.Contact {
	if s.Filtered != nil {
		return s.Filtered
	}
	return s.Contacts
}

// Empty reports whether the empty-state message should replace the list.
func (s ContactState) Empty() bool {
	return len(s.Contacts) == 0
}

func (s ContactState) clone() ContactState {
	out := s
	out.Contacts = cloneContacts(s.Contacts)
	out.Filtered = cloneContacts(s.Filtered)
	if s.Current != nil {
		c := *s.Current
		out.Current = &c
	}
	return out
}

func cloneContacts(in []model.Contact) []model.Contact {
	if in == nil {
		return nil
	}
	out := make([]model.Contact, len(in))
	copy(out, in)
	return out
}

// ContactAction is implemented by every action the contact reducer understands.
type ContactAction interface {
	contactAction()
}

type (
	// FetchContacts replaces the collection with the server's list.
	FetchContacts struct{ Contacts []model.Contact }
	// AddContact appends a contact the server has accepted.
	AddContact struct{ Contact model.Contact }
	// UpdateContact replaces the contact with the same ID in place.
	UpdateContact struct{ Contact model.Contact }
	// DeleteContact removes the contact with ID. Current is left alone.
	DeleteContact struct{ ID string }
	// SetCurrent loads a copy of Contact into the edit cursor.
	SetCurrent struct{ Contact model.Contact }
	ClearCurrent struct{}
	// FilterContacts derives Filtered from the full collection.
	FilterContacts struct{ Text string }
	ClearFilter    struct{}
	// ClearContacts resets the store, used on logout.
	ClearContacts struct{}
	// ContactError records the last failed request.
	ContactError struct{ Msg string }
)

func (FetchContacts) contactAction()  {}
func (AddContact) contactAction()     {}
func (UpdateContact) contactAction()  {}
func (DeleteContact) contactAction()  {}
func (SetCurrent) contactAction()     {}
func (ClearCurrent) contactAction()   {}
func (FilterContacts) contactAction() {}
func (ClearFilter) contactAction()    {}
func (ClearContacts) contactAction()  {}
func (ContactError) contactAction()   {}

// InitialContactState is the state before the first fetch.
func InitialContactState() ContactState {
	return ContactState{Contacts: []model.Contact{}, Loading: true}
}

// ReduceContacts returns the state after applying a. s is never modified.
func ReduceContacts(s ContactState, a ContactAction) ContactState {
	next := s.clone()

	switch a := a.(type) {
	case FetchContacts:
		next.Contacts = cloneContacts(a.Contacts)
		if next.Contacts == nil {
			next.Contacts = []model.Contact{}
		}
		next.Loading = false
	case AddContact:
		next.Contacts = append(next.Contacts, a.Contact)
		next.Loading = false
	case UpdateContact:
		for i := range next.Contacts {
			if next.Contacts[i].ID == a.Contact.ID {
				next.Contacts[i] = a.Contact
			}
		}
		next.Loading = false
	case DeleteContact:
		kept := make([]model.Contact, 0, len(next.Contacts))
		for _, c := range next.Contacts {
			if c.ID != a.ID {
				kept = append(kept, c)
			}
		}
		next.Contacts = kept
		next.Loading = false
	case SetCurrent:
		c := a.Contact
		next.Current = &c
	case ClearCurrent:
		next.Current = nil
	case FilterContacts:
		next.Filtered = FilterContactList(next.Contacts, a.Text)
	case ClearFilter:
		next.Filtered = nil
	case ClearContacts:
		next = InitialContactState()
	case ContactError:
		next.Error = a.Msg
	default:
		panic(fmt.Sprintf("state: unhandled contact action %T", a))
	}
	return next
}

// FilterContactList returns, in order, the contacts whose name or email contains text ignoring case.
// The result is never nil.
func FilterContactList(contacts []model.Contact, text string) []model.Contact {
	out := make([]model.Contact, 0, len(contacts))
	for _, c := range contacts {
		if c.Matches(text) {
			out = append(out, c)
		}
	}
	return out
}

// ContactStore is a mutex guarded ContactState driven by ReduceContacts.
type ContactStore struct {
	mu    sync.RWMutex
	state ContactState
	bus   evbus.Bus
}

func NewContactStore(bus evbus.Bus) *ContactStore {
	return &ContactStore{state: InitialContactState(), bus: bus}
}

// Dispatch applies a and publishes the resulting state on TopicContactsChanged.
func (s *ContactStore) Dispatch(a ContactAction) ContactState {
	s.mu.Lock()
	s.state = ReduceContacts(s.state, a)
	snapshot := s.state.clone()
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(TopicContactsChanged, snapshot.clone())
	}
	return snapshot
}

// State returns a copy of the current state.
func (s *ContactStore) State() ContactState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}
