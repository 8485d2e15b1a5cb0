package redis

import (
	"fmt"

	"github.com/mcoot/chessclub/internal/model"
)

// Key prefix for all chess club data
const keyPrefix = "chessclub"

// eventKey returns the Redis key for an Event
func eventKey(id model.EventID) string {
	return fmt.Sprintf("%s:event:%s", keyPrefix, id)
}

// eventsIndexKey returns the Redis key for the SET of all event keys
func eventsIndexKey() string {
	return fmt.Sprintf("%s:idx:events", keyPrefix)
}

// sectionKey returns the Redis key for a Section
func sectionKey(eventID model.EventID, id model.SectionID) string {
	return fmt.Sprintf("%s:section:%s:%s", keyPrefix, eventID, id)
}

// sectionsForEventIndexKey returns the Redis key for the SET of section keys of an event
func sectionsForEventIndexKey(eventID model.EventID) string {
	return fmt.Sprintf("%s:idx:sections_for_event:%s", keyPrefix, eventID)
}

// wizardKey returns the Redis key for a Wizard session
func wizardKey(id model.SessionID) string {
	return fmt.Sprintf("%s:wizard:%s", keyPrefix, id)
}

// wizardKeyPattern matches the keys of every Wizard session
func wizardKeyPattern() string {
	return fmt.Sprintf("%s:wizard:*", keyPrefix)
}

// registrationKey returns the Redis key for a Registration
func registrationKey(id model.RegistrationID) string {
	return fmt.Sprintf("%s:registration:%s", keyPrefix, id)
}

// registrationsForEventIndexKey returns the Redis key for the ZSET of registration
// keys of an event, scored by registration time
func registrationsForEventIndexKey(eventID model.EventID) string {
	return fmt.Sprintf("%s:idx:registrations_for_event:%s", keyPrefix, eventID)
}
