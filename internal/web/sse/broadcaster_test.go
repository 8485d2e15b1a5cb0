package sse

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/testutil"
)

func testWizard() *model.Wizard {
	rating := 1500
	return &model.Wizard{
		ID:       "session1",
		EventID:  "winter-open",
		Step:     model.StepPlayer,
		Furthest: model.StepPlayer,
		Draft:    model.NewDraft(),
		Search: model.SearchState{
			Query: "smith",
			Seq:   3,
			Results: []model.CandidateProfile{{
				ID:        "12345678",
				FirstName: "John",
				LastName:  "Smith",
				StateRep:  "CA",
				Ratings:   []model.Rating{{RatingSystem: model.RegularRatingSystem, Rating: &rating}},
			}},
		},
	}
}

func connect(t *testing.T, manager *HubManager, id model.SessionID) *Client {
	t.Helper()
	hub := manager.GetOrCreateHub(id)
	client := NewClient(hub, "127.0.0.1:1234")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)
	return client
}

func receive(t *testing.T, client *Client) string {
	t.Helper()
	select {
	case msg := <-client.send:
		return string(msg)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive message")
		return ""
	}
}

func TestBroadcaster_SearchUpdated(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	w := testWizard()
	client := connect(t, manager, w.ID)

	broadcaster.NotifyWizard(context.Background(), model.WizardEvent{
		Type:      model.EventSearchUpdated,
		SessionID: w.ID,
		EventID:   w.EventID,
	}, w)

	msg := receive(t, client)
	if !strings.HasPrefix(msg, "event: search-updated\n") {
		t.Errorf("unexpected event: %s", msg)
	}
	for _, want := range []string{`id="search-results"`, `hx-swap-oob="true"`, "John Smith", "12345678", "1500"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q: %s", want, msg)
		}
	}
}

func TestBroadcaster_StepChanged(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	w := testWizard()
	w.Step = model.StepContact
	client := connect(t, manager, w.ID)

	broadcaster.NotifyWizard(context.Background(), model.WizardEvent{
		Type:    model.EventStepChanged,
		Payload: model.StepChangedPayload{From: model.StepPlayer, To: model.StepContact},
	}, w)

	msg := receive(t, client)
	if msg != "event: step-changed\ndata: 2\n\n" {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestBroadcaster_Submitted(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	w := testWizard()
	w.Step = model.StepSubmitted
	w.RegistrationID = "reg-1"
	client := connect(t, manager, w.ID)

	broadcaster.NotifyWizard(context.Background(), model.WizardEvent{Type: model.EventSubmitted}, w)

	msg := receive(t, client)
	if msg != "event: submitted\ndata: reg-1\n\n" {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestBroadcaster_OtherSessionsNotNotified(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	other := connect(t, manager, "session2")
	broadcaster.NotifyWizard(context.Background(), model.WizardEvent{Type: model.EventStepChanged}, testWizard())

	select {
	case msg := <-other.send:
		t.Errorf("other session received %q", string(msg))
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBroadcaster_NoHubDoesNotPanic(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	for _, typ := range []model.WizardEventType{model.EventSearchUpdated, model.EventStepChanged, model.EventSubmitted} {
		broadcaster.NotifyWizard(context.Background(), model.WizardEvent{Type: typ}, testWizard())
	}
	if manager.HubCount() != 0 {
		t.Errorf("HubCount() = %d, want 0", manager.HubCount())
	}
}
