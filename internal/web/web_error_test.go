package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/chessclub/internal/factory"
)

func TestUnknownPageNotFound(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/no/such/page")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "h1", "Page Not Found")
}

func TestUnknownEventNotFound(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get(registerPath("no-such-event"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, ts.cookies.sessionID("no-such-event"))
}

func TestClosedEventShowsClosedPage(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get(registerPath(string(factory.TestClosedEventID)))
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, `section.registration-closed[data-status="closed"]`)
	assertNotContainsElement(t, doc, "#wizard")
	assert.Empty(t, ts.cookies.sessionID(string(factory.TestClosedEventID)))
}

func TestPastEventShowsClosedPage(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get(registerPath(string(factory.TestPastEventID)))
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsElement(t, doc, `section.registration-closed[data-status="past"]`)
	assertContainsText(t, doc, ".registration-closed", "already taken place")
}

func TestWizardActionWithoutSessionRedirects(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post(registerPath(eventID)+"/contact", url.Values{"email": {"john@example.com"}})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, registerPath(eventID), rr.Header().Get("Location"))

	rr = ts.postHTMX(registerPath(eventID)+"/contact", url.Values{"email": {"john@example.com"}})
	assert.Equal(t, registerPath(eventID), rr.Header().Get("HX-Redirect"))
}

func TestFlashMessageDisplayedOnError(t *testing.T) {
	ts := newWebTestServer(t)
	ts.startRegistration(eventID)
	ts.selectPlayer(eventID, "Smith", "12345678")

	// Plain form post, as without JavaScript
	form := url.Values{"email": {"not-an-email"}, "notification_preference": {"email"}}
	rr := ts.post(registerPath(eventID)+"/contact", form)
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	rr = ts.followRedirect(rr)
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-error", "valid email")
	assert.Equal(t, "2", activeStep(doc))
	email, _ := doc.Find(`input[name="email"]`).Attr("value")
	assert.Equal(t, "not-an-email", email)
}

func TestPlainFormPostAdvancesWizard(t *testing.T) {
	ts := newWebTestServer(t)
	ts.startRegistration(eventID)
	ts.selectPlayer(eventID, "Smith", "12345678")

	form := url.Values{"email": {"john@example.com"}}
	rr := ts.post(registerPath(eventID)+"/contact", form)
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	doc := parseHTML(ts.followRedirect(rr).Body)
	assert.Equal(t, "3", activeStep(doc))
	assertNotContainsElement(t, doc, ".flash")
}

func TestStepEditOutOfRangeShowsError(t *testing.T) {
	ts := newWebTestServer(t)
	ts.startRegistration(eventID)

	_, doc := ts.wizardAction(eventID, "/steps/4/edit", nil)
	assert.Equal(t, "1", activeStep(doc))
	assertContainsElement(t, doc, ".form-error")
}
