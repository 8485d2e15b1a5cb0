package web_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/chessclub/internal/factory"
	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/web"
	"github.com/mcoot/chessclub/internal/web/middleware"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
// and the test events and members loaded
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })
	require.NoError(t, app.LoadTestData(t.Context()))

	router := web.NewRouter(web.RouterConfig{
		Logger:           logger,
		EventService:     app.EventService,
		WizardController: app.WizardController,
		TermsRenderer:    app.TermsRenderer,
		HubManager:       app.HubManager,
		StaticDir:        "", // No static files in tests
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil, false)
}

// post makes a POST request with form data (non-HTMX)
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, false)
}

// postHTMX makes a POST request with form data as an HTMX request
func (ts *webTestServer) postHTMX(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, true)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// sessionID returns the wizard session held for the event, or ""
func (j *cookieJar) sessionID(eventID string) string {
	cookie, ok := j.cookies[middleware.SessionCookieName(model.EventID(eventID))]
	if !ok {
		return ""
	}
	return cookie.Value
}

// Helper functions for common test operations

func registerPath(eventID string) string {
	return "/events/" + eventID + "/register"
}

// startRegistration opens the registration page, starting a wizard session
func (ts *webTestServer) startRegistration(eventID string) *goquery.Document {
	ts.t.Helper()
	rr := ts.get(registerPath(eventID))
	require.Equal(ts.t, http.StatusOK, rr.Code)
	require.NotEmpty(ts.t, ts.cookies.sessionID(eventID), "Expected wizard session cookie to be set")
	return parseHTML(rr.Body)
}

// wizardAction posts a wizard action as htmx and returns the rendered fragment
func (ts *webTestServer) wizardAction(eventID, action string, form url.Values) (*httptest.ResponseRecorder, *goquery.Document) {
	ts.t.Helper()
	rr := ts.postHTMX(registerPath(eventID)+action, form)
	require.Equal(ts.t, http.StatusOK, rr.Code, "Expected fragment for %s", action)
	return rr, parseHTML(rr.Body)
}

// selectPlayer searches for the query, lets the search settle and picks the member
func (ts *webTestServer) selectPlayer(eventID, query, memberID string) *goquery.Document {
	ts.t.Helper()
	ts.wizardAction(eventID, "/search", url.Values{"query": {query}})
	ts.app.SettleSearches()
	_, doc := ts.wizardAction(eventID, "/player", url.Values{"member_id": {memberID}})
	return doc
}

// submitContact completes the contact step with an email address
func (ts *webTestServer) submitContact(eventID, email string) *goquery.Document {
	ts.t.Helper()
	_, doc := ts.wizardAction(eventID, "/contact", url.Values{
		"email":                   {email},
		"notification_preference": {"email"},
	})
	return doc
}

// followRedirect follows a redirect and returns the response
// Works with both traditional Location headers and HTMX HX-Redirect headers
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	// Check for HTMX redirect first
	location := rr.Header().Get("HX-Redirect")
	if location == "" {
		// Fall back to traditional redirect
		location = rr.Header().Get("Location")
	}
	require.NotEmpty(ts.t, location, "Expected Location or HX-Redirect header for redirect")
	return ts.get(location)
}

// activeStep returns the data-step of the active wizard step, or ""
func activeStep(doc *goquery.Document) string {
	step, _ := doc.Find("section.step-active").Attr("data-step")
	return step
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}
