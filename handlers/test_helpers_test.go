package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"printflow/configurator"
	"printflow/services"
	"printflow/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// newTestDeps returns handler dependencies over a seeded test app.
func newTestDeps(t *testing.T) (*pocketbase.PocketBase, *Deps) {
	t.Helper()
	app := testhelpers.NewSeededTestApp(t)
	logger := zap.NewNop()
	return app, &Deps{
		Catalog:  services.NewCatalogStore(app, logger),
		Designs:  services.NewDesignStore(app, logger),
		Sessions: NewWizardSessions(time.Hour, logger),
		Logger:   logger,
		PageSize: 10,
		Policy:   configurator.PolicyAllGroups,
	}
}

// serve runs handler for one request and returns the recorder.
func serve(t *testing.T, app *pocketbase.PocketBase, handler func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func htmxRequest(method, target string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("HX-Request", "true")
	return req
}

func sessionRequest(method, sid, action string, form url.Values) *http.Request {
	req := htmxRequest(method, "/designs/wizard/"+sid+"/"+action, form)
	req.SetPathValue("sid", sid)
	return req
}
