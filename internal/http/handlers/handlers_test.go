package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"carpool/internal/domain"
	"carpool/internal/domain/models"
	"carpool/internal/http/middleware"
	"carpool/internal/services"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestEngine(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	g := r.Group("/api", middleware.AuthOptional(h.Auth()))
	g.POST("/auth/register", h.Register)
	g.POST("/auth/login", h.Login)
	g.GET("/search", h.SearchTrips)
	g.POST("/requests", h.RequestRide)
	g.GET("/trips/:id", h.GetTrip)
	g.POST("/trips", middleware.AuthRequired(), h.CreateTrip)
	g.GET("/trips/:id/sheet", middleware.AuthRequired(), h.GetTripSheet)
	g.GET("/users/me", middleware.AuthRequired(), h.CurrentUser)
	g.GET("/geo/search", h.GeoSearch)
	g.GET("/geo/reverse", h.GeoReverse)
	g.POST("/geo/route", h.GeoRoute)
	return r
}

func newTestHandlers() (*Handlers, *fakeTrips, *fakeUsers, *fakeRequests) {
	trips := &fakeTrips{}
	users := &fakeUsers{byID: map[int64]models.User{
		5: {ID: 5, Name: "Asha", Gender: models.GenderFemale},
		6: {ID: 6, Name: "Ravi", Gender: models.GenderMale},
	}}
	reqs := &fakeRequests{}
	h := &Handlers{
		Trips:     trips,
		Users:     users,
		Requests:  reqs,
		JWTSecret: []byte("test-secret"),
	}
	return h, trips, users, reqs
}

func tokenFor(t *testing.T, h *Handlers, id int64) string {
	t.Helper()
	tok, err := h.Auth().IssueToken(domain.ID(id))
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return tok
}

func do(t *testing.T, r *gin.Engine, req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode body %q: %v", w.Body.String(), err)
		}
	}
	return w, env
}

func searchURL(data string) string {
	return "/api/search?data=" + url.QueryEscape(data)
}

func tripIDs(t *testing.T, raw json.RawMessage) []int64 {
	t.Helper()
	var data struct {
		Trips []models.Trip `json:"trips"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("decode trips: %v", err)
	}
	ids := make([]int64, 0, len(data.Trips))
	for _, tr := range data.Trips {
		ids = append(ids, tr.ID)
	}
	return ids
}

func sampleTrips() []models.Trip {
	return []models.Trip{
		{ID: 1, Driver: models.Driver{ID: 7}, WomenOnly: false},
		{ID: 2, Driver: models.Driver{ID: 8}, WomenOnly: true},
		{ID: 3, Driver: models.Driver{ID: 5}, WomenOnly: false},
	}
}

func TestSearchTripsAnonymous(t *testing.T) {
	h, trips, _, _ := newTestHandlers()
	trips.near = sampleTrips()
	r := newTestEngine(h)

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, searchURL(`{"route":"R1","departure":"2024-01-01"}`), nil), "")
	if w.Code != http.StatusOK || env.Status != "OK" || env.Message != "Searched!" {
		t.Fatalf("unexpected response %d %+v", w.Code, env)
	}
	ids := tripIDs(t, env.Data)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Fatalf("ids=%v want [1 3]", ids)
	}
	if trips.lastQ.Route.Label != "R1" || !trips.lastQ.DateOnly {
		t.Fatalf("query not forwarded: %+v", trips.lastQ)
	}
}

func TestSearchTripsFemaleViewer(t *testing.T) {
	h, trips, _, _ := newTestHandlers()
	trips.near = sampleTrips()
	r := newTestEngine(h)

	_, env := do(t, r, httptest.NewRequest(http.MethodGet, searchURL(`{"route":"R1","departure":"2024-01-01"}`), nil), tokenFor(t, h, 5))
	ids := tripIDs(t, env.Data)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("ids=%v want [1 2]", ids)
	}
}

func TestSearchTripsWomenOnlyToggle(t *testing.T) {
	h, trips, _, _ := newTestHandlers()
	trips.near = sampleTrips()
	r := newTestEngine(h)

	_, env := do(t, r, httptest.NewRequest(http.MethodGet, searchURL(`{"route":"R1","departure":"2024-01-01","women_only":1}`), nil), tokenFor(t, h, 6))
	ids := tripIDs(t, env.Data)
	if len(ids) != 1 || ids[0] != 2 {
		t.Fatalf("ids=%v want [2]", ids)
	}
}

func TestSearchTripsEmptyAndFailure(t *testing.T) {
	h, trips, _, _ := newTestHandlers()
	trips.nearErr = errors.New("db down")
	r := newTestEngine(h)

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, searchURL(`{"route":"R1","departure":"2024-01-01 08:00"}`), nil), "")
	if w.Code != http.StatusOK || env.Status != "OK" {
		t.Fatalf("repository failure should still be success, got %d %+v", w.Code, env)
	}
	if ids := tripIDs(t, env.Data); len(ids) != 0 {
		t.Fatalf("expected empty trips, got %v", ids)
	}
	if !strings.Contains(string(env.Data), `"trips":[]`) {
		t.Fatalf("trips should serialize as an empty list: %s", env.Data)
	}
}

func TestSearchTripsInvalidData(t *testing.T) {
	h, _, _, _ := newTestHandlers()
	r := newTestEngine(h)

	for _, target := range []string{
		"/api/search",
		searchURL(`{not json`),
	} {
		w, env := do(t, r, httptest.NewRequest(http.MethodGet, target, nil), "")
		if w.Code != http.StatusBadRequest || env.Status != "ERROR" || env.Message != "Invalid request" {
			t.Fatalf("%s: got %d %+v", target, w.Code, env)
		}
	}
}

func TestSearchTripsUnusableCriteria(t *testing.T) {
	h, trips, _, _ := newTestHandlers()
	trips.near = sampleTrips()
	r := newTestEngine(h)

	for _, target := range []string{
		searchURL(`{"departure":"2024-01-01"}`),
		searchURL(`{"route":"R1","departure":"someday"}`),
	} {
		w, env := do(t, r, httptest.NewRequest(http.MethodGet, target, nil), "")
		if w.Code != http.StatusOK || env.Status != "OK" || env.Message != "Searched!" {
			t.Fatalf("%s: got %d %+v", target, w.Code, env)
		}
		if !strings.Contains(string(env.Data), `"trips":[]`) {
			t.Fatalf("%s: expected an empty list, got %s", target, env.Data)
		}
	}
}

func formRequest(data string) *http.Request {
	form := url.Values{"data": {data}}
	req := httptest.NewRequest(http.MethodPost, "/api/requests", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestRequestRideRequiresLogin(t *testing.T) {
	h, _, _, reqs := newTestHandlers()
	r := newTestEngine(h)

	w, env := do(t, r, formRequest(`{"trip_id":42,"message":"hi"}`), "")
	if w.Code != http.StatusUnauthorized || env.Status != "ERROR" || env.Message != "Login Required!" {
		t.Fatalf("got %d %+v", w.Code, env)
	}
	if len(reqs.created) != 0 {
		t.Fatalf("no record may be written")
	}

	w, env = do(t, r, formRequest(`{"trip_id":42}`), "garbage-token")
	if w.Code != http.StatusUnauthorized || env.Message != "Login Required!" {
		t.Fatalf("invalid token should be anonymous, got %d %+v", w.Code, env)
	}
}

func TestRequestRideCreatesRecordEachTime(t *testing.T) {
	h, _, _, reqs := newTestHandlers()
	r := newTestEngine(h)
	tok := tokenFor(t, h, 6)

	for i := 0; i < 2; i++ {
		w, env := do(t, r, formRequest(`{"trip_id":42,"message":"hi"}`), tok)
		if w.Code != http.StatusOK || env.Status != "OK" || env.Message != "Request Sent!" {
			t.Fatalf("got %d %+v", w.Code, env)
		}
	}
	if len(reqs.created) != 2 {
		t.Fatalf("expected 2 records, got %d", len(reqs.created))
	}
	if got := reqs.created[0]; got.UserID != 6 || got.TripID != 42 || got.Message != "hi" {
		t.Fatalf("record=%+v", got)
	}
}

func TestRequestRideJSONBody(t *testing.T) {
	h, _, _, reqs := newTestHandlers()
	r := newTestEngine(h)

	req := httptest.NewRequest(http.MethodPost, "/api/requests", strings.NewReader(`{"trip_id":9}`))
	req.Header.Set("Content-Type", "application/json")
	w, _ := do(t, r, req, tokenFor(t, h, 6))
	if w.Code != http.StatusOK || len(reqs.created) != 1 || reqs.created[0].TripID != 9 {
		t.Fatalf("got %d, records=%+v", w.Code, reqs.created)
	}
}

func TestRequestRideQueryData(t *testing.T) {
	h, _, _, reqs := newTestHandlers()
	r := newTestEngine(h)

	form := url.Values{"data": {"   "}}
	target := "/api/requests?data=" + url.QueryEscape(`{"trip_id":11,"message":"from query"}`)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w, env := do(t, r, req, tokenFor(t, h, 6))
	if w.Code != http.StatusOK || env.Message != "Request Sent!" {
		t.Fatalf("got %d %+v", w.Code, env)
	}
	if len(reqs.created) != 1 || reqs.created[0].TripID != 11 || reqs.created[0].Message != "from query" {
		t.Fatalf("records=%+v", reqs.created)
	}
}

func TestRequestRideStoreFailure(t *testing.T) {
	h, _, _, reqs := newTestHandlers()
	reqs.err = errors.New("insert failed")
	r := newTestEngine(h)

	w, env := do(t, r, formRequest(`{"trip_id":42,"message":"hi"}`), tokenFor(t, h, 6))
	if w.Code != http.StatusInternalServerError || env.Status != "ERROR" || env.Message != "Unable to request ride" {
		t.Fatalf("got %d %+v", w.Code, env)
	}
}

const tripBody = `{
	"route": {
		"origin": {"address": "Kanpur", "lat": 26.4499, "lon": 80.3319},
		"destination": {"address": "Lucknow", "lat": 26.8467, "lon": 80.9462},
		"trip_length": "1 hours 30 mins"
	},
	"departure": "2024-01-01 08:00",
	"women_only": 1
}`

func TestCreateAndGetTrip(t *testing.T) {
	h, trips, _, _ := newTestHandlers()
	r := newTestEngine(h)

	req := httptest.NewRequest(http.MethodPost, "/api/trips", strings.NewReader(tripBody))
	req.Header.Set("Content-Type", "application/json")
	w, env := do(t, r, req, "")
	if w.Code != http.StatusUnauthorized || env.Message != "Login Required!" {
		t.Fatalf("anonymous create: %d %+v", w.Code, env)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/trips", strings.NewReader(tripBody))
	req.Header.Set("Content-Type", "application/json")
	w, env = do(t, r, req, tokenFor(t, h, 5))
	if w.Code != http.StatusCreated || env.Message != "Trip Created!" {
		t.Fatalf("create: %d %+v", w.Code, env)
	}
	if len(trips.created) != 1 || trips.created[0].DriverID != 5 || !trips.created[0].WomenOnly || trips.created[0].Seats != 1 {
		t.Fatalf("created=%+v", trips.created)
	}

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/trips/1", nil), "")
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), `"women_only":1`) {
		t.Fatalf("get: %d %s", w.Code, env.Data)
	}

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/trips/99", nil), "")
	if w.Code != http.StatusNotFound || env.Status != "ERROR" {
		t.Fatalf("missing trip: %d %+v", w.Code, env)
	}

	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/trips/abc", nil), "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: %d", w.Code)
	}
}

func TestCreateTripValidation(t *testing.T) {
	h, _, _, _ := newTestHandlers()
	r := newTestEngine(h)

	body := `{"route":{"origin":{"address":"","lat":100,"lon":0},"destination":{"address":"B","lat":1,"lon":1}},"departure":"2024-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/trips", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w, env := do(t, r, req, tokenFor(t, h, 5))
	if w.Code != http.StatusBadRequest || env.Status != "ERROR" {
		t.Fatalf("got %d %+v", w.Code, env)
	}
}

func TestTripSheetDriverOnly(t *testing.T) {
	h, trips, _, reqs := newTestHandlers()
	trips.byID = map[int64]models.Trip{
		4: {ID: 4, Driver: models.Driver{ID: 5, Name: "Asha"}, Origin: models.Place{Address: "Kanpur"}, Destination: models.Place{Address: "Lucknow"}},
	}
	reqs.list = []models.RideRequestDetail{{RideRequest: models.RideRequest{ID: 1, UserID: 6, TripID: 4, Message: "hi"}, UserName: "Ravi"}}
	r := newTestEngine(h)

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/api/trips/4/sheet", nil), tokenFor(t, h, 6))
	if w.Code != http.StatusForbidden || env.Status != "ERROR" {
		t.Fatalf("non-driver: %d %+v", w.Code, env)
	}

	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/trips/4/sheet", nil), tokenFor(t, h, 5))
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("driver: %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a PDF")
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "TRIP_4_") {
		t.Fatalf("disposition=%q", w.Header().Get("Content-Disposition"))
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	h, _, _, _ := newTestHandlers()
	h.Users = &fakeUsers{}
	r := newTestEngine(h)

	reg := `{"name":"Meera","username":"meera","email":"meera@example.com","gender":0,"password":"secret123"}`
	w, env := do(t, r, jsonRequest(http.MethodPost, "/api/auth/register", reg), "")
	if w.Code != http.StatusCreated || env.Status != "OK" {
		t.Fatalf("register: %d %+v", w.Code, env)
	}
	if strings.Contains(string(env.Data), "password") {
		t.Fatalf("password hash leaked: %s", env.Data)
	}

	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/auth/register", reg), "")
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: %d %+v", w.Code, env)
	}

	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"meera","password":"wrong-pass"}`), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d %+v", w.Code, env)
	}

	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"meera@example.com","password":"secret123"}`), "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %+v", w.Code, env)
	}
	var data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("login data=%s err=%v", env.Data, err)
	}
	who, err := h.Auth().ParseToken(data.Token)
	if err != nil || int64(who.UserID) != data.User.ID {
		t.Fatalf("token identity=%+v err=%v", who, err)
	}
}

func TestGeoEndpoints(t *testing.T) {
	h, _, _, _ := newTestHandlers()
	g := &fakeGeocoder{}
	h.Geo = services.GeocodeService{Provider: g, Router: fakeRouter{}}
	r := newTestEngine(h)

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/api/geo/reverse?lat=26.5&lon=80.25", nil), "")
	if w.Code != http.StatusOK || env.Status != "OK" || len(g.q) != 1 || g.q[0] != "26.5, 80.25" {
		t.Fatalf("reverse: %d %+v queries=%v", w.Code, env, g.q)
	}

	w, _ = do(t, r, httptest.NewRequest(http.MethodGet, "/api/geo/reverse?lat=abc&lon=1", nil), "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad reverse: %d", w.Code)
	}

	g.err = errors.New("provider down")
	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/api/geo/search?q=Kanpur", nil), "")
	if w.Code != http.StatusBadGateway || env.Status != "ERROR" {
		t.Fatalf("provider failure: %d %+v", w.Code, env)
	}

	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/geo/route", `{"waypoints":[{"lat":1,"lng":2}]}`), "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("single waypoint: %d %+v", w.Code, env)
	}

	w, env = do(t, r, jsonRequest(http.MethodPost, "/api/geo/route", `{"waypoints":[{"lat":1,"lng":2},{"lat":3,"lng":4}]}`), "")
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), `"total_time":600`) {
		t.Fatalf("route: %d %s", w.Code, env.Data)
	}
}

func TestCurrentUser(t *testing.T) {
	h, _, _, _ := newTestHandlers()
	r := newTestEngine(h)

	w, _ := do(t, r, httptest.NewRequest(http.MethodGet, "/api/users/me", nil), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: %d", w.Code)
	}

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/api/users/me", nil), tokenFor(t, h, 5))
	if w.Code != http.StatusOK || !strings.Contains(string(env.Data), `"name":"Asha"`) {
		t.Fatalf("me: %d %s", w.Code, env.Data)
	}
}
