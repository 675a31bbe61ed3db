package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/busline/gateway/api"
	"github.com/busline/gateway/seats"
)

func strptr(s string) *string { return &s }

func seatRows() []seats.Seat {
	return []seats.Seat{
		{SeatID: 1, BusID: 10, Price: 25, Name: "1A",
			Bus: &seats.Bus{BusID: 10, Name: strptr("city-express"), LicensePlate: "34-BL-101"}},
		{SeatID: 2, BusID: 10, Price: 25, Name: "1B"},
	}
}

func TestListSeats(t *testing.T) {
	g := newTestGateway(t, "development")
	g.seats.rows = seatRows()
	g.seats.total = 42
	token := loginJWT(t, g, "viewer", "viewer-pass")

	req := httptest.NewRequest("GET", "/v1/seats?offset=0&size=2", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := g.do(req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Data []seats.Seat `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(body.Data) != 2 || body.Meta.Total != 42 {
		t.Errorf("unexpected page: %d rows, total %d", len(body.Data), body.Meta.Total)
	}
	if body.Data[0].Bus == nil || body.Data[0].Bus.LicensePlate != "34-BL-101" {
		t.Errorf("expected bus preloaded in response, got %+v", body.Data[0])
	}
}

func TestListSeatsRejectsBadPagination(t *testing.T) {
	g := newTestGateway(t, "development")
	token := loginJWT(t, g, "viewer", "viewer-pass")

	for _, query := range []string{"offset=-1", "size=0", "size=9999", "offset=abc"} {
		req := httptest.NewRequest("GET", "/v1/seats?"+query, http.NoBody)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := g.do(req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("query %q: expected 400, got %d", query, rr.Code)
		}
	}
}

func TestSeatReadRequiresReadPolicy(t *testing.T) {
	g := newTestGateway(t, "development")

	// No token at all.
	rr := g.do(httptest.NewRequest("GET", "/v1/seats", http.NoBody))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	// Valid token lacking the read policy.
	noPolicy := g.do(httptest.NewRequest("GET", "/auth/debug/jwt/poor?role=user", http.NoBody))
	var body struct {
		Data api.TokenResponse `json:"data"`
	}
	_ = json.Unmarshal(noPolicy.Body.Bytes(), &body)

	req := httptest.NewRequest("GET", "/v1/seats", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+body.Data.Token)
	rr = g.do(req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without read policy, got %d", rr.Code)
	}
}

func TestSeatWriteRequiresAdminRoleAndWritePolicy(t *testing.T) {
	g := newTestGateway(t, "development")
	g.seats.rows = seatRows()

	payload := api.CreateSeatsRequest{Seats: []seats.CreateInput{
		{BusID: 10, Price: 30, Name: "2A"},
	}}

	// viewer has read:seats but neither admin role nor write policy.
	viewer := loginJWT(t, g, "viewer", "viewer-pass")
	req := httptest.NewRequest("POST", "/v1/seats", jsonBody(t, payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+viewer)
	if rr := g.do(req); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer, got %d", rr.Code)
	}

	admin := loginJWT(t, g, "admin", "admin-pass")
	req = httptest.NewRequest("POST", "/v1/seats", jsonBody(t, payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+admin)
	rr := g.do(req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(g.seats.lastCreate) != 1 || g.seats.lastCreate[0].Name != "2A" {
		t.Errorf("create input not forwarded: %+v", g.seats.lastCreate)
	}
}

func TestCreateSeatsValidatesPayload(t *testing.T) {
	g := newTestGateway(t, "development")
	admin := loginJWT(t, g, "admin", "admin-pass")

	// Empty seat list and a seat without a name both fail validation.
	for _, payload := range []api.CreateSeatsRequest{
		{},
		{Seats: []seats.CreateInput{{BusID: 10, Price: 5}}},
	} {
		req := httptest.NewRequest("POST", "/v1/seats", jsonBody(t, payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+admin)
		rr := g.do(req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", rr.Code, rr.Body.String())
		}
	}
}

func TestUpdateSeats(t *testing.T) {
	g := newTestGateway(t, "development")
	g.seats.rows = seatRows()
	admin := loginJWT(t, g, "admin", "admin-pass")

	payload := api.UpdateSeatsRequest{Seats: []seats.UpdateInput{
		{SeatID: 1, BusID: 10, Price: 40, Name: "1A"},
	}}
	req := httptest.NewRequest("PUT", "/v1/seats", jsonBody(t, payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+admin)
	rr := g.do(req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(g.seats.lastUpdate) != 1 || g.seats.lastUpdate[0].Price != 40 {
		t.Errorf("update input not forwarded: %+v", g.seats.lastUpdate)
	}
}

func TestDeleteSeats(t *testing.T) {
	g := newTestGateway(t, "development")
	g.seats.deleted = 2
	admin := loginJWT(t, g, "admin", "admin-pass")

	req := httptest.NewRequest("DELETE", "/v1/seats",
		jsonBody(t, api.DeleteSeatsRequest{SeatIDs: []int32{1, 2}}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+admin)
	rr := g.do(req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body struct {
		Data struct {
			Deleted int64 `json:"deleted"`
		} `json:"data"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	if body.Data.Deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", body.Data.Deleted)
	}
	if len(g.seats.lastDelete) != 2 {
		t.Errorf("delete ids not forwarded: %v", g.seats.lastDelete)
	}
}

func TestGetSeatsByRange(t *testing.T) {
	g := newTestGateway(t, "development")
	g.seats.rows = seatRows()
	token := loginJWT(t, g, "viewer", "viewer-pass")

	req := httptest.NewRequest("GET", "/v1/seats/range?id=1&id=2&name=1A", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := g.do(req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest("GET", "/v1/seats/range?id=abc", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	if rr := g.do(req); rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-integer id, got %d", rr.Code)
	}
}
