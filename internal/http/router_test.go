package httpx_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	httpx "paygate/internal/http"
	"paygate/internal/provider"
	"paygate/internal/provider/platnosci"
	"paygate/internal/store/postgres"
	"paygate/internal/store/redisq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const token = "test-token"

type fakeWatch struct{ entries []redisq.Entry }

func (f *fakeWatch) Watch(_ context.Context, e redisq.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}

type fakeSnapshots struct{}

func (fakeSnapshots) LatestSnapshot(_ context.Context, sessionID string) (*postgres.Snapshot, error) {
	if sessionID != "known" {
		return nil, postgres.ErrNotFound
	}
	return &postgres.Snapshot{SessionID: sessionID, TransStatus: "99"}, nil
}

func (fakeSnapshots) ListSnapshots(_ context.Context, sessionID string, limit int) ([]postgres.Snapshot, error) {
	var out []postgres.Snapshot
	if sessionID == "known" {
		for i := 0; i < 3 && i < limit; i++ {
			out = append(out, postgres.Snapshot{ID: int64(3 - i), SessionID: sessionID})
		}
	}
	return out, nil
}

func newServer(t *testing.T, status int, body string) (http.Handler, *fakeWatch) {
	t.Helper()
	gw := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(gw.Close)

	conn, err := platnosci.New(platnosci.Config{
		Key1:   "key1",
		Key2:   "key2",
		PosIDs: []string{"pos1", "pos2"},
		Host:   gw.URL,
	}, platnosci.WithHTTPClient(gw.Client()))
	require.NoError(t, err)

	reg := provider.NewRegistry()
	reg.RegisterProvider(provider.ProviderPlatnosci, platnosci.NewProvider(conn))

	wl := &fakeWatch{}
	return httpx.NewRouter(httpx.RouterDependencies{
		APIToken:         token,
		ProviderRegistry: reg,
		Watchlist:        wl,
		Snapshots:        fakeSnapshots{},
	}), wl
}

func do(t *testing.T, h http.Handler, method, target string, body url.Values) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	h, _ := newServer(t, http.StatusOK, "")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	h, _ := newServer(t, http.StatusOK, "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetState(t *testing.T) {
	h, _ := newServer(t, http.StatusOK, "status: OK\ntrans_session_id: s1\ntrans_status: 99\ntrans_order_id: o1\n")

	rec, out := do(t, h, http.MethodGet, "/api/v1/transactions/s1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", out["sessionId"])
	assert.Equal(t, "o1", out["orderId"])
	assert.Equal(t, true, out["received"])
	assert.Equal(t, false, out["cancelled"])

	rec, out = do(t, h, http.MethodGet, "/api/v1/transactions/s1?pos_id=nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, provider.ErrUnknownPosID, out["code"])
}

func TestGetState_GatewayDown(t *testing.T) {
	h, _ := newServer(t, http.StatusInternalServerError, "")

	rec, out := do(t, h, http.MethodGet, "/api/v1/transactions/s1", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, string(provider.KindTransport), out["kind"])
	assert.EqualValues(t, 500, out["status_code"])
}

func TestVerifyReport(t *testing.T) {
	h, _ := newServer(t, http.StatusOK, "status: OK\ntrans_session_id: s1\ntrans_status: 1\n")
	ts := platnosci.Timestamp(time.Now())

	form := url.Values{
		"pos_id":     {"pos2"},
		"session_id": {"s1"},
		"ts":         {ts},
		"sig":        {platnosci.Sign("pos2", "s1", ts, "key2")},
	}
	rec, out := do(t, h, http.MethodPost, "/api/v1/transactions/verify", form)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["new"])

	form.Set("sig", platnosci.Sign("pos2", "s1", ts, "key1"))
	rec, out = do(t, h, http.MethodPost, "/api/v1/transactions/verify", form)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, provider.ErrWrongSignature, out["code"])

	form.Del("ts")
	rec, out = do(t, h, http.MethodPost, "/api/v1/transactions/verify", form)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ts", out["field"])
}

func TestCheckout(t *testing.T) {
	h, _ := newServer(t, http.StatusOK, "")

	rec, out := do(t, h, http.MethodGet, "/api/v1/checkout?pos_id=pos2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasSuffix(out["new_payment_url"].(string), "/paygw/UTF/NewPayment"))
	assert.True(t, strings.HasSuffix(out["paytype_js_src"].(string), "/paygw/UTF/js/pos2/ke/paytype.js"))
	assert.Equal(t, "pos2", out["pos_id"])
	assert.NotEmpty(t, out["session_id"])
}

func TestDescribeError(t *testing.T) {
	h, _ := newServer(t, http.StatusOK, "")

	rec, out := do(t, h, http.MethodGet, "/api/v1/errors/500", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	want, _ := platnosci.ErrorMessage("500")
	assert.Equal(t, want, out["description"])

	rec, _ = do(t, h, http.MethodGet, "/api/v1/errors/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWatchAndSnapshot(t *testing.T) {
	h, wl := newServer(t, http.StatusOK, "")

	rec, _ := do(t, h, http.MethodPost, "/api/v1/transactions/s9/watch?pos_id=pos2", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, wl.entries, 1)
	assert.Equal(t, "s9", wl.entries[0].SessionID)
	assert.Equal(t, "pos2", wl.entries[0].PosID)

	rec, out := do(t, h, http.MethodGet, "/api/v1/transactions/known/snapshot", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "99", out["transStatus"])

	rec, _ = do(t, h, http.MethodGet, "/api/v1/transactions/unknown/snapshot", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSnapshots(t *testing.T) {
	h, _ := newServer(t, http.StatusOK, "")

	list := func(target string) []postgres.Snapshot {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var out []postgres.Snapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	out := list("/api/v1/transactions/known/snapshots?limit=2")
	require.Len(t, out, 2)
	assert.EqualValues(t, 3, out[0].ID)

	out = list("/api/v1/transactions/unknown/snapshots")
	assert.NotNil(t, out)
	assert.Empty(t, out)

	rec, _ := do(t, h, http.MethodGet, "/api/v1/transactions/known/snapshots?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
