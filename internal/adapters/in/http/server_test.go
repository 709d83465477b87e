package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "shipment/internal/adapters/in/http"
	"shipment/internal/adapters/out/aggregator"
	"shipment/internal/adapters/out/backend"
	"shipment/internal/adapters/out/labelstore"
	"shipment/internal/adapters/out/memory"
	"shipment/internal/core/application/usecases/commands"
	"shipment/internal/core/application/usecases/queries"
	"shipment/internal/core/domain/services"
	"shipment/internal/timer"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpstreams bundles the stand-ins for the aggregator, the label
// storage and the backend, tracking the calls the workflow makes.
type fakeUpstreams struct {
	aggregator *httptest.Server
	labels     *httptest.Server
	backend    *httptest.Server

	labelPurchases int
	commits        int
}

func newFakeUpstreams(t *testing.T) *fakeUpstreams {
	t.Helper()
	f := &fakeUpstreams{}

	f.labels = httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	t.Cleanup(f.labels.Close)

	aggregatorMux := nethttp.NewServeMux()
	aggregatorMux.HandleFunc("/api/v1/session", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	})
	aggregatorMux.HandleFunc("/api/v1/rates", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"rates": []map[string]string{
				{"id": "R1", "carrier": "fedex", "service": "Ground Economy", "shipping_type": "ground", "total": "250.00", "currency": "MXN"},
				{"id": "R2", "carrier": "dhl", "service": "Express", "shipping_type": "express", "total": "310.00", "currency": "MXN"},
			},
		})
	})
	aggregatorMux.HandleFunc("/api/v1/labels", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		f.labelPurchases++
		_ = json.NewEncoder(w).Encode(map[string]string{
			"tracking_number": "TRK123",
			"created_at":      "2026-09-01T10:30:00Z",
			"total":           "250.00",
			"currency":        "MXN",
			"label_url":       f.labels.URL + "/TRK123.pdf",
		})
	})
	f.aggregator = httptest.NewServer(aggregatorMux)
	t.Cleanup(f.aggregator.Close)

	backendMux := nethttp.NewServeMux()
	backendMux.HandleFunc("/api/v1/customers/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"zip": "62000"})
	})
	backendMux.HandleFunc("/api/v1/destinations/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"zip": "06700"})
	})
	backendMux.HandleFunc("/api/v1/shipments", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		f.commits++
		w.WriteHeader(nethttp.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"shipment_id": "SHP-001"})
	})
	f.backend = httptest.NewServer(backendMux)
	t.Cleanup(f.backend.Close)

	return f
}

// newWorkflowAPI wires the real adapters and handlers behind the HTTP
// server, pointing all outbound clients at the fake upstreams.
func newWorkflowAPI(t *testing.T, f *fakeUpstreams) *echo.Echo {
	t.Helper()

	store := memory.NewSessionStore()
	auth := aggregator.NewAuthSession(f.aggregator.URL, "api-key", f.aggregator.Client())
	aggregatorClient := aggregator.NewClient(f.aggregator.URL, auth, f.aggregator.Client())
	retriever := labelstore.NewRetriever(f.labels.Client())
	backendClient := backend.NewClient(f.backend.URL, "backend-token", f.backend.Client())
	scheduler := timer.NewScheduler(time.Minute, time.Second)

	commitHandler := commands.NewCommitShipmentCommandHandler(
		store, backendClient, backendClient, services.NewZipConsistencyGuard(), scheduler,
	)
	commitTrigger := commands.CommitTrigger(commitHandler.HandleExpiry)

	server := httpadapter.NewServer(
		commands.NewOpenSessionCommandHandler(store),
		commands.NewChooseFulfillmentCommandHandler(store, scheduler),
		commands.NewSetManualDetailsCommandHandler(store),
		commands.NewQueryRatesCommandHandler(store, aggregatorClient),
		commands.NewSelectRateCommandHandler(store),
		commands.NewPurchaseLabelCommandHandler(store, aggregatorClient),
		commands.NewRetrieveLabelCommandHandler(store, retriever, scheduler, commitTrigger),
		commands.NewAcknowledgeManualDownloadCommandHandler(store),
		commands.NewCancelAutoCommitCommandHandler(store, scheduler),
		commitHandler,
		commands.NewCloseSessionCommandHandler(store, scheduler),
		queries.NewGetSessionStatusQueryHandler(store, scheduler),
	)

	e := echo.New()
	server.RegisterRoutes(e)
	return e
}

func performJSON(t *testing.T, e *echo.Echo, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) httpadapter.SessionStatusResponse {
	t.Helper()

	var status httpadapter.SessionStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	return status
}

func openSessionRequest() map[string]any {
	return map[string]any{
		"quote_id":         uuid.NewString(),
		"customer_id":      uuid.NewString(),
		"destination_id":   uuid.NewString(),
		"origin_zip":       "62000",
		"destination_zip":  "06700",
		"parcel":           map[string]any{"weight_kg": "1.5"},
		"selected_rate_id": "R1",
		"price_with_tax":   "269.50",
		"currency":         "MXN",
	}
}

func openSession(t *testing.T, e *echo.Echo) string {
	t.Helper()

	rec := performJSON(t, e, nethttp.MethodPost, "/api/v1/sessions", openSessionRequest())
	require.Equal(t, nethttp.StatusCreated, rec.Code)

	var resp httpadapter.OpenSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func purchasePayload() map[string]any {
	return map[string]any{
		"sender": map[string]any{
			"name": "Taller Cuernavaca", "street": "Av. Morelos", "street_number": "120",
			"city": "Cuernavaca", "state": "MOR", "zip": "62000", "country": "MX",
			"email": "envios@taller.mx",
		},
		"recipient": map[string]any{
			"name": "Cliente CDMX", "street": "Av. Insurgentes", "street_number": "500",
			"city": "CDMX", "state": "CMX", "zip": "06700", "country": "MX",
			"email": "cliente@example.com",
		},
	}
}

func TestServer_AggregatorWorkflow(t *testing.T) {
	// Given the full stack wired against healthy fake upstreams
	f := newFakeUpstreams(t)
	e := newWorkflowAPI(t, f)

	// When a session is opened
	sessionID := openSession(t, e)
	base := "/api/v1/sessions/" + sessionID

	// Then it starts out selecting a fulfillment path
	rec := performJSON(t, e, nethttp.MethodGet, base, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "Selecting", decodeStatus(t, rec).Status)

	// When the aggregator path is chosen and rates are queried
	rec = performJSON(t, e, nethttp.MethodPost, base+"/fulfillment", map[string]string{"kind": "aggregator"})
	require.Equal(t, nethttp.StatusNoContent, rec.Code)

	rec = performJSON(t, e, nethttp.MethodPost, base+"/rates/query", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	// Then the upstream options come back in upstream order
	var rates httpadapter.QueryRatesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rates))
	require.Len(t, rates.Rates, 2)
	assert.Equal(t, "R1", rates.Rates[0].ID)
	assert.Equal(t, "R2", rates.Rates[1].ID)

	// When the first rate is selected and a label is purchased
	rec = performJSON(t, e, nethttp.MethodPost, base+"/rates/selection", map[string]string{
		"id": "R1", "carrier": "fedex", "service_name": "Ground Economy",
		"shipping_type": "ground", "total": "250.00", "currency": "MXN",
	})
	require.Equal(t, nethttp.StatusNoContent, rec.Code)

	rec = performJSON(t, e, nethttp.MethodPost, base+"/label", purchasePayload())
	require.Equal(t, nethttp.StatusNoContent, rec.Code)
	assert.Equal(t, 1, f.labelPurchases)

	// When the label document is downloaded
	rec = performJSON(t, e, nethttp.MethodPost, base+"/label/download", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	// Then the session is ready to commit with a live countdown
	status := decodeStatus(t, rec)
	assert.Equal(t, "AssetReady", status.Status)
	assert.Equal(t, "TRK123", status.TrackingNumber)
	assert.True(t, status.AutoCommitArmed)
	assert.Positive(t, status.RemainingSeconds)
	assert.LessOrEqual(t, status.RemainingSeconds, 60)

	// When the operator cancels the countdown and commits by hand
	rec = performJSON(t, e, nethttp.MethodDelete, base+"/auto-commit", nil)
	require.Equal(t, nethttp.StatusNoContent, rec.Code)

	rec = performJSON(t, e, nethttp.MethodGet, base, nil)
	assert.False(t, decodeStatus(t, rec).AutoCommitArmed)

	rec = performJSON(t, e, nethttp.MethodPost, base+"/commit", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	// Then the shipment is committed exactly once
	status = decodeStatus(t, rec)
	assert.Equal(t, "Committed", status.Status)
	assert.Equal(t, "SHP-001", status.ShipmentID)
	assert.Equal(t, 1, f.commits)
}

func TestServer_ManualWorkflow(t *testing.T) {
	// Given an open session on the manual path
	f := newFakeUpstreams(t)
	e := newWorkflowAPI(t, f)
	sessionID := openSession(t, e)
	base := "/api/v1/sessions/" + sessionID

	rec := performJSON(t, e, nethttp.MethodPost, base+"/fulfillment", map[string]string{"kind": "external"})
	require.Equal(t, nethttp.StatusNoContent, rec.Code)

	// When the manual label details are uploaded
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("carrier", "estafeta"))
	require.NoError(t, form.WriteField("tracking_number", "TRK999"))
	require.NoError(t, form.WriteField("net_cost", "200.00"))
	require.NoError(t, form.WriteField("currency", "MXN"))
	part, err := form.CreateFormFile("label", "guia.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 manual"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(nethttp.MethodPut, base+"/manual-details", &body)
	req.Header.Set(echo.HeaderContentType, form.FormDataContentType())
	recorder := httptest.NewRecorder()
	e.ServeHTTP(recorder, req)
	require.Equal(t, nethttp.StatusNoContent, recorder.Code)

	// Then the session is ready and commits without any countdown
	rec = performJSON(t, e, nethttp.MethodGet, base, nil)
	status := decodeStatus(t, rec)
	assert.Equal(t, "ManualReady", status.Status)
	assert.False(t, status.AutoCommitArmed)

	rec = performJSON(t, e, nethttp.MethodPost, base+"/commit", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	status = decodeStatus(t, rec)
	assert.Equal(t, "Committed", status.Status)
	assert.Equal(t, "SHP-001", status.ShipmentID)
}

func TestServer_ErrorMapping(t *testing.T) {
	f := newFakeUpstreams(t)
	e := newWorkflowAPI(t, f)

	t.Run("unknown session renders 404", func(t *testing.T) {
		// When an unregistered session is polled
		rec := performJSON(t, e, nethttp.MethodGet, "/api/v1/sessions/"+uuid.NewString(), nil)

		// Then the lookup failure maps to not found
		assert.Equal(t, nethttp.StatusNotFound, rec.Code)
	})

	t.Run("malformed session id renders 400", func(t *testing.T) {
		rec := performJSON(t, e, nethttp.MethodGet, "/api/v1/sessions/not-a-uuid", nil)

		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	})

	t.Run("bad fulfillment kind renders 400", func(t *testing.T) {
		// Given an open session
		sessionID := openSession(t, e)

		// When an unsupported kind is submitted
		rec := performJSON(t, e, nethttp.MethodPost,
			fmt.Sprintf("/api/v1/sessions/%s/fulfillment", sessionID),
			map[string]string{"kind": "carrier-pigeon"})

		// Then the request is rejected before reaching the session
		assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	})

	t.Run("out of order operation renders 409", func(t *testing.T) {
		// Given a session that has not chosen the aggregator path
		sessionID := openSession(t, e)

		// When rates are queried anyway
		rec := performJSON(t, e, nethttp.MethodPost,
			fmt.Sprintf("/api/v1/sessions/%s/rates/query", sessionID), nil)

		// Then the state gate maps to a conflict
		assert.Equal(t, nethttp.StatusConflict, rec.Code)
	})
}
