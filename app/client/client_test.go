package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"retail-transfers/app/models"
	"retail-transfers/app/reportpager"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, data any, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data":    data,
		"success": status < 400,
		"message": msg,
		"status":  status,
	})
}

func TestCreateRecordSendsPayloadAndToken(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/transfer-records", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		writeEnvelope(w, http.StatusCreated, map[string]any{"id": "abc", "phoneNo": "09123456789", "amount": 5000, "fee": 50}, "created")
	}))
	defer srv.Close()

	tokens := &MemoryTokenStore{}
	require.NoError(t, tokens.SetToken("tok"))
	c := New(srv.URL+"/api", WithTokenStore(tokens))

	rec, err := c.CreateRecord(context.Background(), models.CreateRecordInput{
		PhoneNo: "09123456789",
		Date:    "2024-05-01",
		Amount:  5000,
		Fee:     50,
		Pay:     models.PayKBZ,
		Type:    models.RecordPay,
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", rec.ID)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, map[string]any{
		"phoneNo":     "09123456789",
		"date":        "2024-05-01",
		"amount":      5000.0,
		"fee":         50.0,
		"pay":         "kbz",
		"type":        "pay",
		"description": "",
	}, got)
}

func TestUnauthorizedClearsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, "Invalid token")
	}))
	defer srv.Close()

	tokens := &MemoryTokenStore{}
	require.NoError(t, tokens.SetToken("stale"))
	redirected := false
	c := New(srv.URL, WithTokenStore(tokens), OnUnauthorized(func() { redirected = true }))

	_, err := c.Totals(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid token", apiErr.Message)
	assert.Empty(t, tokens.Token())
	assert.True(t, redirected)
}

func TestValidationErrorDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"status":400,"message":"validation failed","errors":{"description":"this field is required"}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).CreateRecord(context.Background(), models.CreateRecordInput{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "this field is required", apiErr.Details["description"])
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestFeeByAmountAndReports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/transfer-fees/amount/7500":
			writeEnvelope(w, 200, map[string]any{"transferFee": map[string]any{"from": 1000, "to": 10000, "fee": 500}}, "")
		case "/transfer-records/reports":
			assert.Equal(t, "2024-05-11", r.URL.Query().Get("startDate"))
			assert.Equal(t, "2024-05-20", r.URL.Query().Get("endDate"))
			assert.Equal(t, "wave", r.URL.Query().Get("pay"))
			assert.Empty(t, r.URL.Query().Get("type"))
			writeEnvelope(w, 200, map[string]any{
				"transferRecords":    []map[string]any{{"date": "2024-05-20", "totalAmount": 15000, "totalFee": 700, "records": []any{}}},
				"earliestRecordDate": "2024-01-03",
			}, "")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	c := New(srv.URL)

	tier, err := c.FeeByAmount(context.Background(), 7500)
	require.NoError(t, err)
	assert.Equal(t, 500.0, tier.Fee)

	page, err := c.Reports(context.Background(), reportpager.Query{StartDate: "2024-05-11", EndDate: "2024-05-20", Pay: models.PayWave})
	require.NoError(t, err)
	require.Len(t, page.TransferRecords, 1)
	assert.Equal(t, 700.0, page.TransferRecords[0].TotalFee)
	require.NotNil(t, page.EarliestRecordDate)
	assert.Equal(t, "2024-01-03", *page.EarliestRecordDate)
}

func TestExportFilename(t *testing.T) {
	withName := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pdf", r.URL.Query().Get("fileType"))
		if withName {
			w.Header().Set("Content-Disposition", `attachment; filename="transfers_2024-05-01_2024-05-31.pdf"`)
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.3"))
	}))
	defer srv.Close()
	c := New(srv.URL)
	q := reportpager.Query{StartDate: "2024-05-01", EndDate: "2024-05-31"}

	d, err := c.Export(context.Background(), models.ExportPDF, q)
	require.NoError(t, err)
	assert.Equal(t, "transfers_2024-05-01_2024-05-31.pdf", d.Filename)
	assert.Equal(t, []byte("%PDF-1.3"), d.Data)

	withName = false
	d, err = c.Export(context.Background(), models.ExportPDF, q)
	require.NoError(t, err)
	assert.Equal(t, DefaultFilename, d.Filename)
}

func TestFilenameFromStripsDirectories(t *testing.T) {
	assert.Equal(t, "evil.pdf", filenameFrom(`attachment; filename="../../evil.pdf"`))
	assert.Equal(t, DefaultFilename, filenameFrom("attachment"))
	assert.Equal(t, DefaultFilename, filenameFrom("garbage;;"))
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, 200, map[string]any{"token": "fresh", "user": map[string]any{"id": "u1", "first_name": "Aye"}}, "Login successful")
	}))
	defer srv.Close()

	store := FileTokenStore{Path: filepath.Join(t.TempDir(), "retail", "token")}
	c := New(srv.URL, WithTokenStore(store))
	u, err := c.Login(context.Background(), "aye@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Aye", u.FirstName)
	assert.Equal(t, "fresh", store.Token())

	require.NoError(t, c.Logout())
	assert.Empty(t, store.Token())
	require.NoError(t, c.Logout(), "clearing twice is fine")
}
