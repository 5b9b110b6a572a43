package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"retail-transfers/app/models"
	"retail-transfers/app/reportpager"

	"go.uber.org/zap"
)

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var out struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	if err := c.tokens.SetToken(out.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return out.User, nil
}

// Logout forgets the token locally.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

func (c *Client) Totals(ctx context.Context) (models.Total, error) {
	var out struct {
		TransferTotal models.Total `json:"transferTotal"`
	}
	err := c.call(ctx, http.MethodGet, "/transfer-totals", nil, nil, &out)
	return out.TransferTotal, err
}

// RecentRecords lists records newest first, one offset page at a time.
func (c *Client) RecentRecords(ctx context.Context, page, limit int) (*models.RecordList, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	out := &models.RecordList{}
	if err := c.call(ctx, http.MethodGet, "/transfer-records", q, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func reportQuery(q reportpager.Query) url.Values {
	v := url.Values{}
	if q.StartDate != "" {
		v.Set("startDate", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("endDate", q.EndDate)
	}
	if q.Pay != "" {
		v.Set("pay", string(q.Pay))
	}
	if q.Type != "" {
		v.Set("type", string(q.Type))
	}
	return v
}

// Reports fetches date grouped buckets for one window.
func (c *Client) Reports(ctx context.Context, q reportpager.Query) (*models.ReportPage, error) {
	out := &models.ReportPage{}
	if err := c.call(ctx, http.MethodGet, "/transfer-records/reports", reportQuery(q), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRecord(ctx context.Context, in models.CreateRecordInput) (*models.TransferRecord, error) {
	out := &models.TransferRecord{}
	if err := c.call(ctx, http.MethodPost, "/transfer-records", nil, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FeeTiers(ctx context.Context) ([]models.FeeTier, error) {
	var out struct {
		TransferFees []models.FeeTier `json:"transferFees"`
	}
	if err := c.call(ctx, http.MethodGet, "/transfer-fees", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.TransferFees, nil
}

// FeeByAmount asks the server which tier applies to amount. An unmatched
// amount comes back as a zero fee, not an error.
func (c *Client) FeeByAmount(ctx context.Context, amount float64) (models.FeeTier, error) {
	var out struct {
		TransferFee models.FeeTier `json:"transferFee"`
	}
	path := "/transfer-fees/amount/" + strconv.FormatFloat(amount, 'f', -1, 64)
	err := c.call(ctx, http.MethodGet, path, nil, nil, &out)
	return out.TransferFee, err
}

// SaveFeeTiers replaces the whole tier table in one request.
func (c *Client) SaveFeeTiers(ctx context.Context, tiers []models.FeeTier) ([]models.FeeTier, error) {
	var out struct {
		TransferFees []models.FeeTier `json:"transferFees"`
	}
	body := models.SaveFeeTiersInput{Data: tiers}
	if err := c.call(ctx, http.MethodPost, "/transfer-fees/many", nil, body, &out); err != nil {
		return nil, err
	}
	return out.TransferFees, nil
}

func (c *Client) Branches(ctx context.Context) ([]models.Branch, error) {
	var out struct {
		Branches []models.Branch `json:"branches"`
	}
	if err := c.call(ctx, http.MethodGet, "/branches", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Branches, nil
}

// Download is a generated report file.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DefaultFilename is used when the server sends no Content-Disposition name.
const DefaultFilename = "report"

// Export requests a PDF or Excel rendering of the report for a date range.
func (c *Client) Export(ctx context.Context, format models.ExportFormat, q reportpager.Query) (*Download, error) {
	v := reportQuery(q)
	v.Set("fileType", string(format))
	req, err := c.newRequest(ctx, http.MethodGet, "/transfer-records/reports/export", v, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	d := &Download{
		Filename:    filenameFrom(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}
	c.log.Info("report exported",
		zap.String("file", d.Filename),
		zap.String("format", string(format)),
		zap.Int("bytes", len(data)))
	return d, nil
}

func filenameFrom(disposition string) string {
	if disposition == "" {
		return DefaultFilename
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil || params["filename"] == "" {
		return DefaultFilename
	}
	name := filepath.Base(params["filename"])
	if name == "." || name == ".." || name == "/" {
		return DefaultFilename
	}
	return name
}
