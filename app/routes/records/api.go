package records

import (
	"bytes"
	"fmt"
	"strconv"

	"retail-transfers/app/export"
	"retail-transfers/app/metrics"
	"retail-transfers/app/models"
	"retail-transfers/app/recordform"
	"retail-transfers/app/routes/auth"
	"retail-transfers/app/routes/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetTransferRecordsAPI lists records newest first, one page at a time.
func (h *Handler) GetTransferRecordsAPI(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "page must be a positive number")
	}
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be a positive number")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	recs, total, err := h.store.ListRecords(c.UserContext(), limit, (page-1)*limit)
	if err != nil {
		h.log.Error("failed to list transfer records", zap.Int("page", page), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load transfer records")
	}

	return response.OK(c, models.RecordList{
		TransferRecords: recs,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	})
}

func (h *Handler) GetReportsAPI(c *fiber.Ctx) error {
	f, errs := parseReportFilter(c)
	if errs != nil {
		return response.Invalid(c, errs)
	}

	ctx := c.UserContext()
	recs, err := h.store.RecordsBetween(ctx, f)
	if err != nil {
		h.log.Error("failed to load report", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load reports")
	}
	earliest, err := h.store.EarliestRecordDate(ctx, f)
	if err != nil {
		h.log.Error("failed to load earliest record date", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load reports")
	}

	page := models.ReportPage{TransferRecords: GroupByDay(recs)}
	if earliest != nil {
		s := earliest.Format(models.DateLayout)
		page.EarliestRecordDate = &s
	}
	return response.OK(c, page)
}

// ExportReportsAPI renders the same report as a PDF or Excel attachment.
func (h *Handler) ExportReportsAPI(c *fiber.Ctx) error {
	format := models.ExportFormat(c.Query("fileType"))
	if !format.Valid() {
		return response.Invalid(c, map[string]string{"fileType": "must be pdf or excel"})
	}
	f, errs := parseReportFilter(c)
	if errs != nil {
		return response.Invalid(c, errs)
	}

	recs, err := h.store.RecordsBetween(c.UserContext(), f)
	if err != nil {
		h.log.Error("failed to load report for export", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load reports")
	}

	report := export.Report{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Pay:       f.Pay,
		Buckets:   GroupByDay(recs),
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, format, report); err != nil {
		h.log.Error("failed to render export", zap.String("format", string(format)), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate file")
	}
	metrics.ReportExports.WithLabelValues(string(format)).Inc()

	c.Set(fiber.HeaderContentType, export.ContentType(format))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, export.Filename(format, report)))
	return c.Send(buf.Bytes())
}

func (h *Handler) CreateTransferRecordAPI(c *fiber.Ctx) error {
	var in models.CreateRecordInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	ctx := c.UserContext()
	hasBranches, err := h.store.HasBranches(ctx)
	if err != nil {
		h.log.Error("failed to check branches", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create transfer record")
	}

	if errs := recordform.ValidatePayload(in, hasBranches); errs != nil {
		return response.Invalid(c, errs.Fields())
	}
	recordform.Normalize(&in)

	date, err := recordform.ParseDate(in.Date)
	if err != nil {
		return response.Invalid(c, map[string]string{"date": err.Error()})
	}

	user := auth.CurrentUser(c)
	rec := &models.TransferRecord{
		ID:          uuid.NewString(),
		PhoneNo:     in.PhoneNo,
		Amount:      in.Amount,
		Fee:         in.Fee,
		Pay:         in.Pay,
		Type:        in.Type,
		Description: in.Description,
		EntryPerson: user.FullName(),
		Date:        date,
		BranchID:    in.BranchID,
	}

	if err := h.store.CreateRecord(ctx, rec); err != nil {
		h.log.Error("failed to create transfer record", zap.String("user_id", user.ID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create transfer record")
	}
	h.cache.InvalidateTotals(ctx)
	metrics.RecordsCreated.WithLabelValues(string(rec.Pay), string(rec.Type)).Inc()

	return response.Created(c, rec, "Transfer record created")
}
