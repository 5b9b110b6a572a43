package branches

import (
	"context"
	"database/sql"

	"retail-transfers/app/models"
	"retail-transfers/app/routes/response"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Store interface {
	ListBranches(ctx context.Context) ([]models.Branch, error)
}

type SQLStore struct {
	DB *sql.DB
}

func (s SQLStore) ListBranches(ctx context.Context) ([]models.Branch, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name FROM branches ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := []models.Branch{} // Initialize to empty slice for non-null JSON
	for rows.Next() {
		var b models.Branch
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

type Handler struct {
	store Store
	log   *zap.Logger
}

func NewHandler(store Store, log *zap.Logger) *Handler {
	return &Handler{store: store, log: log}
}

func SetupBranchesRoutes(router fiber.Router, h *Handler) {
	router.Get("/branches", h.GetBranchesAPI)
}

func (h *Handler) GetBranchesAPI(c *fiber.Ctx) error {
	branches, err := h.store.ListBranches(c.UserContext())
	if err != nil {
		h.log.Error("failed to list branches", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load branches")
	}
	return response.OK(c, fiber.Map{"branches": branches})
}
