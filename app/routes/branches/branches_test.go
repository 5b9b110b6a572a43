package branches

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"retail-transfers/app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore []models.Branch

func (f fakeStore) ListBranches(ctx context.Context) ([]models.Branch, error) {
	return f, nil
}

func TestGetBranches(t *testing.T) {
	app := fiber.New()
	SetupBranchesRoutes(app, NewHandler(fakeStore{{ID: 1, Name: "Downtown"}, {ID: 2, Name: "Market"}}, zap.NewNop()))

	resp, err := app.Test(httptest.NewRequest("GET", "/branches", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var env models.Envelope[struct {
		Branches []models.Branch `json:"branches"`
	}]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.True(t, env.Success)
	assert.Equal(t, 200, env.Status)
	assert.Len(t, env.Data.Branches, 2)
	assert.Equal(t, "Market", env.Data.Branches[1].Name)
}
