package catalog

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T) *fiber.App {
	feature := NewFeature(setupRepository(t), zap.NewNop())
	require.True(t, feature.IsEnabled())
	assert.Equal(t, "catalog", feature.Name())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app
}

func TestHandler(t *testing.T) {
	app := setupApp(t)

	tests := []struct {
		name string
		path string
		want int
		body string
	}{
		{"ListEvents", "/catalog/event", fiber.StatusOK, "Play_Greeting"},
		{"ListEmptyKind", "/catalog/initbank", fiber.StatusOK, "Init"},
		{"UnknownKind", "/catalog/rtpc", fiber.StatusBadRequest, "unknown resource kind"},
		{"GetEvent", "/catalog/event/100", fiber.StatusOK, "Play_Footstep"},
		{"GetMissing", "/catalog/media/9", fiber.StatusNotFound, "not found"},
		{"InvalidID", "/catalog/media/abc", fiber.StatusBadRequest, "invalid id"},
		{"Languages", "/catalog/languages", fiber.StatusOK, "French(France)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.body)
		})
	}
}

func TestHandler_ListShape(t *testing.T) {
	app := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/catalog/soundbank", nil))
	require.NoError(t, err)

	var summaries []Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, uint32(10), summaries[0].ID)
	assert.Equal(t, []string{"SFX"}, summaries[0].Languages)
}

func TestFeature_DisabledWithoutRepository(t *testing.T) {
	assert.False(t, NewFeature(nil, zap.NewNop()).IsEnabled())
}
