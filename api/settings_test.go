package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hornetmadness/MyBudget/config"
	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/models"
)

func TestSettingsHandler_ListSeeded(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	w := doRequest(r, "GET", "/api/v1/settings", "")
	assert.Equal(t, 200, w.Code)
	items := dataList(t, decodeResponse(t, w))
	require.Len(t, items, 6)

	// sorted by key
	first := items[0].(map[string]interface{})
	assert.Equal(t, "currency_symbol", first["key"])
	assert.Equal(t, "$", first["value"])
}

func TestSettingsHandler_Upsert(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	w := doRequest(r, "POST", "/api/v1/settings",
		`[{"key":"currency_symbol","value":"€"},{"key":"theme","value":"dark","display_name":"Theme"}]`)
	assert.Equal(t, 200, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "settings saved", resp["message"])
	assert.Len(t, dataList(t, resp), 2)

	var currency models.Setting
	require.NoError(t, database.DB.First(&currency, "setting_key = ?", "currency_symbol").Error)
	assert.Equal(t, "€", currency.Value)

	var theme models.Setting
	require.NoError(t, database.DB.First(&theme, "setting_key = ?", "theme").Error)
	assert.Equal(t, "dark", theme.Value)
	assert.Equal(t, "Theme", theme.DisplayName)

	var count int64
	require.NoError(t, database.DB.Model(&models.Setting{}).Count(&count).Error)
	assert.EqualValues(t, 7, count)

	w = doRequest(r, "POST", "/api/v1/settings", `[]`)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "no settings provided", decodeResponse(t, w)["message"])
}

func TestSettingsHandler_Update(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	w := doRequest(r, "PATCH", "/api/v1/settings/timezone", `{"value":"UTC"}`)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "setting updated", decodeResponse(t, w)["message"])

	var tz models.Setting
	require.NoError(t, database.DB.First(&tz, "setting_key = ?", "timezone").Error)
	assert.Equal(t, "UTC", tz.Value)

	w = doRequest(r, "PATCH", "/api/v1/settings/unknown_key", `{"value":"x"}`)
	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "setting not found", decodeResponse(t, w)["message"])

	w = doRequest(r, "PATCH", "/api/v1/settings/timezone", `{}`)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "nothing to update", decodeResponse(t, w)["message"])
}

func TestSettingsHandler_DownloadDatabase(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	w := doRequest(r, "GET", "/api/v1/settings/database", "")
	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "mybudget.db")
	assert.NotZero(t, w.Body.Len())
}

func TestSettingsHandler_DownloadDatabase_MySQLRefused(t *testing.T) {
	setupTestDB(t)
	r := newTestRouter()

	oldCfg := config.GlobalConfig
	cfg := &config.Config{}
	cfg.Database.Driver = "mysql"
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = oldCfg }()

	w := doRequest(r, "GET", "/api/v1/settings/database", "")
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "database download is only available for sqlite", decodeResponse(t, w)["message"])
}
