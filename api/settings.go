package api

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/hornetmadness/MyBudget/config"
	"github.com/hornetmadness/MyBudget/database"
	"github.com/hornetmadness/MyBudget/models"
)

// SettingsHandler serves application settings and the database
// download.
type SettingsHandler struct{}

// NewSettingsHandler creates the settings handler.
func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{}
}

// SettingInput is one key/value pair for the bulk upsert.
type SettingInput struct {
	Key         string `json:"key" binding:"required" example:"currency_symbol"`
	Value       string `json:"value" example:"$"`
	DisplayName string `json:"display_name"`
}

// UpdateSettingRequest updates one setting's value or display name.
type UpdateSettingRequest struct {
	Value       *string `json:"value"`
	DisplayName *string `json:"display_name"`
}

// List lists settings
// @Summary List settings
// @Tags settings
// @Produce json
// @Success 200 {object} Response{data=[]models.Setting}
// @Router /api/v1/settings [get]
func (h *SettingsHandler) List(c *gin.Context) {
	var settings []models.Setting
	if err := database.DB.Order("setting_key ASC").Find(&settings).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list settings"))
		return
	}
	Success(c, settings)
}

// Upsert creates or updates settings in bulk
// @Summary Upsert settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body []SettingInput true "settings"
// @Success 200 {object} Response{data=[]models.Setting}
// @Failure 400 {object} Response
// @Router /api/v1/settings [post]
func (h *SettingsHandler) Upsert(c *gin.Context) {
	var req []SettingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	if len(req) == 0 {
		BadRequest(c, "no settings provided")
		return
	}

	out := make([]models.Setting, 0, len(req))
	for _, in := range req {
		var setting models.Setting
		err := database.DB.First(&setting, "setting_key = ?", in.Key).Error
		if err != nil {
			setting = models.Setting{
				Key:         in.Key,
				Value:       in.Value,
				DisplayName: in.DisplayName,
			}
			if err := database.DB.Create(&setting).Error; err != nil {
				InternalError(c, SafeErrorMessage(err, "failed to save setting"))
				return
			}
		} else {
			updates := map[string]interface{}{"value": in.Value}
			if in.DisplayName != "" {
				updates["display_name"] = in.DisplayName
			}
			if err := database.DB.Model(&setting).Updates(updates).Error; err != nil {
				InternalError(c, SafeErrorMessage(err, "failed to save setting"))
				return
			}
			database.DB.First(&setting, "id = ?", setting.ID)
		}
		out = append(out, setting)
	}

	SuccessWithMessage(c, "settings saved", out)
}

// Update updates one setting by key
// @Summary Update a setting
// @Tags settings
// @Accept json
// @Produce json
// @Param key path string true "setting key"
// @Param request body UpdateSettingRequest true "fields to update"
// @Success 200 {object} Response{data=models.Setting}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/settings/{key} [patch]
func (h *SettingsHandler) Update(c *gin.Context) {
	key := c.Param("key")

	var setting models.Setting
	if err := database.DB.First(&setting, "setting_key = ?", key).Error; err != nil {
		NotFound(c, "setting not found")
		return
	}

	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Value != nil {
		updates["value"] = *req.Value
	}
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if len(updates) == 0 {
		BadRequest(c, "nothing to update")
		return
	}

	if err := database.DB.Model(&setting).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update setting"))
		return
	}

	database.DB.First(&setting, "id = ?", setting.ID)
	SuccessWithMessage(c, "setting updated", setting)
}

// DownloadDatabase streams the sqlite database file
// @Summary Download the database
// @Description Only available when the sqlite driver is configured.
// @Tags settings
// @Produce application/octet-stream
// @Success 200 {file} file "sqlite database"
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/settings/database [get]
func (h *SettingsHandler) DownloadDatabase(c *gin.Context) {
	cfg := config.GlobalConfig
	if cfg == nil || cfg.Database.Driver != "sqlite" {
		BadRequest(c, "database download is only available for sqlite")
		return
	}

	path := cfg.Database.Path
	if _, err := os.Stat(path); err != nil {
		NotFound(c, "database file not found")
		return
	}

	c.FileAttachment(path, "mybudget.db")
}
