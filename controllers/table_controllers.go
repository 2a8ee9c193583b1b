package controllers

import (
	"net/http"
	"strconv"

	"github.com/VitalijsFilipovs/booking-bot/hub"
	"github.com/VitalijsFilipovs/booking-bot/services"
	"github.com/VitalijsFilipovs/booking-bot/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TableController struct {
	Tables *services.TableRegistry
	Hub    *hub.Hub
	Log    logrus.FieldLogger
}

func NewTableController(tables *services.TableRegistry, feed *hub.Hub, log logrus.FieldLogger) *TableController {
	return &TableController{Tables: tables, Hub: feed, Log: log}
}

// CreateTable adds a table to the registry.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
		Seats int    `json:"seats" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, "validation", err)
		return
	}

	table, err := tc.Tables.Add(c.Request.Context(), req.Title, req.Seats)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tc.Hub.BroadcastTableCreate(*table)
	tc.Log.WithFields(logrus.Fields{"table_id": table.ID, "seats": table.Seats}).Info("table created")
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Tables.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// UpdateTableActive takes a table out of service or puts it back.
func (tc *TableController) UpdateTableActive(c *gin.Context) {
	id, ok := idParam(c, "table_id")
	if !ok {
		return
	}
	var body struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondErrorCode(c, http.StatusBadRequest, "validation", err)
		return
	}

	table, err := tc.Tables.SetActive(c.Request.Context(), id, *body.Active)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tc.Hub.BroadcastTableUpdate(*table)
	tc.Log.WithFields(logrus.Fields{"table_id": table.ID, "active": table.Active}).Info("table updated")
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondErrorCode(c, http.StatusBadRequest, "validation", errInvalidID(name))
		return 0, false
	}
	return uint(id), true
}
