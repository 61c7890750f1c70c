package handlers

import (
	"errors"
	"net/http"
	"time"

	"maitred/services/reservation"
	"maitred/services/summary"
	"maitred/utils"

	"github.com/gin-gonic/gin"
)

// CallHandler exposes the per-call tool surface and the summary hand-off to
// the conversational orchestrator.
type CallHandler struct {
	Sessions *reservation.SessionManager
	Summary  summary.Service
}

// NewCallHandler creates a CallHandler.
func NewCallHandler(sessions *reservation.SessionManager, summarySvc summary.Service) *CallHandler {
	return &CallHandler{Sessions: sessions, Summary: summarySvc}
}

// ToolCallHandler invokes one named tool for a call. The response carries the
// spoken-style result string plus whether the session has ended.
func (h *CallHandler) ToolCallHandler(c *gin.Context) {
	callID := c.Param("callId")
	tool := reservation.ToolName(c.Param("tool"))
	session := h.Sessions.GetOrCreate(callID)

	req, err := bindToolRequest(c, tool)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid tool request", err.Error())
		return
	}

	result, err := session.Dispatch(c.Request.Context(), tool, req)
	if err != nil {
		var storageErr *reservation.StorageError
		if errors.As(err, &storageErr) {
			utils.JSONError(c, http.StatusServiceUnavailable,
				"The system is temporarily unable to complete the request", storageErr.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "Tool call failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result, "ended": session.Ended()})
}

// bindToolRequest decodes the typed request for tools that carry a body.
func bindToolRequest(c *gin.Context, tool reservation.ToolName) (any, error) {
	switch tool {
	case reservation.ToolIdentifyUser:
		var req reservation.IdentifyUserRequest
		err := c.ShouldBindJSON(&req)
		return req, err
	case reservation.ToolBookAppointment:
		var req reservation.BookAppointmentRequest
		err := c.ShouldBindJSON(&req)
		return req, err
	case reservation.ToolCancelAppointment:
		var req reservation.CancelAppointmentRequest
		err := c.ShouldBindJSON(&req)
		return req, err
	case reservation.ToolModifyAppointment:
		var req reservation.ModifyAppointmentRequest
		err := c.ShouldBindJSON(&req)
		return req, err
	case reservation.ToolUpdateBookingDetails:
		var req reservation.UpdateBookingDetailsRequest
		err := c.ShouldBindJSON(&req)
		return req, err
	default:
		// fetch_slots, retrieve_appointments and end_conversation take no body.
		return nil, nil
	}
}

// SessionDataHandler returns the session's accumulated data for summarization.
func (h *CallHandler) SessionDataHandler(c *gin.Context) {
	callID := c.Param("callId")
	session, ok := h.Sessions.Get(callID)
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "Unknown call", callID)
		return
	}
	c.JSON(http.StatusOK, session.SessionData())
}

type finalizeRequest struct {
	Content string `json:"content"`
}

// FinalizeHandler receives the externally generated summary text, persists the
// call record, and discards the session.
func (h *CallHandler) FinalizeHandler(c *gin.Context) {
	callID := c.Param("callId")
	session, ok := h.Sessions.Get(callID)
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "Unknown call", callID)
		return
	}

	var req finalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid summary payload", err.Error())
		return
	}

	record := h.Summary.BuildCallRecord(session.SessionData(), req.Content, time.Now())
	if err := h.Summary.SaveCallRecord(c.Request.Context(), record); err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Failed to persist call record", err.Error())
		return
	}

	h.Sessions.Remove(callID)
	c.JSON(http.StatusOK, gin.H{"status": "success", "record": record})
}
