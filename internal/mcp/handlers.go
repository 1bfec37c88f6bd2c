package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelinek/tripstash/internal/analytics"
	"github.com/avelinek/tripstash/internal/config"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/ops"
	"github.com/avelinek/tripstash/internal/stash"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	fetcher ops.PreviewFetcher
	sink    analytics.Sink
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, fetcher ops.PreviewFetcher, sink analytics.Sink) *Handlers {
	return &Handlers{db: db, cfg: cfg, fetcher: fetcher, sink: sink}
}

// Request types for each tool

// SaveItemRequest represents the arguments for save_item.
type SaveItemRequest struct {
	User        string  `json:"user"`
	Kind        string  `json:"kind"`
	SourceURL   *string `json:"source_url,omitempty"`
	ImageRef    *string `json:"image_ref,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	City        *string `json:"city,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Category    string  `json:"category,omitempty"`
}

// ListItemsRequest represents the arguments for list_items.
type ListItemsRequest struct {
	User            string `json:"user"`
	IncludeArchived bool   `json:"include_archived,omitempty"`
	Limit           int    `json:"limit,omitempty"`
	Offset          int    `json:"offset,omitempty"`
}

// CreateTripRequest represents the arguments for create_trip.
type CreateTripRequest struct {
	User      string  `json:"user"`
	Title     string  `json:"title"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

// ListTripsRequest represents the arguments for list_trips.
type ListTripsRequest struct {
	User   string `json:"user"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// AttachItemRequest represents the arguments for attach_item.
type AttachItemRequest struct {
	User   string `json:"user"`
	TripID string `json:"trip_id"`
	ItemID string `json:"item_id"`
}

// AssignDayRequest represents the arguments for assign_day.
type AssignDayRequest struct {
	User       string `json:"user"`
	TripID     string `json:"trip_id"`
	TripItemID string `json:"trip_item_id"`
	Day        *int   `json:"day,omitempty"`
}

// TripDaysRequest represents the arguments for trip_days.
type TripDaysRequest struct {
	User   string `json:"user"`
	TripID string `json:"trip_id"`
}

// ShareTripRequest represents the arguments for share_trip.
type ShareTripRequest struct {
	User   string `json:"user"`
	TripID string `json:"trip_id"`
	Tier   string `json:"tier"`
}

// Handler implementations

// HandleSaveItem handles the save_item tool call.
func (h *Handlers) HandleSaveItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveItemRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := ops.SaveItem(ctx, h.db, h.fetcher, h.sink, ops.SaveItemInput{
		Caller:      input.User,
		Kind:        stash.SourceKind(input.Kind),
		SourceURL:   input.SourceURL,
		ImageRef:    input.ImageRef,
		Title:       input.Title,
		Description: input.Description,
		City:        input.City,
		Notes:       input.Notes,
		Category:    stash.Category(input.Category),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleListItems handles the list_items tool call.
func (h *Handlers) HandleListItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListItemsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := ops.ListItems(ctx, h.db, h.cfg, ops.ListItemsInput{
		Caller:          input.User,
		IncludeArchived: input.IncludeArchived,
		Limit:           input.Limit,
		Offset:          input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCreateTrip handles the create_trip tool call.
func (h *Handlers) HandleCreateTrip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateTripRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := ops.CreateTrip(ctx, h.db, h.sink, ops.CreateTripInput{
		Caller:    input.User,
		Title:     input.Title,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleListTrips handles the list_trips tool call.
func (h *Handlers) HandleListTrips(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListTripsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := ops.ListTrips(ctx, h.db, h.cfg, ops.ListTripsInput{
		Caller: input.User,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleAttachItem handles the attach_item tool call.
func (h *Handlers) HandleAttachItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AttachItemRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := ops.AttachItem(ctx, h.db, ops.AttachItemInput{
		Caller: input.User,
		TripID: input.TripID,
		ItemID: input.ItemID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleAssignDay handles the assign_day tool call.
func (h *Handlers) HandleAssignDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AssignDayRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := ops.AssignDay(ctx, h.db, ops.AssignDayInput{
		Caller:     input.User,
		TripID:     input.TripID,
		TripItemID: input.TripItemID,
		DayIndex:   input.Day,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleTripDays handles the trip_days tool call.
func (h *Handlers) HandleTripDays(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TripDaysRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := ops.GroupByDay(ctx, h.db, ops.GroupByDayInput{
		Caller: input.User,
		TripID: input.TripID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleShareTrip handles the share_trip tool call.
func (h *Handlers) HandleShareTrip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ShareTripRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	result, err := ops.GenerateLink(ctx, h.db, h.cfg, h.sink, ops.GenerateLinkInput{
		Caller: input.User,
		TripID: input.TripID,
		Tier:   stash.PrivacyTier(input.Tier),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.StashError); ok {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
