package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Every tool takes an explicit "user" argument: the MCP transport has no
// session identity, so the caller names itself on each call, exactly like
// the HTTP surface does with its identity header.

var saveItemToolDef = mcp.NewTool("save_item",
	mcp.WithDescription("Capture a piece of travel inspiration (a link, screenshot reference, or manual note) into the user's library."),
	mcp.WithString("user", mcp.Required(), mcp.Description("Acting user id")),
	mcp.WithString("kind", mcp.Required(), mcp.Description("Capture kind: url, screenshot, or manual")),
	mcp.WithString("source_url", mcp.Description("The captured link (kind url)")),
	mcp.WithString("image_ref", mcp.Description("Opaque image storage reference (kind screenshot)")),
	mcp.WithString("title", mcp.Description("Item title; blank falls back to the fetched page title")),
	mcp.WithString("description", mcp.Description("Free-form description")),
	mcp.WithString("city", mcp.Description("City this item belongs to")),
	mcp.WithString("notes", mcp.Description("Personal notes, markdown allowed")),
	mcp.WithString("category", mcp.Description("restaurant, activity, hotel, transit, or general")),
)

var listItemsToolDef = mcp.NewTool("list_items",
	mcp.WithDescription("List the user's saved items, newest first."),
	mcp.WithString("user", mcp.Required(), mcp.Description("Acting user id")),
	mcp.WithBoolean("include_archived", mcp.Description("Include archived items")),
	mcp.WithNumber("limit", mcp.Description("Page size")),
	mcp.WithNumber("offset", mcp.Description("Page offset")),
)

var createTripToolDef = mcp.NewTool("create_trip",
	mcp.WithDescription("Create a trip. Supplying both dates yields a scheduled trip; neither yields a draft."),
	mcp.WithString("user", mcp.Required(), mcp.Description("Acting user id")),
	mcp.WithString("title", mcp.Required(), mcp.Description("Trip title")),
	mcp.WithString("start_date", mcp.Description("YYYY-MM-DD")),
	mcp.WithString("end_date", mcp.Description("YYYY-MM-DD")),
)

var listTripsToolDef = mcp.NewTool("list_trips",
	mcp.WithDescription("List the user's trips, newest first."),
	mcp.WithString("user", mcp.Required(), mcp.Description("Acting user id")),
	mcp.WithNumber("limit", mcp.Description("Page size")),
	mcp.WithNumber("offset", mcp.Description("Page offset")),
)

var attachItemToolDef = mcp.NewTool("attach_item",
	mcp.WithDescription("Attach a saved item to a trip. The item lands in the unassigned bucket; repeat attaches are no-ops."),
	mcp.WithString("user", mcp.Required(), mcp.Description("Acting user id")),
	mcp.WithString("trip_id", mcp.Required(), mcp.Description("Target trip")),
	mcp.WithString("item_id", mcp.Required(), mcp.Description("Saved item to attach")),
)

var assignDayToolDef = mcp.NewTool("assign_day",
	mcp.WithDescription("Move a trip item to a 1-based day of a scheduled trip, or back to the unassigned bucket when day is omitted."),
	mcp.WithString("user", mcp.Required(), mcp.Description("Acting user id")),
	mcp.WithString("trip_id", mcp.Required(), mcp.Description("Trip the item is on")),
	mcp.WithString("trip_item_id", mcp.Required(), mcp.Description("Trip item to move")),
	mcp.WithNumber("day", mcp.Description("1-based day index; omit to unassign")),
)

var tripDaysToolDef = mcp.NewTool("trip_days",
	mcp.WithDescription("Read a trip's itinerary grouped by day: the unassigned bucket plus each populated day in order."),
	mcp.WithString("user", mcp.Required(), mcp.Description("Acting user id")),
	mcp.WithString("trip_id", mcp.Required(), mcp.Description("Trip to read")),
)

var shareTripToolDef = mcp.NewTool("share_trip",
	mcp.WithDescription("Activate sharing for a trip at a privacy tier (city_only, city_dates, or full) and return the share link."),
	mcp.WithString("user", mcp.Required(), mcp.Description("Acting user id")),
	mcp.WithString("trip_id", mcp.Required(), mcp.Description("Trip to share")),
	mcp.WithString("tier", mcp.Required(), mcp.Description("city_only, city_dates, or full")),
)
