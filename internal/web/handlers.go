package web

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/avelinek/tripstash/internal/config"
	"github.com/avelinek/tripstash/internal/errors"
	"github.com/avelinek/tripstash/internal/ops"
	"github.com/avelinek/tripstash/internal/stash"
)

// callerHeader carries the authenticated user id, populated by the
// upstream auth layer. The API trusts it; running this server without
// that layer in front means trusting every client.
const callerHeader = "X-Stash-User"

// Handlers contains HTTP route handlers for the JSON API and share views.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	deps    Deps
	version string
}

// caller extracts the authenticated user id, or writes a 400 and
// returns false when the header is missing.
func (h *Handlers) caller(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(callerHeader)
	if id == "" {
		renderError(w, errors.NewInvalidInput(callerHeader+" header is required"))
		return "", false
	}
	return id, true
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewInvalidInput("invalid JSON body: " + err.Error())
	}
	return nil
}

// HandleSaveItem handles POST /api/items.
func (h *Handlers) HandleSaveItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var body struct {
		Kind        stash.SourceKind `json:"kind"`
		SourceURL   *string          `json:"source_url"`
		ImageRef    *string          `json:"image_ref"`
		Title       string           `json:"title"`
		Description *string          `json:"description"`
		City        *string          `json:"city"`
		Notes       *string          `json:"notes"`
		Tags        []string         `json:"tags"`
		Category    stash.Category   `json:"category"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.SaveItem(r.Context(), h.db, h.deps.Fetcher, h.deps.Sink, ops.SaveItemInput{
		Caller:      caller,
		Kind:        body.Kind,
		SourceURL:   body.SourceURL,
		ImageRef:    body.ImageRef,
		Title:       body.Title,
		Description: body.Description,
		City:        body.City,
		Notes:       body.Notes,
		Tags:        body.Tags,
		Category:    body.Category,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusCreated, result)
}

// HandleListItems handles GET /api/items.
func (h *Handlers) HandleListItems(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	result, err := ops.ListItems(r.Context(), h.db, h.cfg, ops.ListItemsInput{
		Caller:          caller,
		IncludeArchived: parseBoolParam(r, "include_archived"),
		Limit:           parseIntParam(r, "limit", 0),
		Offset:          parseIntParam(r, "offset", 0),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleUpdateItem handles PATCH /api/items/{id}.
func (h *Handlers) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var body struct {
		Title    *string         `json:"title"`
		Category *stash.Category `json:"category"`
		City     *string         `json:"city"`
		Notes    *string         `json:"notes"`
		Tags     *[]string       `json:"tags"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.UpdateItem(r.Context(), h.db, ops.UpdateItemInput{
		Caller:   caller,
		ID:       r.PathValue("id"),
		Title:    body.Title,
		Category: body.Category,
		City:     body.City,
		Notes:    body.Notes,
		Tags:     body.Tags,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleArchiveItem handles POST /api/items/{id}/archive.
func (h *Handlers) HandleArchiveItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	result, err := ops.ArchiveItem(r.Context(), h.db, ops.ArchiveItemInput{
		Caller: caller,
		ID:     r.PathValue("id"),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandlePurgeArchived handles POST /api/items/purge.
func (h *Handlers) HandlePurgeArchived(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	result, err := ops.PurgeArchived(r.Context(), h.db, ops.PurgeArchivedInput{Caller: caller})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleCreateTrip handles POST /api/trips.
func (h *Handlers) HandleCreateTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var body struct {
		Title      string  `json:"title"`
		StartDate  *string `json:"start_date"`
		EndDate    *string `json:"end_date"`
		CoverImage *string `json:"cover_image"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.CreateTrip(r.Context(), h.db, h.deps.Sink, ops.CreateTripInput{
		Caller:     caller,
		Title:      body.Title,
		StartDate:  body.StartDate,
		EndDate:    body.EndDate,
		CoverImage: body.CoverImage,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusCreated, result)
}

// HandleListTrips handles GET /api/trips.
func (h *Handlers) HandleListTrips(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	result, err := ops.ListTrips(r.Context(), h.db, h.cfg, ops.ListTripsInput{
		Caller: caller,
		Limit:  parseIntParam(r, "limit", 0),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleGetTrip handles GET /api/trips/{id}.
func (h *Handlers) HandleGetTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	result, err := ops.GetTrip(r.Context(), h.db, ops.GetTripInput{
		Caller: caller,
		ID:     r.PathValue("id"),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleUpdateTrip handles PATCH /api/trips/{id}.
func (h *Handlers) HandleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var body struct {
		Title      *string `json:"title"`
		CoverImage *string `json:"cover_image"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.UpdateTrip(r.Context(), h.db, ops.UpdateTripInput{
		Caller:     caller,
		ID:         r.PathValue("id"),
		Title:      body.Title,
		CoverImage: body.CoverImage,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleDeleteTrip handles DELETE /api/trips/{id}.
func (h *Handlers) HandleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	result, err := ops.DeleteTrip(r.Context(), h.db, ops.DeleteTripInput{
		Caller: caller,
		ID:     r.PathValue("id"),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleSchedule handles POST /api/trips/{id}/schedule.
func (h *Handlers) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var body struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.ScheduleTrip(r.Context(), h.db, h.deps.Sink, ops.ScheduleTripInput{
		Caller:    caller,
		ID:        r.PathValue("id"),
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleUnschedule handles POST /api/trips/{id}/unschedule.
func (h *Handlers) HandleUnschedule(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	result, err := ops.UnscheduleTrip(r.Context(), h.db, ops.UnscheduleTripInput{
		Caller: caller,
		ID:     r.PathValue("id"),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAttach handles POST /api/trips/{id}/items.
func (h *Handlers) HandleAttach(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var body struct {
		ItemID string `json:"item_id"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.AttachItem(r.Context(), h.db, ops.AttachItemInput{
		Caller: caller,
		TripID: r.PathValue("id"),
		ItemID: body.ItemID,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	status := http.StatusCreated
	if result.AlreadyAttached {
		status = http.StatusOK
	}
	renderJSON(w, status, result)
}

// HandleDetach handles DELETE /api/trips/{id}/items/{tripItemID}.
func (h *Handlers) HandleDetach(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	result, err := ops.DetachItem(r.Context(), h.db, ops.DetachItemInput{
		Caller:     caller,
		TripID:     r.PathValue("id"),
		TripItemID: r.PathValue("tripItemID"),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAssignDay handles PUT /api/trips/{id}/items/{tripItemID}/day.
// A null day in the body moves the item back to the unassigned bucket.
func (h *Handlers) HandleAssignDay(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var body struct {
		Day *int `json:"day"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.AssignDay(r.Context(), h.db, ops.AssignDayInput{
		Caller:     caller,
		TripID:     r.PathValue("id"),
		TripItemID: r.PathValue("tripItemID"),
		DayIndex:   body.Day,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleReorder handles POST /api/trips/{id}/reorder.
func (h *Handlers) HandleReorder(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var body struct {
		Day        *int     `json:"day"`
		OrderedIDs []string `json:"ordered_ids"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.Reorder(r.Context(), h.db, ops.ReorderInput{
		Caller:     caller,
		TripID:     r.PathValue("id"),
		DayIndex:   body.Day,
		OrderedIDs: body.OrderedIDs,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleDays handles GET /api/trips/{id}/days.
func (h *Handlers) HandleDays(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	result, err := ops.GroupByDay(r.Context(), h.db, ops.GroupByDayInput{
		Caller: caller,
		TripID: r.PathValue("id"),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleCategories handles GET /api/trips/{id}/categories.
func (h *Handlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	result, err := ops.GroupByCategory(r.Context(), h.db, ops.GroupByCategoryInput{
		Caller: caller,
		TripID: r.PathValue("id"),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleShare handles POST /api/trips/{id}/share.
func (h *Handlers) HandleShare(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var body struct {
		Tier stash.PrivacyTier `json:"tier"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.GenerateLink(r.Context(), h.db, h.cfg, h.deps.Sink, ops.GenerateLinkInput{
		Caller: caller,
		TripID: r.PathValue("id"),
		Tier:   body.Tier,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleAdopt handles POST /api/adopt.
func (h *Handlers) HandleAdopt(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.AdoptTrip(r.Context(), h.db, h.deps.Sink, ops.AdoptTripInput{
		Caller: caller,
		Token:  body.Token,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusCreated, result)
}

// HandleInvite handles POST /api/trips/{id}/invites.
func (h *Handlers) HandleInvite(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var body struct {
		Email    string `json:"email"`
		Redirect string `json:"redirect"`
	}
	if err := decodeBody(r, &body); err != nil {
		renderError(w, err)
		return
	}

	result, err := ops.Invite(r.Context(), h.db, h.deps.Invites, ops.InviteInput{
		Caller:   caller,
		TripID:   r.PathValue("id"),
		Email:    body.Email,
		Redirect: body.Redirect,
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleListMembers handles GET /api/trips/{id}/members.
func (h *Handlers) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	result, err := ops.ListMembers(r.Context(), h.db, ops.ListMembersInput{
		Caller: caller,
		TripID: r.PathValue("id"),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleRemoveCompanion handles DELETE /api/trips/{id}/companions/{companionID}.
func (h *Handlers) HandleRemoveCompanion(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	result, err := ops.RemoveCompanion(r.Context(), h.db, ops.RemoveCompanionInput{
		Caller:      caller,
		TripID:      r.PathValue("id"),
		CompanionID: r.PathValue("companionID"),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleRevokeInvite handles DELETE /api/trips/{id}/invites/{inviteID}.
func (h *Handlers) HandleRevokeInvite(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	result, err := ops.RevokePendingInvite(r.Context(), h.db, ops.RevokePendingInviteInput{
		Caller:   caller,
		TripID:   r.PathValue("id"),
		InviteID: r.PathValue("inviteID"),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleResolveShare handles GET /s/{token} — the anonymous JSON view.
func (h *Handlers) HandleResolveShare(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Resolve(r.Context(), h.db, h.deps.Sink, ops.ResolveInput{
		Token: r.PathValue("token"),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleShareHTML handles GET /s/{token}/html — the anonymous HTML view.
func (h *Handlers) HandleShareHTML(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Resolve(r.Context(), h.db, h.deps.Sink, ops.ResolveInput{
		Token: r.PathValue("token"),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderSharePage(w, result)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
