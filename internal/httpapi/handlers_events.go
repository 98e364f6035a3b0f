package httpapi

import (
	"net/http"
	"strings"

	"DispoCeSoir/internal/domain"
	"DispoCeSoir/internal/workspace"
)

type tallyResponse struct {
	Location string  `json:"location"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"`
}

type eventResponse struct {
	domain.Event
	Leaders []string        `json:"leaders"`
	Tallies []tallyResponse `json:"tallies"`
}

func toEventResponse(e domain.Event) eventResponse {
	resp := eventResponse{
		Event:   e,
		Leaders: e.Votes.Leaders(),
		Tallies: make([]tallyResponse, 0, len(e.Votes)),
	}
	if resp.Leaders == nil {
		resp.Leaders = []string{}
	}
	for _, t := range e.Votes {
		resp.Tallies = append(resp.Tallies, tallyResponse{
			Location: t.Location,
			Count:    t.Count,
			Share:    e.Votes.Share(t.Location),
		})
	}
	return resp
}

func (a *api) handleEventsList(w http.ResponseWriter, r *http.Request) {
	snap := workspace.MustFromContext(r.Context()).Social.Snapshot()

	out := make([]eventResponse, 0, len(snap.Events))
	for _, e := range snap.Events {
		out = append(out, toEventResponse(e))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"events": out})
}

// handleEventsCreate defaults the organizer to the signed-in name. Votes and
// participants are taken as sent.
func (a *api) handleEventsCreate(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())

	var draft domain.EventDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	fields := map[string]string{}
	if strings.TrimSpace(draft.Title) == "" {
		fields["title"] = "required"
	}
	if strings.TrimSpace(draft.Location) == "" {
		fields["location"] = "required"
	}
	if strings.TrimSpace(draft.Time) == "" {
		fields["time"] = "required"
	}
	for _, v := range draft.Votes {
		if v.Count < 0 {
			fields["votes"] = "counts must be >= 0"
		}
	}
	if len(fields) > 0 {
		WriteDomainError(w, domain.NewValidationError(fields))
		return
	}

	if draft.Organizer == "" {
		if id, ok := ws.Session.Current(); ok {
			draft.Organizer = id.Name
		}
	}
	if draft.Participants == nil {
		draft.Participants = []string{}
	}

	created := ws.Social.CreateEvent(draft)
	WriteJSON(w, http.StatusCreated, toEventResponse(created))
}
