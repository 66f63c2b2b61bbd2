package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// TripRouter dispatches /api/trips/{trip_id} and its nested collections.
// DefaultServeMux has no path parameters, so the trailing segments are
// parsed by hand.
type TripRouter struct {
	Trips        *TripsHandler
	Checklist    *ChecklistHandler
	Budget       *BudgetHandler
	Participants *ParticipantsHandler
	Invitations  *InvitationsHandler
}

// Route handles every path under /api/trips/.
func (rt *TripRouter) Route(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/trips/")
	rest = strings.Trim(rest, "/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}
	parts := strings.Split(rest, "/")

	tripID, err := uuid.Parse(parts[0])
	if err != nil {
		http.Error(w, "Invalid trip id", http.StatusBadRequest)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			rt.Trips.TripDetail(w, r, tripID)
		case http.MethodDelete:
			rt.Trips.DeleteTrip(w, r, tripID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch parts[1] {
	case "checklist":
		rt.routeChecklist(w, r, tripID, parts)
	case "budget":
		rt.routeBudget(w, r, tripID, parts)
	case "participants":
		rt.routeParticipants(w, r, tripID, parts)
	case "invitations":
		rt.routeInvitations(w, r, tripID, parts)
	default:
		http.NotFound(w, r)
	}
}

func (rt *TripRouter) routeChecklist(w http.ResponseWriter, r *http.Request, tripID uuid.UUID, parts []string) {
	switch {
	case len(parts) == 2:
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rt.Checklist.AddItem(w, r, tripID)
	case len(parts) == 3:
		itemID, err := uuid.Parse(parts[2])
		if err != nil {
			http.Error(w, "Invalid item id", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rt.Checklist.RemoveItem(w, r, tripID, itemID)
	case len(parts) == 4 && parts[3] == "toggle":
		itemID, err := uuid.Parse(parts[2])
		if err != nil {
			http.Error(w, "Invalid item id", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rt.Checklist.ToggleItem(w, r, tripID, itemID)
	default:
		http.NotFound(w, r)
	}
}

func (rt *TripRouter) routeBudget(w http.ResponseWriter, r *http.Request, tripID uuid.UUID, parts []string) {
	if len(parts) != 3 {
		http.NotFound(w, r)
		return
	}
	category, err := url.PathUnescape(parts[2])
	if err != nil || strings.TrimSpace(category) == "" {
		http.Error(w, "Invalid category", http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodPut:
		rt.Budget.SetCategory(w, r, tripID, category)
	case http.MethodDelete:
		rt.Budget.RemoveCategory(w, r, tripID, category)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (rt *TripRouter) routeParticipants(w http.ResponseWriter, r *http.Request, tripID uuid.UUID, parts []string) {
	switch {
	case len(parts) == 2:
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rt.Participants.AddParticipant(w, r, tripID)
	case len(parts) == 3:
		participantID, err := uuid.Parse(parts[2])
		if err != nil {
			http.Error(w, "Invalid participant id", http.StatusBadRequest)
			return
		}
		switch r.Method {
		case http.MethodPatch:
			rt.Participants.UpdateParticipant(w, r, tripID, participantID)
		case http.MethodDelete:
			rt.Participants.RemoveParticipant(w, r, tripID, participantID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	default:
		http.NotFound(w, r)
	}
}

func (rt *TripRouter) routeInvitations(w http.ResponseWriter, r *http.Request, tripID uuid.UUID, parts []string) {
	switch {
	case len(parts) == 2:
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rt.Invitations.SendInvitation(w, r, tripID)
	case len(parts) == 3 && parts[2] == "accept":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rt.Invitations.AcceptInvitation(w, r, tripID)
	default:
		http.NotFound(w, r)
	}
}
