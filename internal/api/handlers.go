package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"optiroute/internal/gis"
	"optiroute/internal/metrics"
	"optiroute/internal/model"
	"optiroute/internal/notify"
	"optiroute/internal/routing"
)

// MapHandler handles POST/GET /v1/map. POST replaces the current road
// network from an XML document and clears the shortest-path cache.
func (s *Server) MapHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		net, err := gis.ParseMap(r.Body)
		if err != nil {
			writeError(w, err, r.URL.Path)
			return
		}
		if err := s.Store.SetNetwork(r.Context(), net); err != nil {
			writeError(w, err, r.URL.Path)
			return
		}
		s.Engine.Paths.Cache().Clear()
		summary := map[string]any{"nodes": len(net.Nodes), "segments": len(net.Segments)}
		s.Pub.Emit(r.Context(), notify.EventMapLoaded, summary)
		s.Broker.Publish(TopicPlans, Event{Type: notify.EventMapLoaded, Data: summary})
		writeJSON(w, http.StatusCreated, summary)
	case http.MethodGet:
		net, err := s.Store.GetNetwork(r.Context())
		if err != nil {
			writeError(w, err, r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"nodes": len(net.Nodes), "segments": len(net.Segments)})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// DemandsHandler handles POST/GET /v1/demands. POST loads a planning
// request XML document validated against the current network.
func (s *Server) DemandsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		net, err := s.Store.GetNetwork(r.Context())
		if err != nil {
			writeProblem(w, http.StatusConflict, "No map loaded", "load a map before demands", r.URL.Path)
			return
		}
		wh, demands, err := gis.ParsePlanning(r.Body, net)
		if err != nil {
			writeError(w, err, r.URL.Path)
			return
		}
		if err := s.Store.SetPlanning(r.Context(), wh, demands); err != nil {
			writeError(w, err, r.URL.Path)
			return
		}
		s.Engine.Paths.Cache().Clear()
		data := map[string]any{"warehouseNode": wh.NodeID, "demands": len(demands)}
		s.Pub.Emit(r.Context(), notify.EventPlanningLoaded, data)
		writeJSON(w, http.StatusCreated, data)
	case http.MethodGet:
		wh, demands, err := s.Store.GetPlanning(r.Context())
		if err != nil {
			writeError(w, err, r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"warehouse": wh, "demands": demands})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ToursHandler handles POST /v1/tours: one batch tour calculation over
// the loaded map and planning request.
func (s *Server) ToursHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		CourierCount int `json:"courierCount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	net, err := s.Store.GetNetwork(r.Context())
	if err != nil {
		writeProblem(w, http.StatusConflict, "No map loaded", "load a map before computing tours", r.URL.Path)
		return
	}
	wh, demands, err := s.Store.GetPlanning(r.Context())
	if err != nil {
		writeProblem(w, http.StatusConflict, "No planning request loaded", "load demands before computing tours", r.URL.Path)
		return
	}

	start := time.Now()
	stops := routing.StopsForPlanning(wh, demands)
	g, err := s.Engine.Paths.BuildStopGraph(r.Context(), net, stops, demands)
	if err != nil {
		metrics.PlanComputations.WithLabelValues("error").Inc()
		writeError(w, err, r.URL.Path)
		return
	}
	res, err := s.Engine.CalculateOptimalTours(r.Context(), g, req.CourierCount)
	if err != nil {
		metrics.PlanComputations.WithLabelValues("error").Inc()
		writeError(w, err, r.URL.Path)
		return
	}
	metrics.PlanComputations.WithLabelValues("ok").Inc()
	metrics.PlanDuration.Observe(time.Since(start).Seconds())

	plan := model.Plan{ID: uuid.New().String(), CreatedAt: time.Now().UTC(), CourierCount: req.CourierCount, Result: *res}
	if err := s.Store.SavePlan(r.Context(), plan); err != nil {
		writeError(w, err, r.URL.Path)
		return
	}
	data := map[string]any{
		"planId":       plan.ID,
		"tours":        len(res.Tours),
		"unassigned":   len(res.UnassignedDemandIDs),
		"courierCount": req.CourierCount,
	}
	s.Pub.Emit(r.Context(), notify.EventPlanCreated, data)
	evt := Event{Type: notify.EventPlanCreated, Data: data}
	s.Broker.Publish(TopicPlans, evt)
	s.Broker.Publish(plan.ID, evt)
	writeJSON(w, http.StatusCreated, plan)
}

// PlansHandler handles GET /v1/plans with cursor pagination.
func (s *Server) PlansHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cursor := r.URL.Query().Get("cursor")
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	items, next, err := s.Store.ListPlans(r.Context(), cursor, limit)
	if err != nil {
		writeError(w, err, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// PlanByIDHandler handles GET /v1/plans/{id} and the SSE stream at
// /v1/plans/{id}/events/stream.
func (s *Server) PlanByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/plans/")
	if rest == r.URL.Path || rest == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing id", r.URL.Path)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	if len(parts) > 2 && parts[1] == "events" && parts[2] == "stream" {
		s.streamPlanEvents(w, r, id)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	plan, err := s.Store.GetPlan(r.Context(), id)
	if err != nil {
		writeError(w, err, r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) streamPlanEvents(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, http.StatusInternalServerError, "Streaming unsupported", "", r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	ch := s.Broker.Subscribe(id)
	defer s.Broker.Unsubscribe(id, ch)
	fmt.Fprintf(w, "event: heartbeat\n")
	fmt.Fprintf(w, "data: {\"planId\":%q,\"ts\":%q}\n\n", id, time.Now().Format(time.RFC3339))
	flusher.Flush()
	for {
		select {
		case <-r.Context().Done():
			return
		case evt, open := <-ch:
			if !open {
				return
			}
			b, _ := json.Marshal(evt.Data)
			fmt.Fprintf(w, "event: %s\n", evt.Type)
			fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}

// CacheHandler handles GET /v1/cache/stats and DELETE /v1/cache.
func (s *Server) CacheHandler(w http.ResponseWriter, r *http.Request) {
	c := s.Engine.Paths.Cache()
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/stats"):
		st := c.Stats()
		writeJSON(w, http.StatusOK, map[string]any{"entries": st.Size, "hits": st.Hits, "misses": st.Misses})
	case r.Method == http.MethodDelete:
		c.Clear()
		writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SubscriptionsHandler handles POST/GET /v1/subscriptions.
func (s *Server) SubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req model.SubscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if err := validateSubscriptionRequest(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid subscription", err.Error(), r.URL.Path)
			return
		}
		sub, err := s.Store.CreateSubscription(r.Context(), req)
		if err != nil {
			writeError(w, err, r.URL.Path)
			return
		}
		writeJSON(w, http.StatusCreated, sub)
	case http.MethodGet:
		cursor := r.URL.Query().Get("cursor")
		limit := 100
		if v := r.URL.Query().Get("limit"); v != "" {
			fmt.Sscanf(v, "%d", &limit)
		}
		items, next, err := s.Store.ListSubscriptions(r.Context(), cursor, limit)
		if err != nil {
			writeError(w, err, r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SubscriptionByIDHandler handles DELETE /v1/subscriptions/{id}.
func (s *Server) SubscriptionByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/subscriptions/")
	if id == "" || strings.Contains(id, "/") {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.Store.DeleteSubscription(r.Context(), id); err != nil {
		writeError(w, err, r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler reports readiness: a map must be loaded before the
// planning endpoints can do useful work.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	_, err := s.Store.GetNetwork(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"ready": true, "mapLoaded": err == nil})
}
