package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"optiroute/internal/model"
)

func TestMemoryNetworkAndPlanning(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.GetNetwork(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty store: %v", err)
	}
	net := &model.RoadNetwork{Nodes: map[int64]model.Node{1: {ID: 1}}}
	if err := m.SetNetwork(ctx, net); err != nil {
		t.Fatalf("set network: %v", err)
	}
	got, err := m.GetNetwork(ctx)
	if err != nil || got != net {
		t.Fatalf("get network: %v %v", got, err)
	}

	wh := model.Warehouse{NodeID: 1}
	if err := m.SetPlanning(ctx, wh, []model.Demand{{ID: "a", PickupNodeID: 1, DeliveryNodeID: 1}}); err != nil {
		t.Fatalf("set planning: %v", err)
	}
	gotWh, demands, err := m.GetPlanning(ctx)
	if err != nil || gotWh != wh || len(demands) != 1 {
		t.Fatalf("get planning: %v %v %v", gotWh, demands, err)
	}

	// Loading a new map drops the planning request.
	if err := m.SetNetwork(ctx, net); err != nil {
		t.Fatalf("reset network: %v", err)
	}
	if _, _, err := m.GetPlanning(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("planning must be cleared by a new map: %v", err)
	}
}

func TestMemoryPlans(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3"} {
		if err := m.SavePlan(ctx, model.Plan{ID: id, CreatedAt: time.Now(), CourierCount: 2}); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	p, err := m.GetPlan(ctx, "p2")
	if err != nil || p.ID != "p2" {
		t.Fatalf("get: %v %v", p, err)
	}
	if _, err := m.GetPlan(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing plan: %v", err)
	}

	page, next, err := m.ListPlans(ctx, "", 2)
	if err != nil || len(page) != 2 || next != "p2" {
		t.Fatalf("page 1: %v next=%q err=%v", page, next, err)
	}
	page, next, err = m.ListPlans(ctx, next, 2)
	if err != nil || len(page) != 1 || page[0].ID != "p3" || next != "" {
		t.Fatalf("page 2: %v next=%q err=%v", page, next, err)
	}
}

func TestMemorySubscriptions(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	s1, err := m.CreateSubscription(ctx, model.SubscriptionRequest{URL: "http://a", Events: []string{"plan.created"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := m.CreateSubscription(ctx, model.SubscriptionRequest{URL: "http://b", Events: []string{"map.loaded"}}); err != nil {
		t.Fatalf("create: %v", err)
	}

	subs, err := m.GetSubscriptionsForEvent(ctx, "plan.created")
	if err != nil || len(subs) != 1 || subs[0].ID != s1.ID {
		t.Fatalf("for event: %v %v", subs, err)
	}
	all, _, err := m.ListSubscriptions(ctx, "", 10)
	if err != nil || len(all) != 2 {
		t.Fatalf("list: %v %v", all, err)
	}
	if err := m.DeleteSubscription(ctx, s1.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.DeleteSubscription(ctx, s1.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: %v", err)
	}
}

func TestMemoryWebhookQueue(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.EnqueueWebhook(ctx, "sub1", "plan.created", "http://a", "sec", []byte(`{}`))
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	due, err := m.FetchDueWebhookDeliveries(ctx, 10)
	if err != nil || len(due) != 1 || due[0].ID != id {
		t.Fatalf("due: %v %v", due, err)
	}

	// Retry pushes the next attempt into the future.
	next := time.Now().Add(time.Hour)
	if err := m.MarkWebhookDelivery(ctx, id, false, &next, "boom", 500, 12); err != nil {
		t.Fatalf("mark retry: %v", err)
	}
	due, _ = m.FetchDueWebhookDeliveries(ctx, 10)
	if len(due) != 0 {
		t.Fatalf("retry must not be due yet: %v", due)
	}

	past := time.Now().Add(-time.Second)
	_ = m.MarkWebhookDelivery(ctx, id, false, &past, "boom", 500, 12)
	due, _ = m.FetchDueWebhookDeliveries(ctx, 10)
	if len(due) != 1 || due[0].Attempts != 2 {
		t.Fatalf("due after backoff: %+v", due)
	}

	if err := m.MarkWebhookDelivery(ctx, id, true, nil, "", 200, 8); err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	due, _ = m.FetchDueWebhookDeliveries(ctx, 10)
	if len(due) != 0 {
		t.Fatalf("delivered must leave the queue: %v", due)
	}
}
