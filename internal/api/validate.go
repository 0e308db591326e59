package api

import (
	"fmt"
	"net/url"

	"optiroute/internal/model"
	"optiroute/internal/notify"
)

func validateSubscriptionRequest(req *model.SubscriptionRequest) error {
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url must be an absolute http(s) URL")
	}
	if len(req.Events) == 0 {
		return fmt.Errorf("events must not be empty")
	}
	allowed := map[string]struct{}{
		notify.EventMapLoaded:      {},
		notify.EventPlanningLoaded: {},
		notify.EventPlanCreated:    {},
	}
	for _, e := range req.Events {
		if _, ok := allowed[e]; !ok {
			return fmt.Errorf("unknown event type: %s (allowed: %s,%s,%s)", e, notify.EventMapLoaded, notify.EventPlanningLoaded, notify.EventPlanCreated)
		}
	}
	return nil
}
