package core

import (
	"context"
	"net/url"
)

type RouteTarget string

const (
	RouteSend RouteTarget = "send"
	RouteHome RouteTarget = "home"
)

// Route is a navigation decision. Controllers only emit routes, a Navigator performs them.
type Route struct {
	Target    RouteTarget `json:"target"`
	Recipient string      `json:"recipient,omitempty"`
	Amount    string      `json:"amount,omitempty"`
	Token     string      `json:"token,omitempty"`
}

func (r *Route) Path() string {
	if r.Target != RouteSend {
		return "/"
	}

	q := url.Values{}
	if r.Recipient != "" {
		q.Set("recipient", r.Recipient)
	}

	if r.Amount != "" {
		q.Set("amount", r.Amount)
	}

	if r.Token != "" {
		q.Set("token", r.Token)
	}

	if len(q) == 0 {
		return "/send"
	}

	return "/send?" + q.Encode()
}

type Navigator interface {
	Navigate(ctx context.Context, route *Route) error
}
