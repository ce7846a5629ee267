package agents

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

// Route sends inputs containing any of the keywords to the Agent.
type Route struct {
	Agent    IAgent
	Keywords []string
}

// Router dispatches an input to the first Route with a matching keyword,
// otherwise to the fallback Agent.
type Router struct {
	routes   []Route
	fallback IAgent
}

// NewRouter returns a Router. Routes are matched in order.
func NewRouter(fallback IAgent, routes ...Route) *Router {
	return &Router{
		routes:   routes,
		fallback: fallback,
	}
}

// Agents returns the distinct agents of the routes and the fallback, in order.
func (r *Router) Agents() []IAgent {
	var list []IAgent
	seen := map[IAgent]bool{}
	add := func(a IAgent) {
		if a != nil && !seen[a] {
			seen[a] = true
			list = append(list, a)
		}
	}
	for _, route := range r.routes {
		add(route.Agent)
	}
	add(r.fallback)
	return list
}

// Route returns the Agent for the input. Keywords match case-insensitive.
func (r *Router) Route(input string) IAgent {
	lower := strings.ToLower(input)
	for _, route := range r.routes {
		for _, kw := range route.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return route.Agent
			}
		}
	}
	return r.fallback
}

// Handle runs a turn of the routed Agent.
// A failed turn is returned as an apology text,
// an unavailable model as ModelUnavailableResponse.
func (r *Router) Handle(ctx context.Context, input string) string {
	agent := r.Route(input)
	if agent == nil {
		return "抱歉，没有可以处理您请求的助手。"
	}
	logger.ContextKV(ctx, xlog.INFO,
		"status", "routed",
		"agent", agent.Name(),
		"input", slices.StringUpto(input, 64),
	)

	output, err := agent.RunOnce(ctx, input)
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"agent", agent.Name(),
			"status", "failed_to_handle",
			"err", err.Error(),
		)
		if errors.Is(err, ErrModelUnavailable) {
			return output
		}
		return "抱歉，在处理您的请求时出现了问题: " + err.Error()
	}
	return output
}
