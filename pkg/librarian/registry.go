package librarian

import (
	"fmt"
	"sync"

	errs "librarian/pkg/errors"
	"librarian/pkg/logger"
	"librarian/pkg/metrics"
)

// Handler executes a tool call. Arguments arrive as decoded JSON; the
// result is a JSON-shaped map carrying a "success" flag. Handlers report
// failures inside the result rather than through errors so that a bad
// lookup never tears down the serving process.
type Handler func(args map[string]interface{}) map[string]interface{}

// Tool is a named operation an agent can invoke
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	Handler     Handler                `json:"-"`
}

// Resource is a static document an agent can read
type Resource struct {
	URI         string                 `json:"uri"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	MimeType    string                 `json:"mimeType"`
	Content     func() (string, error) `json:"-"`
}

// Registry holds the tools and resources exposed to agents
type Registry struct {
	mu            sync.RWMutex
	tools         map[string]*Tool
	toolOrder     []string
	resources     map[string]*Resource
	resourceOrder []string
	logger        logger.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(log logger.Logger) *Registry {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Registry{
		tools:     make(map[string]*Tool),
		resources: make(map[string]*Resource),
		logger:    log,
	}
}

// RegisterTool adds a tool; duplicate names are rejected
func (r *Registry) RegisterTool(tool *Tool) error {
	if tool == nil || tool.Name == "" {
		return fmt.Errorf("tool must have a name")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool %s must have a handler", tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %s is already registered", tool.Name)
	}
	r.tools[tool.Name] = tool
	r.toolOrder = append(r.toolOrder, tool.Name)

	r.logger.DebugWithFields("registered tool", map[string]interface{}{
		"tool": tool.Name,
	})
	return nil
}

// RegisterResource adds a resource; duplicate URIs are rejected
func (r *Registry) RegisterResource(res *Resource) error {
	if res == nil || res.URI == "" {
		return fmt.Errorf("resource must have a URI")
	}
	if res.Content == nil {
		return fmt.Errorf("resource %s must have content", res.URI)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.resources[res.URI]; exists {
		return fmt.Errorf("resource %s is already registered", res.URI)
	}
	r.resources[res.URI] = res
	r.resourceOrder = append(r.resourceOrder, res.URI)

	r.logger.DebugWithFields("registered resource", map[string]interface{}{
		"uri": res.URI,
	})
	return nil
}

// Tools returns all registered tools in registration order
func (r *Registry) Tools() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]*Tool, 0, len(r.toolOrder))
	for _, name := range r.toolOrder {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Resources returns all registered resources in registration order
func (r *Registry) Resources() []*Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resources := make([]*Resource, 0, len(r.resourceOrder))
	for _, uri := range r.resourceOrder {
		resources = append(resources, r.resources[uri])
	}
	return resources
}

// GetResource looks up a resource by URI
func (r *Registry) GetResource(uri string) (*Resource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resources[uri]
	return res, ok
}

// CallTool dispatches a tool invocation by name. Unknown tools return a
// not_found error; handler outcomes are reported inside the result map.
func (r *Registry) CallTool(name string, args map[string]interface{}) (map[string]interface{}, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNotFound,
			Message: fmt.Sprintf("unknown tool: %s", name),
		}
	}

	if args == nil {
		args = make(map[string]interface{})
	}

	result := tool.Handler(args)

	success, _ := result["success"].(bool)
	metrics.RecordToolInvocation(name, success)

	r.logger.InfoWithFields("tool invoked", map[string]interface{}{
		"tool":    name,
		"success": success,
	})

	return result, nil
}
