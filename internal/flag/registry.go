package flag

import (
	"fmt"
	"strings"
)

// FlaggerFactory builds a named Flagger from a free-form config blob, used
// by the config-driven CLI to turn a TOML flagger list into live Flaggers
// without hard-coding every combination in the Builder.
type FlaggerFactory interface {
	Build(name string, params map[string]string) (Flagger, error)
}

// Registry dispatches to a FlaggerFactory by flagger kind (e.g. "email",
// "keyword"), mirroring the teacher's command registration pattern in
// cmd/root.go but for flaggers instead of cobra commands.
type Registry struct {
	factories map[string]FlaggerFactory
}

// NewRegistry returns a Registry preloaded with the built-in kinds:
// "email", "ipv4", "keyword" and "disabled".
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]FlaggerFactory)}
	r.Register("email", factoryFunc(buildEmailFlagger))
	r.Register("ipv4", factoryFunc(buildIPv4Flagger))
	r.Register("keyword", factoryFunc(buildKeywordFlagger))
	r.Register("disabled", factoryFunc(buildDisabledFlagger))
	return r
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, f FlaggerFactory) {
	r.factories[kind] = f
}

// Build looks up kind's factory and delegates construction to it.
func (r *Registry) Build(kind, name string, params map[string]string) (Flagger, error) {
	f, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("flag: unknown flagger kind %q", kind)
	}
	return f.Build(name, params)
}

type factoryFunc func(name string, params map[string]string) (Flagger, error)

func (f factoryFunc) Build(name string, params map[string]string) (Flagger, error) {
	return f(name, params)
}

func buildEmailFlagger(name string, params map[string]string) (Flagger, error) {
	return NewEmailFlagger(), nil
}

func buildIPv4Flagger(name string, params map[string]string) (Flagger, error) {
	return NewIPv4Flagger(), nil
}

func buildKeywordFlagger(name string, params map[string]string) (Flagger, error) {
	raw, ok := params["keywords"]
	if !ok || raw == "" {
		return nil, fmt.Errorf("flag: keyword flagger %q requires a non-empty \"keywords\" param", name)
	}
	var keywords []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("flag: keyword flagger %q resolved to zero keywords", name)
	}
	return NewKeywordFlagger(name, keywords...), nil
}

func buildDisabledFlagger(name string, params map[string]string) (Flagger, error) {
	return NewDisabledFlagger(), nil
}
