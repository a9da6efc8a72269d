package layout

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aymerick/raymond"
)

// Page is the data a layout is rendered with
type Page struct {
	// Content is the rendered template markup, inserted unescaped
	Content string

	// Source names where the template came from (path, URL or store id)
	Source string

	// Variables is the render context
	Variables map[string]any
}

// Engine renders Handlebars layouts around rendered markup
type Engine struct {
	cache map[string]*raymond.Template
	mu    sync.RWMutex
}

var registerOnce sync.Once

// NewEngine creates a new layout engine
func NewEngine() *Engine {
	registerOnce.Do(registerHelpers)

	return &Engine{
		cache: make(map[string]*raymond.Template),
	}
}

// Render renders layout with page. The layout sees {{content}},
// {{source}} and {{vars.<name>}}.
func (e *Engine) Render(layout string, page Page) (string, error) {
	tmpl, err := e.getTemplate(layout)
	if err != nil {
		return "", fmt.Errorf("failed to compile layout: %w", err)
	}

	vars := page.Variables
	if vars == nil {
		vars = map[string]any{}
	}

	result, err := tmpl.Exec(map[string]any{
		"content": raymond.SafeString(page.Content),
		"source":  page.Source,
		"vars":    vars,
	})
	if err != nil {
		return "", fmt.Errorf("layout execution failed: %w", err)
	}

	return result, nil
}

// getTemplate gets a compiled layout from cache or compiles it
func (e *Engine) getTemplate(layout string) (*raymond.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.cache[layout]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Check again in case another goroutine compiled it
	if tmpl, ok := e.cache[layout]; ok {
		return tmpl, nil
	}

	tmpl, err := raymond.Parse(layout)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	e.cache[layout] = tmpl
	return tmpl, nil
}

// Validate validates a layout without rendering it
func (e *Engine) Validate(layout string) error {
	_, err := raymond.Parse(layout)
	return err
}

// CacheSize returns the number of compiled layouts
func (e *Engine) CacheSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cache)
}

// registerHelpers registers the layout helpers. Raymond helpers are global
// and may only be registered once per process.
func registerHelpers() {
	raymond.RegisterHelper("uppercase", func(str string) string {
		return strings.ToUpper(str)
	})

	raymond.RegisterHelper("lowercase", func(str string) string {
		return strings.ToLower(str)
	})

	raymond.RegisterHelper("trim", func(str string) string {
		return strings.TrimSpace(str)
	})

	// default helper - return default value if first arg is empty
	raymond.RegisterHelper("default", func(value interface{}, defaultValue interface{}) interface{} {
		if value == nil || value == "" {
			return defaultValue
		}
		return value
	})

	raymond.RegisterHelper("eq", func(a, b interface{}) bool {
		return a == b
	})

	raymond.RegisterHelper("join", func(arr []interface{}, sep string) string {
		strs := make([]string, len(arr))
		for i, v := range arr {
			strs[i] = fmt.Sprint(v)
		}
		return strings.Join(strs, sep)
	})

	raymond.RegisterHelper("len", func(value interface{}) int {
		switch v := value.(type) {
		case string:
			return len(v)
		case []interface{}:
			return len(v)
		case map[string]interface{}:
			return len(v)
		default:
			return 0
		}
	})
}
