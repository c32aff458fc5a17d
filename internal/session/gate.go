package session

import (
	"strings"
	"sync"
)

// Mode is what a gated page should render.
type Mode int

const (
	ModeLoading Mode = iota
	ModeSignInPrompt
	ModeChildren
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeSignInPrompt:
		return "sign_in_prompt"
	case ModeChildren:
		return "children"
	default:
		return "unknown"
	}
}

// DefaultPublicPrefixes are the routes that render without a session.
var DefaultPublicPrefixes = []string{"/auth", "/u/"}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithDefaultAuthed assumes a session until the first check says otherwise,
// so protected content renders without a loading placeholder.
func WithDefaultAuthed(authed bool) GateOption {
	return func(g *Gate) {
		g.authed = authed
		g.loading = !authed
	}
}

// WithPublicPrefixes replaces DefaultPublicPrefixes.
func WithPublicPrefixes(prefixes ...string) GateOption {
	return func(g *Gate) {
		g.public = prefixes
	}
}

// Gate decides between protected content, a loading placeholder and a
// sign-in prompt.
type Gate struct {
	mu          sync.Mutex
	loading     bool
	authed      bool
	public      []string
	unsubscribe func()
}

func NewGate(opts ...GateOption) *Gate {
	g := &Gate{
		loading: true,
		public:  DefaultPublicPrefixes,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Watch subscribes the gate to session changes published on b. Changes only
// update presence; the loading state ends with Resolve.
func (g *Gate) Watch(b *Broadcaster) {
	unsubscribe := b.Subscribe(func(present bool) {
		g.mu.Lock()
		g.authed = present
		g.mu.Unlock()
	})

	g.mu.Lock()
	prev := g.unsubscribe
	g.unsubscribe = unsubscribe
	g.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// Resolve records the outcome of the first session check. A failed check
// should be resolved as absent.
func (g *Gate) Resolve(present bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.authed = present
	g.loading = false
}

// Mode returns what to render for path.
func (g *Gate) Mode(path string) Mode {
	if g.IsPublic(path) {
		return ModeChildren
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case g.loading:
		return ModeLoading
	case !g.authed:
		return ModeSignInPrompt
	default:
		return ModeChildren
	}
}

// IsPublic reports whether path renders regardless of session state.
func (g *Gate) IsPublic(path string) bool {
	for _, prefix := range g.public {
		if strings.HasSuffix(prefix, "/") {
			if strings.HasPrefix(path, prefix) {
				return true
			}
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Close stops watching for session changes.
func (g *Gate) Close() {
	g.mu.Lock()
	unsubscribe := g.unsubscribe
	g.unsubscribe = nil
	g.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}
