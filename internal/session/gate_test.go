package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/skillswap/internal/session"
)

func TestGate_PublicRoutesAlwaysRender(t *testing.T) {
	g := session.NewGate()

	for _, path := range []string{"/auth", "/auth/sign-in", "/auth/callback", "/u/ada"} {
		assert.Equal(t, session.ModeChildren, g.Mode(path), path)
	}
	assert.False(t, g.IsPublic("/authors"))
	assert.False(t, g.IsPublic("/u"))
}

func TestGate_LoadingUntilFirstCheck(t *testing.T) {
	g := session.NewGate()
	assert.Equal(t, session.ModeLoading, g.Mode("/account/profile"))

	g.Resolve(false)
	assert.Equal(t, session.ModeSignInPrompt, g.Mode("/account/profile"))
}

func TestGate_DefaultAuthedSkipsLoading(t *testing.T) {
	g := session.NewGate(session.WithDefaultAuthed(true))
	assert.Equal(t, session.ModeChildren, g.Mode("/"))

	g.Resolve(false)
	assert.Equal(t, session.ModeSignInPrompt, g.Mode("/"))
}

func TestGate_EventsBeforeResolveKeepLoading(t *testing.T) {
	b := session.NewBroadcaster()
	g := session.NewGate()
	g.Watch(b)
	defer g.Close()

	b.Publish(true)
	assert.Equal(t, session.ModeLoading, g.Mode("/"))

	g.Resolve(true)
	assert.Equal(t, session.ModeChildren, g.Mode("/"))
}

func TestGate_SignInEventRendersChildrenWithoutReload(t *testing.T) {
	b := session.NewBroadcaster()
	g := session.NewGate()
	g.Watch(b)
	defer g.Close()

	g.Resolve(false)
	assert.Equal(t, session.ModeSignInPrompt, g.Mode("/account/profile"))

	b.Publish(true)
	assert.Equal(t, session.ModeChildren, g.Mode("/account/profile"))

	b.Publish(false)
	assert.Equal(t, session.ModeSignInPrompt, g.Mode("/account/profile"))
}

func TestGate_CloseUnsubscribes(t *testing.T) {
	b := session.NewBroadcaster()
	g := session.NewGate()
	g.Watch(b)
	g.Resolve(false)

	g.Close()
	assert.Equal(t, 0, b.Len())

	b.Publish(true)
	assert.Equal(t, session.ModeSignInPrompt, g.Mode("/"))
}

func TestGate_WatchReplacesPreviousSubscription(t *testing.T) {
	first := session.NewBroadcaster()
	second := session.NewBroadcaster()
	g := session.NewGate()

	g.Watch(first)
	g.Watch(second)

	assert.Equal(t, 0, first.Len())
	assert.Equal(t, 1, second.Len())
}

func TestGate_CustomPublicPrefixes(t *testing.T) {
	g := session.NewGate(session.WithPublicPrefixes("/docs"))
	g.Resolve(false)

	assert.Equal(t, session.ModeChildren, g.Mode("/docs/intro"))
	assert.Equal(t, session.ModeSignInPrompt, g.Mode("/u/ada"))
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "loading", session.ModeLoading.String())
	assert.Equal(t, "sign_in_prompt", session.ModeSignInPrompt.String())
	assert.Equal(t, "children", session.ModeChildren.String())
}
