package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamleaf/teamops/sdk"
)

func TestPresencePairedAnnouncements(t *testing.T) {
	g := newFakeGateway()
	p := NewPresenceTracker(g, []string{"bob"})

	require.NoError(t, p.Start(context.Background()))
	p.Close()

	assert.Equal(t, []bool{true, false}, g.onlineAnnouncements(),
		"exactly one online followed by one offline")

	// Close again does not announce a second offline
	p.Close()
	assert.Equal(t, []bool{true, false}, g.onlineAnnouncements())
}

func TestPresencePairingSurvivesStartFailure(t *testing.T) {
	g := newFakeGateway()
	g.queryErr = errors.New("backend down")
	p := NewPresenceTracker(g, []string{"bob"})

	require.Error(t, p.Start(context.Background()))
	p.Close()

	assert.Equal(t, []bool{true, false}, g.onlineAnnouncements(),
		"the offline announcement must pair even when startup failed midway")
}

func TestPresenceInitialFetch(t *testing.T) {
	g := newFakeGateway()
	g.onlineStatus["bob"] = true
	g.onlineStatus["carol"] = false

	p := NewPresenceTracker(g, []string{"bob", "carol"})
	require.NoError(t, p.Start(context.Background()))
	defer p.Close()

	assert.True(t, p.IsOnline("bob"))
	assert.False(t, p.IsOnline("carol"))
}

func TestPresenceEventsUpdateTrackedSet(t *testing.T) {
	g := newFakeGateway()
	p := NewPresenceTracker(g, []string{"bob"})
	require.NoError(t, p.Start(context.Background()))
	defer p.Close()

	g.presenceHandler(&sdk.PresenceEntry{UserId: "bob", Online: true})
	assert.True(t, p.IsOnline("bob"))

	g.presenceHandler(&sdk.PresenceEntry{UserId: "bob", Online: false})
	assert.False(t, p.IsOnline("bob"))
}

func TestPresenceIgnoresUntrackedIds(t *testing.T) {
	g := newFakeGateway()
	p := NewPresenceTracker(g, []string{"bob"})
	require.NoError(t, p.Start(context.Background()))
	defer p.Close()

	g.presenceHandler(&sdk.PresenceEntry{UserId: "stranger", Online: true})

	assert.False(t, p.IsOnline("stranger"))
	_, tracked := p.Snapshot()["stranger"]
	assert.False(t, tracked, "untracked ids are ignored, not stored")
}
