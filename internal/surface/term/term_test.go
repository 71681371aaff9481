package term

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartomark/cartomark/pkg/core"
)

func TestPlaceAndList(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, nil)

	_, err := s.Place(core.Marker{ID: "b", Lat: 2, Lng: 2, Name: "Bravo", Description: "d"}, func() {})
	require.NoError(t, err)
	_, err = s.Place(core.Marker{ID: "a", Lat: 1, Lng: 1, Name: "Alpha", Description: "d"}, func() {})
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID, "listing is sorted by id")
	assert.Equal(t, "b", list[1].ID)

	assert.Contains(t, out.String(), "Bravo")
	assert.Contains(t, out.String(), "Alpha")
}

func TestUpdateLabel(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, nil)

	h, err := s.Place(core.Marker{ID: "a", Lat: 1, Lng: 1, Name: "Camp", Description: "d"}, func() {})
	require.NoError(t, err)
	require.NoError(t, s.UpdateLabel(h, "Outpost", "renamed"))

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Outpost", list[0].Name)
	assert.Equal(t, "renamed", list[0].Description)
}

func TestRemove(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, nil)

	h, err := s.Place(core.Marker{ID: "a", Lat: 1, Lng: 1, Name: "Camp", Description: "d"}, func() {})
	require.NoError(t, err)
	require.NoError(t, s.Remove(h))

	assert.Empty(t, s.List())
	assert.Contains(t, out.String(), "- a")
}

func TestActivate(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, nil)

	fired := false
	_, err := s.Place(core.Marker{ID: "a", Lat: 1, Lng: 1, Name: "Camp", Description: "d"},
		func() { fired = true })
	require.NoError(t, err)

	assert.True(t, s.Activate("a"))
	assert.True(t, fired)
	assert.False(t, s.Activate("missing"))
}

func TestOpenPopupPrintsDetails(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, nil)

	h, err := s.Place(core.Marker{ID: "a", Lat: 1, Lng: 1, Name: "Camp", Description: "Base camp"}, func() {})
	require.NoError(t, err)
	s.OpenPopup(h)

	assert.Contains(t, out.String(), "Base camp")
}
