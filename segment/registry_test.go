package segment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store for registry tests.
type memStore struct {
	groups  []Group
	loadErr error
	saveErr error
}

func (s *memStore) Load() ([]Group, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]Group, len(s.groups))
	copy(out, s.groups)
	return out, nil
}

func (s *memStore) Save(groups []Group) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.groups = make([]Group, len(groups))
	copy(s.groups, groups)
	return nil
}

func TestListReturnsBuiltinsThenCustoms(t *testing.T) {
	store := &memStore{groups: []Group{
		{ID: 7, Name: "Gala Circle"},
		{ID: 6, Name: "Monthly Pledges"},
	}}
	r := NewRegistry(store)

	groups, err := r.List()
	require.NoError(t, err)
	require.Len(t, groups, 7)
	for i := 0; i < 5; i++ {
		assert.Equal(t, i+1, groups[i].ID)
	}
	assert.Equal(t, "Gala Circle", groups[5].Name)
	assert.Equal(t, "Monthly Pledges", groups[6].Name)
}

func TestCreateAssignsMonotonicIDs(t *testing.T) {
	r := NewRegistry(&memStore{})

	for i, wantID := range []int{6, 7, 8} {
		g, err := r.Create(Group{Name: "g", Color: "#fff"})
		require.NoError(t, err)
		assert.Equal(t, wantID, g.ID, "create %d", i)
		assert.Equal(t, 0, g.DonorCount)
		assert.False(t, g.CreatedAt.IsZero())
		assert.NotNil(t, g.Criteria)
	}
}

func TestCreateNeverReusesDeletedIDs(t *testing.T) {
	r := NewRegistry(&memStore{})

	first, err := r.Create(Group{Name: "first"})
	require.NoError(t, err)
	require.Equal(t, 6, first.ID)

	second, err := r.Create(Group{Name: "second"})
	require.NoError(t, err)
	require.Equal(t, 7, second.ID)

	require.NoError(t, r.Delete(6))

	// Next id is max-seen+1, not the freed 6
	third, err := r.Create(Group{Name: "third"})
	require.NoError(t, err)
	assert.Equal(t, 8, third.ID)
}

func TestCreateIgnoresCallerID(t *testing.T) {
	r := NewRegistry(&memStore{})

	g, err := r.Create(Group{ID: 42, Name: "presumptuous"})
	require.NoError(t, err)
	assert.Equal(t, 6, g.ID)
}

func TestUpdateRejectsBuiltins(t *testing.T) {
	r := NewRegistry(&memStore{})

	for id := 1; id <= 5; id++ {
		_, err := r.Update(Group{ID: id, Name: "hijack"})
		assert.ErrorIs(t, err, ErrBuiltinGroup, "id %d", id)
	}
}

func TestDeleteRejectsBuiltins(t *testing.T) {
	r := NewRegistry(&memStore{})

	for id := 1; id <= 5; id++ {
		assert.ErrorIs(t, r.Delete(id), ErrBuiltinGroup, "id %d", id)
	}
}

func TestUpdateReplacesByID(t *testing.T) {
	r := NewRegistry(&memStore{})

	created, err := r.Create(Group{Name: "before", Color: "#111"})
	require.NoError(t, err)

	updated, err := r.Update(Group{ID: created.ID, Name: "after", Criteria: []string{"active"}, Color: "#222"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "after", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt, "creation date is immutable")

	got, err := r.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
}

func TestUpdateUnknownID(t *testing.T) {
	r := NewRegistry(&memStore{})
	_, err := r.Update(Group{ID: 99, Name: "ghost"})
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestDeleteUnknownID(t *testing.T) {
	r := NewRegistry(&memStore{})
	assert.ErrorIs(t, r.Delete(99), ErrGroupNotFound)
}

func TestGetBuiltin(t *testing.T) {
	r := NewRegistry(&memStore{})
	g, err := r.Get(3)
	require.NoError(t, err)
	assert.Equal(t, "Lapsed Donors", g.Name)
}

func TestStoredReservedIDsAreDropped(t *testing.T) {
	// A store that somehow holds a group claiming id 1 must never shadow
	// the built-in
	store := &memStore{groups: []Group{
		{ID: 1, Name: "Impostor Majors", Criteria: []string{"active"}},
		{ID: 6, Name: "Legit"},
	}}
	r := NewRegistry(store)

	groups, err := r.List()
	require.NoError(t, err)
	require.Len(t, groups, 6)
	assert.Equal(t, "Major Donors", groups[0].Name)

	g, err := r.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Major Donors", g.Name)
}

func TestStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("disk on fire")
	r := NewRegistry(&memStore{loadErr: boom})

	_, err := r.List()
	assert.ErrorIs(t, err, boom)

	_, err = r.Create(Group{Name: "g"})
	assert.ErrorIs(t, err, boom)
}
