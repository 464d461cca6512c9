package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/posts/internal/idgen"
	"github.com/viant/posts/service/dao"
)

type note struct {
	ID   string
	Text string
}

func newNoteStore() *MemoryStore[note] {
	return NewMemoryStore[note](func(n *note, id string) { n.ID = id })
}

func seed(t *testing.T, s *MemoryStore[note], texts ...string) []*note {
	t.Helper()
	var out []*note
	for _, text := range texts {
		created, err := s.Create(context.Background(), &note{Text: text})
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func textsOf(notes []*note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Text)
	}
	return out
}

func TestMemoryStore_FindMany(t *testing.T) {
	testCases := []struct {
		name       string
		parameters []*dao.Parameter
		expect     []string
	}{
		{name: "without options", expect: []string{"Post 1", "Post 2", "Post 3", "Post 4"}},
		{name: "empty options", parameters: []*dao.Parameter{}, expect: []string{"Post 1", "Post 2", "Post 3", "Post 4"}},
		{name: "skip and limit", parameters: []*dao.Parameter{dao.Skip(1), dao.Limit(2)}, expect: []string{"Post 2", "Post 3"}},
		{name: "limit only", parameters: []*dao.Parameter{dao.Limit(3)}, expect: []string{"Post 1", "Post 2", "Post 3"}},
		{name: "skip only", parameters: []*dao.Parameter{dao.Skip(2)}, expect: []string{"Post 3", "Post 4"}},
		{name: "zero limit", parameters: []*dao.Parameter{dao.Limit(0)}, expect: []string{}},
		{name: "limit exceeds total", parameters: []*dao.Parameter{dao.Limit(999)}, expect: []string{"Post 1", "Post 2", "Post 3", "Post 4"}},
		{name: "skip equals total", parameters: []*dao.Parameter{dao.Skip(4)}, expect: []string{}},
		{name: "skip exceeds total", parameters: []*dao.Parameter{dao.Skip(100)}, expect: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newNoteStore()
			seed(t, s, "Post 1", "Post 2", "Post 3", "Post 4")
			actual, err := s.FindMany(context.Background(), tc.parameters...)
			assert.NoError(t, err)
			assert.NotNil(t, actual)
			assert.Equal(t, tc.expect, textsOf(actual))
			for _, n := range actual {
				assert.NotEmpty(t, n.ID)
			}
		})
	}
}

func TestMemoryStore_FindManyCount(t *testing.T) {
	s := newNoteStore()
	const size = 7
	for i := 0; i < size; i++ {
		seed(t, s, fmt.Sprintf("n%d", i))
	}
	for skip := 0; skip <= size+2; skip++ {
		for limit := 0; limit <= size+2; limit++ {
			actual, err := s.FindMany(context.Background(), dao.Skip(skip), dao.Limit(limit))
			require.NoError(t, err)
			expect := min(limit, max(0, size-skip))
			require.Len(t, actual, expect, "skip=%d limit=%d", skip, limit)
			for i, n := range actual {
				assert.Equal(t, fmt.Sprintf("n%d", skip+i), n.Text)
			}
		}
	}
}

func TestMemoryStore_Create(t *testing.T) {
	s := newNoteStore()
	created := seed(t, s, "a", "b", "c")
	seen := map[string]bool{}
	for _, n := range created {
		assert.NotEmpty(t, n.ID)
		assert.False(t, seen[n.ID])
		seen[n.ID] = true
	}

	payload := &note{Text: "d"}
	actual, err := s.Create(context.Background(), payload)
	assert.NoError(t, err)
	assert.Empty(t, payload.ID, "payload is copied, not mutated")
	assert.Equal(t, "d", actual.Text)

	_, err = s.Create(context.Background(), nil)
	assert.ErrorIs(t, err, dao.ErrNilEntity)

	count, _ := s.Count(context.Background())
	assert.Equal(t, 4, count)
}

func TestMemoryStore_CreateSkipsDuplicateID(t *testing.T) {
	ids := []string{"x", "x", "", "y"}
	prev := idgen.NewFunc
	idgen.NewFunc = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	defer func() { idgen.NewFunc = prev }()

	s := newNoteStore()
	created := seed(t, s, "first", "second")
	assert.Equal(t, "x", created[0].ID)
	assert.Equal(t, "y", created[1].ID)
}

func TestMemoryStore_Snapshot(t *testing.T) {
	s := newNoteStore()
	seed(t, s, "a", "b")
	snapshot, err := s.FindMany(context.Background())
	require.NoError(t, err)

	seed(t, s, "c")
	snapshot[0].Text = "changed"

	assert.Len(t, snapshot, 2)
	actual, _ := s.FindMany(context.Background())
	assert.Equal(t, []string{"a", "b", "c"}, textsOf(actual))
}

func TestMemoryStore_Load(t *testing.T) {
	s := newNoteStore()
	created := seed(t, s, "a")

	loaded, err := s.Load(context.Background(), created[0].ID)
	assert.NoError(t, err)
	assert.Equal(t, created[0], loaded)

	_, err = s.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	_, err = s.Load(context.Background(), "")
	assert.ErrorIs(t, err, dao.ErrInvalidID)
}

func TestMemoryStore_InvalidParameter(t *testing.T) {
	s := newNoteStore()
	_, err := s.FindMany(context.Background(), dao.NewParameter(dao.SkipParameter, "abc"))
	assert.ErrorIs(t, err, dao.ErrInvalidWindow)
}

func TestMemoryStore_ConcurrentCreate(t *testing.T) {
	s := newNoteStore()
	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := s.Create(context.Background(), &note{Text: fmt.Sprintf("%d-%d", w, i)})
				assert.NoError(t, err)
				_, err = s.FindMany(context.Background(), dao.Limit(5))
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	all, err := s.FindMany(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, writers*perWriter)
	seen := map[string]bool{}
	for _, n := range all {
		assert.False(t, seen[n.ID])
		seen[n.ID] = true
	}
}
