package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := New()

	id := store.Create("a.py", "print(1)")
	require.NotEmpty(t, id)

	sess, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, sess.ID)
	assert.Equal(t, "a.py", sess.FileName)
	assert.Equal(t, "print(1)", sess.FullFile)
	assert.Empty(t, sess.History)
	assert.False(t, sess.CreatedAt.IsZero())
}

func TestStore_CreateUniqueIDs(t *testing.T) {
	store := New()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := store.Create("a.go", "package main")
		assert.False(t, seen[id], "duplicate session ID %s", id)
		seen[id] = true
	}
	assert.Equal(t, 100, store.Len())
}

func TestStore_GetNotFound(t *testing.T) {
	store := New()

	sess, err := store.Get("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, sess)
}

func TestStore_AppendTurn(t *testing.T) {
	store := New()
	id := store.Create("a.py", "print(1)")

	require.NoError(t, store.AppendTurn(id, RoleUser, "print(1)"))
	require.NoError(t, store.AppendTurn(id, RoleAssistant, "prints 1"))

	sess, err := store.Get(id)
	require.NoError(t, err)
	require.Len(t, sess.History, 2)
	assert.Equal(t, RoleUser, sess.History[0].Role)
	assert.Equal(t, "print(1)", sess.History[0].Content)
	assert.Equal(t, RoleAssistant, sess.History[1].Role)
	assert.Equal(t, "prints 1", sess.History[1].Content)
	assert.False(t, sess.LastActive.Before(sess.CreatedAt))
}

func TestStore_AppendTurnNotFound(t *testing.T) {
	store := New()

	err := store.AppendTurn("no-such-id", RoleUser, "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetReturnsDetachedCopy(t *testing.T) {
	store := New()
	id := store.Create("a.py", "print(1)")
	require.NoError(t, store.AppendTurn(id, RoleUser, "original"))

	sess, err := store.Get(id)
	require.NoError(t, err)
	sess.History[0].Content = "mutated"
	sess.History = append(sess.History, Turn{Role: RoleUser, Content: "extra"})

	fresh, err := store.Get(id)
	require.NoError(t, err)
	require.Len(t, fresh.History, 1)
	assert.Equal(t, "original", fresh.History[0].Content)
}

func TestStore_AssistantTranscript(t *testing.T) {
	store := New()
	id := store.Create("a.py", "print(1)")

	require.NoError(t, store.AppendTurn(id, RoleUser, "what is this"))
	require.NoError(t, store.AppendTurn(id, RoleAssistant, "first answer"))
	require.NoError(t, store.AppendTurn(id, RoleUser, "and this"))
	require.NoError(t, store.AppendTurn(id, RoleAssistant, "second answer"))

	transcript, err := store.AssistantTranscript(id)
	require.NoError(t, err)
	assert.Equal(t, "first answer\n\nsecond answer", transcript)
}

func TestStore_AssistantTranscriptEmpty(t *testing.T) {
	store := New()
	id := store.Create("a.py", "print(1)")

	transcript, err := store.AssistantTranscript(id)
	require.NoError(t, err)
	assert.Equal(t, "", transcript)
}

func TestStore_AssistantTranscriptNotFound(t *testing.T) {
	store := New()

	_, err := store.AssistantTranscript("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	store := New()
	id := store.Create("a.py", "print(1)")

	store.Delete(id)
	_, err := store.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op
	store.Delete(id)
}

func TestStore_CountObserver(t *testing.T) {
	store := New()

	var last int
	store.SetCountObserver(func(n int) { last = n })

	id := store.Create("a.py", "print(1)")
	assert.Equal(t, 1, last)

	store.Create("b.py", "print(2)")
	assert.Equal(t, 2, last)

	store.Delete(id)
	assert.Equal(t, 1, last)
}

func TestStore_ConcurrentAppends(t *testing.T) {
	store := New()
	id := store.Create("a.py", "print(1)")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.AppendTurn(id, RoleUser, "snippet")
			_ = store.AppendTurn(id, RoleAssistant, "answer")
		}()
	}
	wg.Wait()

	sess, err := store.Get(id)
	require.NoError(t, err)
	assert.Len(t, sess.History, 100)
}
