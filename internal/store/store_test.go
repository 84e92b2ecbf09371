package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homeservices/internal/domain"
)

func TestStore_DispatchPublishesSnapshots(t *testing.T) {
	st := New()
	first := st.State()

	next := st.Dispatch(AddJob{Job: job("1", domain.CategoryHVAC)})
	require.NotSame(t, first, next)
	require.Same(t, next, st.State())
	require.Empty(t, first.Jobs.Jobs)
}

func TestStore_ListenersSeeEveryDispatchInOrder(t *testing.T) {
	st := New()
	var names []string
	var pairs [][2]*State
	unsubscribe := st.Subscribe(func(a Action, prev, next *State) {
		names = append(names, a.Name())
		pairs = append(pairs, [2]*State{prev, next})
	})

	st.Dispatch(SetLoading{Loading: true})
	st.Dispatch(AddJob{Job: job("1", domain.CategoryHVAC)})
	st.Dispatch(SetLoading{Loading: false})
	unsubscribe()
	st.Dispatch(ClearUser{})

	require.Equal(t, []string{"SetLoading", "AddJob", "SetLoading"}, names)
	require.Same(t, pairs[0][1], pairs[1][0])
	require.Same(t, pairs[1][1], pairs[2][0])
}

func TestStore_ConcurrentDispatchKeepsEveryJob(t *testing.T) {
	st := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st.Dispatch(AddJob{Job: job(string(rune('A'+i)), domain.CategoryHVAC)})
		}(i)
	}
	wg.Wait()

	require.Len(t, st.State().Jobs.Jobs, 50)
}

func TestStore_WithState(t *testing.T) {
	seed := Reduce(Initial(), AddJob{Job: job("seed", domain.CategoryHVAC)})
	st := New(WithState(seed))
	require.Same(t, seed, st.State())
}
