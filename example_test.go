package slotmap_test

import (
	"errors"
	"fmt"

	"github.com/hupe1980/slotmap"
)

func ExampleSlotMap() {
	m := slotmap.New[string]()

	a := m.Allocate("alpha")
	b := m.Allocate("beta")
	m.Erase(a)

	fmt.Println(m.Len(), *m.At(b))
	fmt.Println(m.IsSlotValid(a))

	c := m.Allocate("gamma")
	fmt.Println(c.Index == a.Index, c.Generation > a.Generation)
	// Output:
	// 1 beta
	// false
	// true true
}

func ExampleSlotMap_Get() {
	m := slotmap.New[int]()
	s := m.Allocate(42)
	m.Erase(s)

	if _, ok := m.Get(s); !ok {
		fmt.Println("gone")
	}
	// Output: gone
}

func ExampleSlotMap_All() {
	m := slotmap.New[int](slotmap.WithPageSize(4))
	for i := range 3 {
		m.Allocate(i * 10)
	}

	sum := 0
	for _, v := range m.All() {
		sum += *v
	}
	fmt.Println(sum)
	// Output: 30
}

func ExampleSparseStorage() {
	ids := slotmap.NewGenerator()
	names := slotmap.NewSparseStorage[string]()
	scores := slotmap.NewSparseStorage[int]()

	player := ids.Acquire()
	spectator := ids.Acquire()
	names.Assign(player, "ada")
	names.Assign(spectator, "bob")
	scores.Assign(player, 7)

	fmt.Println(*names.At(spectator), scores.Has(spectator))
	fmt.Println(*names.At(player), *scores.At(player))
	// Output:
	// bob false
	// ada 7
}

func ExampleContractViolation() {
	m := slotmap.New[int](slotmap.WithName("items"))
	s := m.Allocate(1)
	m.Erase(s)

	defer func() {
		err, _ := recover().(error)
		var cv *slotmap.ContractViolation
		fmt.Println(errors.As(err, &cv), errors.Is(err, slotmap.ErrInvalidSlot))
		fmt.Println(err)
	}()
	m.Erase(s)
	// Output:
	// true true
	// items: erase 0:1: slotmap: invalid slot
}

func ExampleBasicMetricsCollector() {
	metrics := &slotmap.BasicMetricsCollector{}
	m := slotmap.New[int](slotmap.WithPageSize(2), slotmap.WithMetricsCollector(metrics))
	for i := range 5 {
		m.Allocate(i)
	}

	stats := metrics.GetStats()
	fmt.Printf("live: %d, grows: %d, capacity: %d\n", stats.LiveCount, stats.GrowCount, stats.Capacity)
	// Output: live: 5, grows: 3, capacity: 6
}
