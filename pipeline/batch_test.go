package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBatch_BySize(t *testing.T) {
	p := FromSlice([]int{1, 2, 3, 4, 5})
	got, err := Collect(context.Background(), Batch(p, 2, 0))
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{{1, 2}, {3, 4}, {5}}
	if len(got) != len(want) {
		t.Fatalf("expected %d batches, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !intSliceEqual(got[i], want[i]) {
			t.Errorf("batch %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestBatch_SizeOne(t *testing.T) {
	got, err := Collect(context.Background(), Batch(FromSlice([]int{1, 2, 3}), 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(got))
	}
	for i, b := range got {
		if len(b) != 1 || b[0] != i+1 {
			t.Errorf("batch %d: expected [%d], got %v", i, i+1, b)
		}
	}
}

func TestBatch_Empty(t *testing.T) {
	got, err := Collect(context.Background(), Batch(FromSlice([]int{}), 3, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestBatch_DefaultsOnZeroZero(t *testing.T) {
	got, err := Collect(context.Background(), Batch(FromSlice([]int{1, 2, 3}), 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 batches (size=1 default), got %d", len(got))
	}
}

func TestBatch_Timeout(t *testing.T) {
	src := &slowIter{items: []int{1, 2, 3, 4}, delay: 30 * time.Millisecond}
	batched := Batch(From[int](src), 100, 50*time.Millisecond)

	got, err := Collect(context.Background(), batched)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) < 2 {
		t.Fatalf("expected the timeout to split the stream, got %v", got)
	}
	var total []int
	for _, b := range got {
		total = append(total, b...)
	}
	if !intSliceEqual(total, []int{1, 2, 3, 4}) {
		t.Errorf("values = %v, want [1 2 3 4]", total)
	}
}

func TestBatch_ErrorAfterPartialBatch(t *testing.T) {
	boom := errors.New("source failed")
	src := Map(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) (int, error) {
		if n == 3 {
			return 0, boom
		}
		return n, nil
	})

	it := Batch(src, 10, 0).Iter(context.Background())
	defer it.Close()

	batch, ok, err := it.Next(context.Background())
	if err != nil || !ok {
		t.Fatalf("first Next: ok=%v err=%v", ok, err)
	}
	if !intSliceEqual(batch, []int{1, 2}) {
		t.Errorf("partial batch = %v, want [1 2]", batch)
	}
	_, ok, err = it.Next(context.Background())
	if ok || !errors.Is(err, boom) {
		t.Fatalf("second Next: ok=%v err=%v, want held-back error", ok, err)
	}
	_, ok, err = it.Next(context.Background())
	if ok || err != nil {
		t.Errorf("third Next: ok=%v err=%v, want exhausted", ok, err)
	}
}

func TestBatch_FlattenRestoresOrder(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7}
	batched := Batch(FromSlice(in), 3, 0)
	flat := FlatMap(batched, func(ctx context.Context, b []int) (Iterator[int], error) {
		return FromSlice(b).Iter(ctx), nil
	})
	got, err := Collect(context.Background(), flat)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, in) {
		t.Errorf("got %v, want %v", got, in)
	}
}

// slowIter sleeps before every value.
type slowIter struct {
	items []int
	delay time.Duration
	index int
}

func (it *slowIter) Next(ctx context.Context) (int, bool, error) {
	if it.index >= len(it.items) {
		return 0, false, nil
	}
	select {
	case <-time.After(it.delay):
	case <-ctx.Done():
		return 0, false, ctx.Err()
	}
	v := it.items[it.index]
	it.index++
	return v, true, nil
}

func (it *slowIter) Close() error { return nil }
