package ai

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type stubBackend struct {
	reply string
	err   error
	calls *[]string
	id    string
}

func (s stubBackend) GetReply(context.Context, []Message, Options) (string, error) {
	if s.calls != nil {
		*s.calls = append(*s.calls, s.id)
	}
	return s.reply, s.err
}

func TestChainReturnsFirstSuccess(t *testing.T) {
	var calls []string
	errFirst := errors.New("first down")
	chain := NewChain([]Entry{
		{ID: "a", Backend: stubBackend{id: "a", err: errFirst, calls: &calls}},
		{ID: "b", Backend: stubBackend{id: "b", err: errors.New("second down"), calls: &calls}},
		{ID: "c", Backend: stubBackend{id: "c", reply: "ok", calls: &calls}},
	}, nil)

	res, err := chain.Generate(context.Background(), []Message{UserMessage("hi")}, Options{})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if res.Reply != "ok" || res.Provider != "c" {
		t.Errorf("Generate() = %q from %q, want ok from c", res.Reply, res.Provider)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if len(res.Attempts) != 2 || res.Attempts[0].ID != "a" || !errors.Is(res.Attempts[0].Err, errFirst) {
		t.Errorf("Attempts = %+v", res.Attempts)
	}
}

func TestChainStopsAfterSuccess(t *testing.T) {
	var calls []string
	chain := NewChain([]Entry{
		{ID: "a", Backend: stubBackend{id: "a", reply: "first", calls: &calls}},
		{ID: "b", Backend: stubBackend{id: "b", reply: "second", calls: &calls}},
	}, nil)

	reply, err := chain.GetReply(context.Background(), nil, Options{})
	if err != nil || reply != "first" {
		t.Fatalf("GetReply() = %q, %v", reply, err)
	}
	if len(calls) != 1 {
		t.Errorf("later backends were called: %v", calls)
	}
}

func TestChainBlankReplyIsFailure(t *testing.T) {
	chain := NewChain([]Entry{
		{ID: "blank", Backend: stubBackend{reply: "  \n "}},
		{ID: "good", Backend: stubBackend{reply: "hello"}},
	}, nil)

	res, err := chain.Generate(context.Background(), nil, Options{})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if res.Provider != "good" {
		t.Errorf("Provider = %q, want good", res.Provider)
	}
	if len(res.Attempts) != 1 || !errors.Is(res.Attempts[0].Err, ErrGenerationFailed) {
		t.Errorf("blank reply attempt = %+v", res.Attempts)
	}
}

func TestChainAllFail(t *testing.T) {
	errLast := errors.New("last down")
	chain := NewChain([]Entry{
		{ID: "a", Backend: stubBackend{err: errors.New("down")}},
		{ID: "b", Backend: stubBackend{reply: ""}},
		{ID: "c", Backend: stubBackend{err: errLast}},
	}, nil)

	reply, err := chain.GetReply(context.Background(), nil, Options{})
	if !errors.Is(err, ErrAllBackendsFailed) {
		t.Fatalf("error = %v, want ErrAllBackendsFailed", err)
	}
	if !errors.Is(err, errLast) {
		t.Errorf("error %v does not wrap the last backend error", err)
	}
	if reply != "" {
		t.Errorf("reply = %q, want empty", reply)
	}
}

func TestChainEmpty(t *testing.T) {
	_, err := NewChain(nil, nil).GetReply(context.Background(), nil, Options{})
	if !errors.Is(err, ErrNoBackends) {
		t.Errorf("error = %v, want ErrNoBackends", err)
	}
}

func TestChainCancelledContext(t *testing.T) {
	var calls []string
	chain := NewChain([]Entry{
		{ID: "a", Backend: stubBackend{id: "a", reply: "x", calls: &calls}},
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := chain.GetReply(ctx, nil, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(calls) != 0 {
		t.Errorf("backend called after cancel: %v", calls)
	}
}

func TestFirstSuccessGeneric(t *testing.T) {
	var order []int
	ops := []Op[int]{
		{ID: "one", Run: func() (int, error) { order = append(order, 1); return 0, errors.New("no") }},
		{ID: "two", Run: func() (int, error) { order = append(order, 2); return 42, nil }},
		{ID: "three", Run: func() (int, error) { order = append(order, 3); return 7, nil }},
	}

	got, attempts, err := FirstSuccess(ops)
	if err != nil || got != 42 {
		t.Fatalf("FirstSuccess() = %d, %v", got, err)
	}
	if len(attempts) != 1 || attempts[0].ID != "one" {
		t.Errorf("attempts = %+v", attempts)
	}
	if !reflect.DeepEqual(order, []int{1, 2}) {
		t.Errorf("order = %v", order)
	}
}
