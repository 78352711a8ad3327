package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/infra/observability"
	"github.com/Ari-Han-t/CAPS/internal/service"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newDispatcher(commands *mockCommands) (*service.Dispatcher, *service.HistoryStore) {
	history := service.NewHistoryStore()
	return service.NewDispatcher(commands, history, observability.NewMetrics(), zap.NewNop()), history
}

func TestDispatcher_SuccessAppendsUserThenSystem(t *testing.T) {
	resp := &domain.CommandResponse{PolicyDecision: domain.DecisionApprove, Message: "done"}
	d, history := newDispatcher(&mockCommands{resp: resp})

	got, err := d.Submit(context.Background(), "  pay shop 10  ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != resp {
		t.Errorf("expected the service response to be returned")
	}

	items := history.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(items))
	}
	if items[0].Kind != domain.TurnUser || items[0].Text != "  pay shop 10  " {
		t.Errorf("expected USER turn with raw transcript, got %+v", items[0])
	}
	if items[1].Kind != domain.TurnSystem || items[1].Response != resp {
		t.Errorf("expected SYSTEM turn carrying the response, got %+v", items[1])
	}
	if items[0].Seq != 1 || items[1].Seq != 2 || items[0].ID == items[1].ID {
		t.Errorf("expected sequential seq and distinct ids, got %+v", items)
	}
}

func TestDispatcher_FailureAppendsErrorTurn(t *testing.T) {
	commands := &mockCommands{err: &domain.ErrExternalService{Service: "command", Err: errors.New("connection refused")}}
	d, history := newDispatcher(commands)

	_, err := d.Submit(context.Background(), "pay shop 10")

	var connErr *domain.ErrConnectivity
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ErrConnectivity, got %v", err)
	}
	var ext *domain.ErrExternalService
	if !errors.As(err, &ext) {
		t.Errorf("expected the client error to be wrapped, got %v", err)
	}

	items := history.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(items))
	}
	if items[1].Kind != domain.TurnError || items[1].Text != domain.ConnectivityErrorMessage {
		t.Errorf("expected ERROR turn with fixed message, got %+v", items[1])
	}
	if commands.callCount() != 1 {
		t.Errorf("expected no retry, got %d calls", commands.callCount())
	}
}

func TestDispatcher_NilResponseIsConnectivityError(t *testing.T) {
	d, history := newDispatcher(&mockCommands{})

	_, err := d.Submit(context.Background(), "hello")

	var connErr *domain.ErrConnectivity
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ErrConnectivity, got %v", err)
	}
	if history.Items()[1].Kind != domain.TurnError {
		t.Errorf("expected ERROR turn")
	}
}

func TestDispatcher_EmptyTranscriptRejected(t *testing.T) {
	commands := &mockCommands{}
	d, history := newDispatcher(commands)

	for _, transcript := range []string{"", "   ", "\n\t"} {
		_, err := d.Submit(context.Background(), transcript)
		var valErr *domain.ErrValidation
		if !errors.As(err, &valErr) {
			t.Errorf("expected ErrValidation for %q, got %v", transcript, err)
		}
	}
	if len(history.Items()) != 0 || commands.callCount() != 0 {
		t.Errorf("expected nothing recorded or sent, got %d turns and %d calls", len(history.Items()), commands.callCount())
	}
}

func TestDispatcher_SingleFlight(t *testing.T) {
	commands := &mockCommands{
		resp:    &domain.CommandResponse{PolicyDecision: domain.DecisionApprove},
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	d, history := newDispatcher(commands)

	done := make(chan error, 1)
	go func() {
		_, err := d.Submit(context.Background(), "first")
		done <- err
	}()
	<-commands.started

	if !d.Processing() {
		t.Error("expected dispatcher to report processing")
	}
	_, err := d.Submit(context.Background(), "second")
	if !errors.Is(err, domain.ErrProcessing) {
		t.Fatalf("expected ErrProcessing, got %v", err)
	}

	close(commands.block)
	if err := <-done; err != nil {
		t.Fatalf("expected first submit to succeed, got %v", err)
	}
	if d.Processing() {
		t.Error("expected dispatcher to be idle")
	}
	if len(history.Items()) != 2 {
		t.Errorf("expected only the first submission recorded, got %d turns", len(history.Items()))
	}
}

func TestDispatcher_TwoTurnsPerSubmission(t *testing.T) {
	commands := &mockCommands{resp: &domain.CommandResponse{PolicyDecision: domain.DecisionApprove}}
	d, history := newDispatcher(commands)

	const n = 7
	for i := 0; i < n; i++ {
		if i%3 == 0 {
			commands.err = errors.New("timeout")
		} else {
			commands.err = nil
		}
		_, _ = d.Submit(context.Background(), "command")
	}

	items := history.Items()
	if len(items) != 2*n {
		t.Fatalf("expected %d turns, got %d", 2*n, len(items))
	}
	for i, it := range items {
		if i%2 == 0 && it.Kind != domain.TurnUser {
			t.Errorf("turn %d: expected USER, got %s", i, it.Kind)
		}
		if i%2 == 1 && it.Kind == domain.TurnUser {
			t.Errorf("turn %d: expected a reply, got USER", i)
		}
	}
}

func TestDispatcher_LogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	history := service.NewHistoryStore()
	d := service.NewDispatcher(&mockCommands{err: errors.New("boom")}, history, observability.NewMetrics(), zap.New(core))

	_, _ = d.Submit(context.Background(), "pay")

	entries := logs.FilterMessage("command dispatch failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one error log, got %d", len(entries))
	}
	if _, ok := entries[0].ContextMap()["error"]; !ok {
		t.Error("expected error field on log entry")
	}
}

func TestHistoryStore_SubscribeAndUnsubscribe(t *testing.T) {
	history := service.NewHistoryStore()

	var seen []domain.TurnKind
	unsubscribe := history.Subscribe(func(it domain.HistoryItem) {
		seen = append(seen, it.Kind)
	})

	history.Append(domain.TurnUser, "hi", nil)
	history.Append(domain.TurnSystem, "hello", &domain.CommandResponse{})
	unsubscribe()
	history.Append(domain.TurnUser, "bye", nil)

	if len(seen) != 2 || seen[0] != domain.TurnUser || seen[1] != domain.TurnSystem {
		t.Errorf("unexpected notifications %v", seen)
	}

	items := history.Items()
	items[0].Text = "changed"
	if history.Items()[0].Text != "hi" {
		t.Error("expected Items to return a copy")
	}
}
