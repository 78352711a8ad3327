package service

import (
	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/infra/observability"
	"github.com/Ari-Han-t/CAPS/internal/port"
	"github.com/Ari-Han-t/CAPS/internal/view"

	"go.uber.org/zap"
)

// Event types published to session subscribers.
const (
	EventTurnAppended = "turn_appended"
	EventVoiceState   = "voice_state"
	EventFraudView    = "fraud_view"
	EventAccount      = "account"
)

// SessionDeps are the collaborators of a Session.
type SessionDeps struct {
	Commands      port.CommandSubmitter
	Fraud         port.FraudIntelligence
	Capture       port.SpeechCapture
	MerchantCache port.Cache[domain.MerchantScoreData]
	Publisher     port.EventPublisher
	DailyLimit    float64
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// Session wires the components of one voice session together.
type Session struct {
	History    *HistoryStore
	Dispatcher *Dispatcher
	Voice      *VoiceController
	Fraud      *FraudAggregator
	Report     *ReportForm
	Account    *AccountState
}

// NewSession builds a session and connects change notifications to the publisher.
func NewSession(deps SessionDeps) *Session {
	pub := deps.Publisher
	if pub == nil {
		pub = nopPublisher{}
	}

	history := NewHistoryStore()
	dispatcher := NewDispatcher(deps.Commands, history, deps.Metrics, deps.Logger)
	aggregator := NewFraudAggregator(deps.Fraud, deps.MerchantCache, deps.Metrics, deps.Logger)

	s := &Session{
		History:    history,
		Dispatcher: dispatcher,
		Voice:      NewVoiceController(deps.Capture, dispatcher, deps.Logger),
		Fraud:      aggregator,
		Report:     NewReportForm(deps.Fraud, aggregator, deps.Metrics, deps.Logger),
		Account:    NewAccountState(deps.DailyLimit),
	}

	history.Subscribe(func(item domain.HistoryItem) {
		pub.Publish(EventTurnAppended, view.RenderTurn(item))
		if item.Kind == domain.TurnSystem && s.Account.Apply(item.Response) {
			pub.Publish(EventAccount, view.NewAccountPanel(s.Account.Props()))
		}
	})
	s.Voice.OnChange(func(st VoiceStatus) {
		pub.Publish(EventVoiceState, st)
	})
	aggregator.OnChange(func(v FraudView) {
		pub.Publish(EventFraudView, v)
	})

	return s
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}
