// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/Ari-Han-t/CAPS/internal/domain"
)

// CommandSubmitter sends a finalized transcript to the remote decision service.
type CommandSubmitter interface {
	SubmitCommand(ctx context.Context, transcript string) (*domain.CommandResponse, error)
}

// MerchantScoresFetcher lists the crowdsourced merchant scores.
type MerchantScoresFetcher interface {
	ListMerchantScores(ctx context.Context) ([]domain.MerchantScoreData, error)
}

// FraudStatsFetcher retrieves the network-wide fraud counters.
type FraudStatsFetcher interface {
	GetFraudStats(ctx context.Context) (*domain.FraudStats, error)
}

// MerchantReporter submits a merchant report.
type MerchantReporter interface {
	SubmitMerchantReport(ctx context.Context, req *domain.MerchantReportRequest) (*domain.ReportResult, error)
}

// FraudIntelligence is the full fraud service surface.
type FraudIntelligence interface {
	MerchantScoresFetcher
	FraudStatsFetcher
	MerchantReporter
}

// SpeechCapture is the opaque speech-to-text capability. The transcript only
// grows while listening; Stop freezes it until the next Start.
type SpeechCapture interface {
	Start() error
	Stop()
	IsListening() bool
	Transcript() string
}

// Cache is a keyed lookup over the last published data set.
type Cache[T any] interface {
	Get(key string) (T, bool)
	// Replace swaps the whole content at once; nil empties it.
	Replace(items map[string]T)
}

// EventPublisher receives session change notifications.
type EventPublisher interface {
	Publish(eventType string, data any)
}
