// Command capsreplay plays a scripted list of utterances through a voice
// session against a live engine and prints every turn to the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Ari-Han-t/CAPS/internal/config"
	"github.com/Ari-Han-t/CAPS/internal/domain"
	"github.com/Ari-Han-t/CAPS/internal/infra/cache"
	"github.com/Ari-Han-t/CAPS/internal/infra/client"
	"github.com/Ari-Han-t/CAPS/internal/infra/observability"
	"github.com/Ari-Han-t/CAPS/internal/infra/resilience"
	"github.com/Ari-Han-t/CAPS/internal/infra/speech"
	"github.com/Ari-Han-t/CAPS/internal/render"
	"github.com/Ari-Han-t/CAPS/internal/service"
	"github.com/Ari-Han-t/CAPS/internal/view"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	scriptPath := flag.String("script", "", "YAML file with the utterances to replay")
	apiURL := flag.String("api", cfg.CommandAPIURL, "command service base URL")
	fraudURL := flag.String("fraud-api", cfg.FraudAPIURL, "fraud service base URL")
	showFraud := flag.Bool("fraud", false, "print the fraud panel after the replay")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Fprintln(os.Stderr, "usage: capsreplay -script utterances.yaml")
		os.Exit(2)
	}

	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	script, err := speech.LoadScript(*scriptPath)
	if err != nil {
		logger.Fatal("failed to load script", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	merchantCache := cache.NewKeyed[domain.MerchantScoreData](domain.NormalizeVPA)

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	capture := speech.NewScripted(script)
	sess := service.NewSession(service.SessionDeps{
		Commands:      client.NewCommandClient(httpClient, *apiURL, resilience.NewCircuitBreaker("command")),
		Fraud:         client.NewFraudClient(httpClient, *fraudURL, resilience.NewCircuitBreaker("fraud")),
		Capture:       capture,
		MerchantCache: merchantCache,
		DailyLimit:    cfg.DailyLimit,
		Metrics:       metrics,
		Logger:        logger,
	})

	sess.History.Subscribe(func(item domain.HistoryItem) {
		fmt.Println(render.Turn(view.RenderTurn(item)))
	})

	logger.Info("replaying script",
		zap.String("name", script.Name),
		zap.Int("utterances", capture.Remaining()),
	)

	ctx := context.Background()
	for capture.Remaining() > 0 {
		ok, err := sess.Voice.Start()
		if err != nil {
			logger.Fatal("capture failed", zap.Error(err))
		}
		if !ok {
			time.Sleep(50 * time.Millisecond)
			continue
		}

		if _, err := sess.Voice.Stop(ctx); err != nil {
			var connErr *domain.ErrConnectivity
			var valErr *domain.ErrValidation
			switch {
			case errors.As(err, &connErr):
				// Already recorded as an ERROR turn.
			case errors.As(err, &valErr):
				logger.Warn("skipped blank utterance")
			default:
				logger.Error("command failed", zap.Error(err))
			}
		}
	}

	fmt.Println(render.Account(view.NewAccountPanel(sess.Account.Props())))

	if *showFraud {
		v := sess.Fraud.Open(ctx)
		fmt.Println(render.Fraud(v.Stats, view.MerchantCards(v.Merchants), v.Degraded))
	}

	snap := metrics.GetSessionSnapshot()
	logger.Info("replay finished",
		zap.Int64("commands", snap.CommandsSubmitted),
		zap.Int64("failed", snap.CommandsFailed),
	)
}
