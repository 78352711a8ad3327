package view

import (
	"math"

	"github.com/Ari-Han-t/CAPS/internal/domain"
)

// Tone is the semantic colour of a display element.
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneCaution  Tone = "caution"
	ToneNeutral  Tone = "neutral"
)

// BadgeStyle is how a merchant badge is drawn.
type BadgeStyle struct {
	Tone   Tone   `json:"tone"`
	Icon   string `json:"icon"`
	Strong bool   `json:"strong"`
}

var badgeStyles = map[domain.Badge]BadgeStyle{
	domain.BadgeConfirmedScam: {Tone: ToneNegative, Icon: "shield-x", Strong: true},
	domain.BadgeLikelyScam:    {Tone: ToneNegative, Icon: "shield-alert"},
	domain.BadgeCaution:       {Tone: ToneCaution, Icon: "alert-triangle"},
	domain.BadgeUnknown:       {Tone: ToneNeutral, Icon: "help-circle"},
	domain.BadgeLikelySafe:    {Tone: TonePositive, Icon: "shield-check"},
	domain.BadgeVerifiedSafe:  {Tone: TonePositive, Icon: "shield", Strong: true},
}

// StyleForBadge returns the style of b. Unrecognised badges get the UNKNOWN style.
func StyleForBadge(b domain.Badge) BadgeStyle {
	if s, ok := badgeStyles[b]; ok {
		return s
	}
	return badgeStyles[domain.BadgeUnknown]
}

var riskTones = map[domain.RiskState]Tone{
	domain.RiskUnflagged: ToneNeutral,
	domain.RiskWatchlist: ToneCaution,
	domain.RiskBlocked:   ToneNegative,
	domain.RiskTrusted:   TonePositive,
}

// ToneForRiskState returns the pill tone of a risk state; unknown states are neutral.
func ToneForRiskState(s domain.RiskState) Tone {
	if t, ok := riskTones[s]; ok {
		return t
	}
	return ToneNeutral
}

// MerchantCard is the display form of one merchant score.
type MerchantCard struct {
	MerchantVPA       string           `json:"merchant_vpa"`
	Badge             domain.Badge     `json:"badge"`
	BadgeLabel        string           `json:"badge_label"`
	BadgeEmoji        string           `json:"badge_emoji"`
	Style             BadgeStyle       `json:"style"`
	ScamRate          float64          `json:"scam_rate"`
	CommunityPercent  int              `json:"community_percent"`
	ScamReports       int              `json:"scam_reports"`
	LegitimateReports int              `json:"legitimate_reports"`
	TotalReports      int              `json:"total_reports"`
	RiskState         domain.RiskState `json:"risk_state"`
	RiskTone          Tone             `json:"risk_tone"`
}

// NewMerchantCard derives the card of m. Out-of-range rates are clamped, never rejected.
func NewMerchantCard(m domain.MerchantScoreData) MerchantCard {
	return MerchantCard{
		MerchantVPA:       m.MerchantVPA,
		Badge:             m.Badge,
		BadgeLabel:        m.Badge.Label(),
		BadgeEmoji:        m.BadgeEmoji,
		Style:             StyleForBadge(m.Badge),
		ScamRate:          clamp(m.ScamRate, 0, 100),
		CommunityPercent:  int(math.Round(clamp(m.CommunityScore, 0, 1) * 100)),
		ScamReports:       m.ScamReports,
		LegitimateReports: m.LegitimateReports,
		TotalReports:      m.TotalReports,
		RiskState:         m.RiskState,
		RiskTone:          ToneForRiskState(m.RiskState),
	}
}

// MerchantCards maps every merchant to its card, preserving order.
func MerchantCards(ms []domain.MerchantScoreData) []MerchantCard {
	cards := make([]MerchantCard, 0, len(ms))
	for _, m := range ms {
		cards = append(cards, NewMerchantCard(m))
	}
	return cards
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
