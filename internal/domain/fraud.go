package domain

import "strings"

// ============================================================
// Fraud intelligence: crowdsourced merchant ratings
// ============================================================

// Badge is the trust label the fraud service assigns to a merchant.
// Unknown values are tolerated and rendered with the UNKNOWN style.
type Badge string

const (
	BadgeConfirmedScam Badge = "CONFIRMED_SCAM"
	BadgeLikelyScam    Badge = "LIKELY_SCAM"
	BadgeCaution       Badge = "CAUTION"
	BadgeUnknown       Badge = "UNKNOWN"
	BadgeLikelySafe    Badge = "LIKELY_SAFE"
	BadgeVerifiedSafe  Badge = "VERIFIED_SAFE"
)

// Label is the human form of the badge: underscores become spaces.
func (b Badge) Label() string {
	return strings.ReplaceAll(string(b), "_", " ")
}

// NormalizeVPA is the comparison form of a payment address: trimmed and
// lower-cased, since VPAs are case-insensitive.
func NormalizeVPA(vpa string) string {
	return strings.ToLower(strings.TrimSpace(vpa))
}

// RiskState is the enforcement state of a merchant.
type RiskState string

const (
	RiskUnflagged RiskState = "UNFLAGGED"
	RiskWatchlist RiskState = "WATCHLIST"
	RiskBlocked   RiskState = "BLOCKED"
	RiskTrusted   RiskState = "TRUSTED"
)

// ReportCategory is what a user claims about a merchant.
type ReportCategory string

const (
	ReportScam       ReportCategory = "SCAM"
	ReportSuspicious ReportCategory = "SUSPICIOUS"
	ReportLegitimate ReportCategory = "LEGITIMATE"
)

// Valid reports whether c is one of the accepted report categories.
func (c ReportCategory) Valid() bool {
	switch c {
	case ReportScam, ReportSuspicious, ReportLegitimate:
		return true
	}
	return false
}

// MerchantScoreData is the aggregated community view of one merchant.
type MerchantScoreData struct {
	MerchantVPA       string    `json:"merchant_vpa"`
	Badge             Badge     `json:"badge"`
	BadgeEmoji        string    `json:"badge_emoji"`
	ScamRate          float64   `json:"scam_rate"`       // 0..100
	CommunityScore    float64   `json:"community_score"` // 0..1
	ScamReports       int       `json:"scam_reports"`
	LegitimateReports int       `json:"legitimate_reports"`
	TotalReports      int       `json:"total_reports"`
	RiskState         RiskState `json:"risk_state"`
}

// FraudStats are the network-wide report counters.
type FraudStats struct {
	TotalReports     int `json:"total_reports"`
	TotalMerchants   int `json:"total_merchants"`
	FlaggedMerchants int `json:"flagged_merchants"`
	SafeMerchants    int `json:"safe_merchants"`
}

// MerchantReportRequest is the payload of a report submission.
type MerchantReportRequest struct {
	MerchantVPA string         `json:"merchant_vpa"`
	ReportType  ReportCategory `json:"report_type"`
	Reason      string         `json:"reason,omitempty"`
}

// ReportResult is the fraud service's answer to a report.
type ReportResult struct {
	UpdatedBadge      Badge  `json:"updated_badge"`
	UpdatedBadgeEmoji string `json:"updated_badge_emoji"`
}
