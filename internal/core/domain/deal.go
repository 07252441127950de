package domain

import "time"

// DealStage represents the pipeline position of a deal.
type DealStage string

const (
	StageNew         DealStage = "new"
	StageNegotiation DealStage = "negotiation"
	StageOfferSent   DealStage = "offer_sent"
	StageWon         DealStage = "won"
	StageLost        DealStage = "lost"
)

// stageOrder is the fixed total order used by the transition rule.
var stageOrder = []DealStage{StageNew, StageNegotiation, StageOfferSent, StageWon, StageLost}

// StageIndex returns the position of s in the pipeline order.
// Unknown stages map to 0, same as a brand new deal.
func StageIndex(s DealStage) int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return 0
}

// ValidStage reports whether s is one of the five known stages.
func ValidStage(s DealStage) bool {
	for _, st := range stageOrder {
		if st == s {
			return true
		}
	}
	return false
}

// CanAdvanceTo reports whether a transition from s to next is allowed.
// The pipeline is monotonically forward-only: only moves to a strictly
// lower index are rejected. Equal-index moves (including won -> lost,
// which sit at different indexes anyway) pass the literal rule.
func (s DealStage) CanAdvanceTo(next DealStage) bool {
	return StageIndex(next) >= StageIndex(s)
}

// Terminal reports whether s closes the deal.
func (s DealStage) Terminal() bool {
	return s == StageWon || s == StageLost
}

// Deal is the core aggregate of the sales pipeline.
type Deal struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	ExpectedValue *float64   `json:"expectedValue"`
	Stage         DealStage  `json:"stage"`
	CloseDate     *time.Time `json:"closeDate"`
	UserID        int64      `json:"userId"`
	ClientID      int64      `json:"clientId"`
	PropertyID    int64      `json:"propertyId"`
}

// IsClosed is the single shared closed-deal predicate: a deal is closed
// when it has a close date or sits in a terminal stage. Every listing and
// metric computation must go through this function so the admin, manager
// and seller views cannot diverge.
func IsClosed(stage DealStage, closeDate *time.Time) bool {
	return closeDate != nil || stage.Terminal()
}

// Closed applies IsClosed to the deal's own fields.
func (d *Deal) Closed() bool {
	return IsClosed(d.Stage, d.CloseDate)
}

// Value returns the expected value, treating absent as 0.
func (d *Deal) Value() float64 {
	if d.ExpectedValue == nil {
		return 0
	}
	return *d.ExpectedValue
}
