// Package tracker implements the ATH/dip state machine: it consumes price
// samples, maintains the running all-time-high and decides when the retrace
// from it is deep enough to fire a buyback.
package tracker

// Observation is the outcome of feeding one price sample to the tracker.
//
// Dip is reported on every sample below the ATH, triggered or not, so the
// orchestrator can log how far the price sits from the high.
type Observation struct {
	NewATH    bool    // sample raised the all-time-high
	Dip       float64 // (ATH - price) / ATH; 0 when ATH was unset or raised
	Triggered bool    // dip crossed the configured threshold
}

// Tracker holds the running all-time-high for one tracked asset.
//
// It has no internal synchronization: the orchestrator owns one Tracker per
// asset and feeds it from a single loop. An unset ATH is represented by zero.
type Tracker struct {
	threshold float64
	ath       float64
}

// New returns a Tracker that triggers once the dip fraction reaches
// threshold. The ATH starts unset.
func New(threshold float64) *Tracker {
	return &Tracker{threshold: threshold}
}

// Observe feeds one price sample to the tracker and returns the transition.
//
// Rules:
//   - Unset ATH: the sample becomes the ATH. Never a trigger; the first
//     sample after startup is a baseline, not a dip.
//   - price > ATH: the sample becomes the new ATH, no trigger.
//   - price == ATH: dip is 0, not a new high, no trigger.
//   - price < ATH: dip = (ATH - price) / ATH, triggered iff dip >= threshold
//     (boundary inclusive).
func (t *Tracker) Observe(price float64) Observation {
	if t.ath == 0 {
		t.ath = price
		return Observation{}
	}
	if price > t.ath {
		t.ath = price
		return Observation{NewATH: true}
	}

	dip := (t.ath - price) / t.ath
	return Observation{
		Dip:       dip,
		Triggered: dip >= t.threshold,
	}
}

// Reset sets the ATH to price. Called after a successful buyback so residual
// volatility around the fill does not immediately retrigger.
func (t *Tracker) Reset(price float64) {
	t.ath = price
}

// ATH returns the current all-time-high; zero means unset.
func (t *Tracker) ATH() float64 {
	return t.ath
}

// Threshold returns the configured dip threshold fraction.
func (t *Tracker) Threshold() float64 {
	return t.threshold
}
