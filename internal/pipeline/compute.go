package pipeline

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/mohdfareed/health-vaults-sub001/internal/engine"
	"github.com/mohdfareed/health-vaults-sub001/internal/model"
	"github.com/mohdfareed/health-vaults-sub001/internal/store"
)

// Inputs are the three daily series an estimation run needs, loaded
// wide enough to cover the deepest fallback stage.
type Inputs struct {
	Weight  model.DailySeries
	Intake  model.DailySeries
	BodyFat model.DailySeries
}

// LoadInputs reads the series ending at ref from the store, looking
// back far enough for the last fallback stage to see its full window.
func LoadInputs(st *store.Store, ref time.Time, cfg engine.Config) (Inputs, error) {
	ref = model.DateOf(ref)

	lookback := cfg.WindowDays
	for _, stage := range cfg.FallbackStages {
		if stage > lookback {
			lookback = stage
		}
	}
	from := model.AddDays(ref, -(lookback - 1))

	var in Inputs
	var err error
	if in.Weight, err = st.LoadSeries(model.MetricWeight, from, ref); err != nil {
		return Inputs{}, fmt.Errorf("loading weight: %w", err)
	}
	if in.Intake, err = st.LoadSeries(model.MetricIntake, from, ref); err != nil {
		return Inputs{}, fmt.Errorf("loading intake: %w", err)
	}
	if in.BodyFat, err = st.LoadSeries(model.MetricBodyFat, from, ref); err != nil {
		return Inputs{}, fmt.Errorf("loading body fat: %w", err)
	}
	return in, nil
}

// Result is one full estimation run: the maintenance snapshot plus the
// budget derived from it.
type Result struct {
	Estimate model.MaintenanceEstimate
	Budget   model.BudgetEstimate
}

// Compute loads inputs at ref, runs the engine, persists the
// maintenance snapshot, and returns both estimates.
func Compute(st *store.Store, ref time.Time, adjustment float64, cfg engine.Config) (Result, error) {
	in, err := LoadInputs(st, ref, cfg)
	if err != nil {
		return Result{}, err
	}

	est := engine.EstimateMaintenance(in.Weight, in.Intake, in.BodyFat, ref, cfg)
	week := engine.WeekIntake(in.Intake, ref, cfg)
	budget := engine.ComputeBudget(est, adjustment, week, cfg)

	if err := st.SaveSnapshot(est); err != nil {
		return Result{}, err
	}
	return Result{Estimate: est, Budget: budget}, nil
}

// Fingerprint returns a deterministic hash of the inputs. Identical
// series produce identical fingerprints, so callers can key memoized
// results or detect that nothing changed between runs.
func Fingerprint(in Inputs) uint64 {
	h := fnv.New64a()
	for _, s := range []model.DailySeries{in.Weight, in.Intake, in.BodyFat} {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(s.Len()))
		_, _ = h.Write(buf[:])
		for i := 0; i < s.Len(); i++ {
			p := s.At(i)
			binary.BigEndian.PutUint64(buf[:], uint64(p.Day.Unix()))
			_, _ = h.Write(buf[:])
			binary.BigEndian.PutUint64(buf[:], math.Float64bits(p.Value))
			_, _ = h.Write(buf[:])
		}
	}
	return h.Sum64()
}
