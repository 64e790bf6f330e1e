// Package analyzer runs the full protein analysis: physicochemical features,
// BLASTp similarity search and the learned structural classifier, then
// compares the learned class with the rule-based one.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"protein_predictor_go/tools/blastp"
	"protein_predictor_go/tools/predictor"
	"protein_predictor_go/tools/protparam"
	"protein_predictor_go/tools/structclass"
	common "protein_predictor_go/utils"
)

// Classifier predicts a structural class from a sequence.
type Classifier interface {
	PredictSequence(seq string) (predictor.Prediction, error)
}

// Analyzer ties the three capabilities together. Extractor and Searcher may
// fail at any time; their sections of the result are then marked
// unavailable. Searcher may be nil to skip the similarity search.
type Analyzer struct {
	Extractor    protparam.Extractor
	Searcher     blastp.Searcher
	Classifier   Classifier
	BlastTimeout time.Duration
	Logs         common.Logs
}

// Result holds everything learned about one sequence.
type Result struct {
	ID       string
	Sequence string

	Features   *protparam.Features // nil when extraction failed
	FeatureErr error

	Hits     []blastp.Hit
	BlastErr error // also set when the search was skipped

	Prediction predictor.Prediction
}

// ErrBlastSkipped marks a result whose similarity search was not requested.
var ErrBlastSkipped = errors.New("BLASTp search skipped")

// RuleClass returns the rule-based class when features are available.
func (r Result) RuleClass() (structclass.Class, bool) {
	if r.Features == nil {
		return 0, false
	}
	return r.Features.StructureClass(), true
}

// Match reports whether the learned and rule-based classes agree. ok is
// false when there are no features to compare against.
func (r Result) Match() (match, ok bool) {
	rule, ok := r.RuleClass()
	if !ok {
		return false, false
	}
	return rule == r.Prediction.Class, true
}

// Analyze validates the sequence and runs every stage. Only an invalid
// or empty sequence or a classifier failure is returned as an error.
func (a *Analyzer) Analyze(ctx context.Context, rec common.Record) (Result, error) {
	logs := a.Logs
	if logs.Info == nil {
		logs = common.DiscardLogs()
	}

	seq, err := common.ValidateSequence(rec.Sequence)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", rec.ID, err)
	}
	if seq == "" {
		return Result{}, fmt.Errorf("%s: %w", rec.ID, protparam.ErrEmptySequence)
	}
	res := Result{ID: rec.ID, Sequence: seq}

	if f, err := a.Extractor.Extract(seq); err != nil {
		logs.Warn.Printf("%s: feature extraction failed, skipping physicochemical analysis: %v", rec.ID, err)
		res.FeatureErr = err
	} else {
		res.Features = &f
	}

	res.Hits, res.BlastErr = a.search(ctx, seq)
	if res.BlastErr != nil && !errors.Is(res.BlastErr, ErrBlastSkipped) {
		logs.Warn.Printf("%s: BLASTp unavailable: %v", rec.ID, res.BlastErr)
	}

	res.Prediction, err = a.Classifier.PredictSequence(seq)
	if err != nil {
		return Result{}, fmt.Errorf("%s: predicting structure: %w", rec.ID, err)
	}
	return res, nil
}

func (a *Analyzer) search(ctx context.Context, seq string) ([]blastp.Hit, error) {
	if a.Searcher == nil {
		return nil, ErrBlastSkipped
	}
	if a.BlastTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.BlastTimeout)
		defer cancel()
	}
	return a.Searcher.Search(ctx, seq)
}
