package analyzer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"protein_predictor_go/tools/blastp"
	"protein_predictor_go/tools/predictor"
	"protein_predictor_go/tools/protparam"
	"protein_predictor_go/tools/structclass"
	common "protein_predictor_go/utils"
)

const ras = "MTEYKLVVVGAGGVGKSALTIQLIQNHFVDEYDPTIEDSYRKQ"

type brokenExtractor struct{}

func (brokenExtractor) Extract(string) (protparam.Features, error) {
	return protparam.Features{}, errors.New("extractor offline")
}

type stubSearcher struct {
	hits []blastp.Hit
	err  error
}

func (s stubSearcher) Search(context.Context, string) ([]blastp.Hit, error) { return s.hits, s.err }

type fixedClassifier struct{ class structclass.Class }

func (f fixedClassifier) PredictSequence(string) (predictor.Prediction, error) {
	probs := make([]float64, structclass.Count)
	probs[f.class] = 1
	return predictor.Prediction{Class: f.class, Probabilities: probs}, nil
}

func TestAnalyzeFullPipeline(t *testing.T) {
	a := &Analyzer{
		Extractor:  protparam.ProtParam{},
		Searcher:   stubSearcher{hits: []blastp.Hit{{ID: "sp|P01112|RASH_HUMAN", Score: 222}}},
		Classifier: fixedClassifier{structclass.Unstructured},
	}
	res, err := a.Analyze(context.Background(), common.Record{ID: "ras", Sequence: strings.ToLower(ras)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Sequence != ras {
		t.Fatalf("sequence not normalised: %q", res.Sequence)
	}
	if rule, ok := res.RuleClass(); !ok || rule != structclass.Unstructured {
		t.Fatalf("rule class %v (ok=%v), want Unstructured", rule, ok)
	}
	if match, ok := res.Match(); !ok || !match {
		t.Fatal("expected a classification match")
	}

	report := Report(res)
	for _, want := range []string{
		"Given Sequence: " + ras,
		"Structural Classification: Unstructured / Coil-Dominant",
		"sp|P01112|RASH_HUMAN\t222",
		"Classification Match: Yes",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report lacks %q:\n%s", want, report)
		}
	}
}

func TestAnalyzeDegradesWithoutFeaturesOrBlast(t *testing.T) {
	a := &Analyzer{
		Extractor:  brokenExtractor{},
		Searcher:   stubSearcher{err: errors.New("no network")},
		Classifier: fixedClassifier{structclass.AlphaHelical},
	}
	res, err := a.Analyze(context.Background(), common.Record{ID: "x", Sequence: ras})
	if err != nil {
		t.Fatal(err)
	}
	if res.Features != nil || res.FeatureErr == nil {
		t.Fatal("expected features to be unavailable")
	}
	if _, ok := res.Match(); ok {
		t.Fatal("match must not be computable without features")
	}
	if res.Prediction.Class != structclass.AlphaHelical {
		t.Fatalf("prediction %v, want the classifier's answer", res.Prediction.Class)
	}

	report := Report(res)
	for _, want := range []string{
		"Physicochemical properties could not be extracted.",
		blastUnavailable,
		"Dominantly α-helical",
		"Classification Match cannot be computed",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report lacks %q:\n%s", want, report)
		}
	}
}

func TestAnalyzeWithoutSearcher(t *testing.T) {
	a := &Analyzer{Extractor: protparam.ProtParam{}, Classifier: fixedClassifier{structclass.BetaSheet}}
	res, err := a.Analyze(context.Background(), common.Record{ID: "x", Sequence: ras})
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(res.BlastErr, ErrBlastSkipped) {
		t.Fatalf("got %v, want ErrBlastSkipped", res.BlastErr)
	}
	if match, ok := res.Match(); !ok || match {
		t.Fatal("expected a computable mismatch")
	}
	if !strings.Contains(Report(res), "Classification Match: No") {
		t.Fatal("mismatch not reported")
	}
}

func TestAnalyzeRejectsInvalidSequence(t *testing.T) {
	a := &Analyzer{Extractor: protparam.ProtParam{}, Classifier: fixedClassifier{}}
	if _, err := a.Analyze(context.Background(), common.Record{ID: "bad", Sequence: "MKT1B"}); !errors.Is(err, common.ErrInvalidSequence) {
		t.Fatalf("got %v, want ErrInvalidSequence", err)
	}
}

func TestAnalyzeRejectsEmptySequence(t *testing.T) {
	a := &Analyzer{Extractor: protparam.ProtParam{}, Classifier: fixedClassifier{structclass.BetaSheet}}
	for _, seq := range []string{"", "  \n\t"} {
		if _, err := a.Analyze(context.Background(), common.Record{ID: "blank", Sequence: seq}); !errors.Is(err, protparam.ErrEmptySequence) {
			t.Fatalf("%q: got %v, want ErrEmptySequence", seq, err)
		}
	}
}

func TestAnalyzeAllAppendsResults(t *testing.T) {
	dir := t.TempDir()
	resultsFile := filepath.Join(dir, "results.txt")
	a := &Analyzer{Extractor: protparam.ProtParam{}, Classifier: fixedClassifier{structclass.Unstructured}}
	records := []common.Record{
		{ID: "one", Sequence: ras},
		{ID: "bad", Sequence: "XXXX"},
		{ID: "two", Sequence: "MKVLAAGIVG"},
	}

	var out bytes.Buffer
	results := AnalyzeAll(context.Background(), &out, a, records, resultsFile)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !strings.Contains(out.String(), "Error processing sequence bad") {
		t.Fatalf("invalid record not reported:\n%s", out.String())
	}

	AnalyzeAll(context.Background(), &out, a, records[:1], resultsFile)
	data, err := os.ReadFile(resultsFile)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "Sequence ID:"); n != 3 {
		t.Fatalf("results file holds %d reports, want 3", n)
	}
}

func writeFasta(t *testing.T, records int) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < records; i++ {
		b.WriteString(">rec" + string(rune('A'+i)) + "\nMKVLAAGIVG\n")
	}
	path := filepath.Join(t.TempDir(), "in.fasta")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInputsCapsFastaRecords(t *testing.T) {
	var out bytes.Buffer
	records, err := Inputs(&out, []string{"MKV", "AAA"}, writeFasta(t, 6), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}
	if records[0].ID != "seq_1" || records[2].ID != "recA" {
		t.Fatalf("unexpected order: %v", records)
	}
	if !strings.Contains(out.String(), "Only 3 more allowed") {
		t.Fatalf("truncation not reported: %q", out.String())
	}

	if _, err := Inputs(&out, []string{"A", "B", "C"}, "", 2); err == nil {
		t.Fatal("expected error when manual sequences exceed the cap")
	}
}

func TestInputsSkipsEmptySequences(t *testing.T) {
	var out bytes.Buffer
	records, err := Inputs(&out, []string{"", "MKV", "   ", "AAA"}, "", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %v", len(records), records)
	}
	if records[0].ID != "seq_1" || records[1].ID != "seq_2" || records[1].Sequence != "AAA" {
		t.Fatalf("unexpected records: %v", records)
	}
	if !strings.Contains(out.String(), "Skipping empty sequence.") {
		t.Fatalf("skip not reported: %q", out.String())
	}
}

func TestInteractive(t *testing.T) {
	fasta := writeFasta(t, 2)
	in := strings.NewReader("MKV\n  ACDE  \n\n" + fasta + "\n")
	var out bytes.Buffer
	records, err := Interactive(in, &out, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4: %v", len(records), records)
	}
	if records[1].Sequence != "ACDE" || records[3].ID != "recB" {
		t.Fatalf("unexpected records %v", records)
	}

	records, err = Interactive(strings.NewReader("A\nC\n"), &out, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records at the cap, want 2", len(records))
	}
}

func TestWriteHTMLReport(t *testing.T) {
	a := &Analyzer{
		Extractor:  protparam.ProtParam{},
		Searcher:   stubSearcher{hits: []blastp.Hit{{ID: "gb|<odd>|", Score: 50}}},
		Classifier: fixedClassifier{structclass.AlphaPlusBeta},
	}
	res, err := a.Analyze(context.Background(), common.Record{ID: "ras", Sequence: ras})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "report.html")
	if err := WriteHTMLReport(path, []Result{res}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	page := string(data)
	for _, want := range []string{"<svg", "Model Prediction: α+β", "gb|&lt;odd&gt;|"} {
		if !strings.Contains(page, want) {
			t.Fatalf("HTML report lacks %q", want)
		}
	}
}
