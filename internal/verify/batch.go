package verify

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/MJE43/triad-replay-go/internal/cards"
	"github.com/MJE43/triad-replay-go/internal/engine"
	"github.com/MJE43/triad-replay-go/internal/rules"
	"github.com/MJE43/triad-replay-go/internal/transcript"
)

// Job is one transcript to audit. A nil Ruleset falls back to the verifier's.
type Job struct {
	ID         string                `json:"id"`
	Transcript transcript.Transcript `json:"transcript"`
	Expected   engine.Hash           `json:"expected"`
	Ruleset    *rules.Ruleset        `json:"ruleset,omitempty"`
}

// JobReport pairs a job with its outcome. Error is set when the transcript could
// not be simulated at all.
type JobReport struct {
	Index  int    `json:"index"`
	ID     string `json:"id"`
	Report Report `json:"report"`
	Error  string `json:"error,omitempty"`
	Err    error  `json:"-"`
}

// Summary holds aggregate batch statistics. Rates are exact decimals over the
// jobs processed, rounded to four places.
type Summary struct {
	Total              int             `json:"total"`
	Processed          int             `json:"processed"`
	Passed             int             `json:"passed"`
	Mismatched         int             `json:"mismatched"`
	Failed             int             `json:"failed"`
	PassRate           decimal.Decimal `json:"passRate"`
	FirstPlayerWinRate decimal.Decimal `json:"firstPlayerWinRate"`
	Canceled           bool            `json:"canceled,omitempty"`
	Elapsed            time.Duration   `json:"elapsed"`
}

// BatchResult carries every report in job order.
type BatchResult struct {
	BatchID uuid.UUID   `json:"batchId"`
	Reports []JobReport `json:"reports"`
	Summary Summary     `json:"summary"`
}

// BatchVerifier replays many transcripts in parallel. Each worker simulates
// independently; the catalog is only read.
type BatchVerifier struct {
	workers int
	catalog cards.Provider
	rules   rules.Ruleset
	log     *logrus.Entry
}

// BatchOption configures a BatchVerifier.
type BatchOption func(*BatchVerifier)

// WithWorkers sets the pool size. Values below one keep the default.
func WithWorkers(n int) BatchOption {
	return func(v *BatchVerifier) {
		if n > 0 {
			v.workers = n
		}
	}
}

// WithLogger sets the entry batch progress is logged through. Nil keeps the default.
func WithLogger(log *logrus.Entry) BatchOption {
	return func(v *BatchVerifier) {
		if log != nil {
			v.log = log
		}
	}
}

// NewBatchVerifier creates a verifier with GOMAXPROCS workers.
func NewBatchVerifier(p cards.Provider, r rules.Ruleset, opts ...BatchOption) *BatchVerifier {
	quiet := logrus.New()
	quiet.SetLevel(logrus.PanicLevel)
	v := &BatchVerifier{
		workers: runtime.GOMAXPROCS(0),
		catalog: p,
		rules:   r,
		log:     logrus.NewEntry(quiet),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

type indexedJob struct {
	index int
	job   Job
}

// batchWorker drains the job channel until it closes or ctx ends.
type batchWorker struct {
	id        int
	v         *BatchVerifier
	jobs      <-chan indexedJob
	reports   chan<- JobReport
	processed *int64
	log       *logrus.Entry
}

func (w *batchWorker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case ij, ok := <-w.jobs:
			if !ok {
				return
			}
			rep := w.process(ij)
			atomic.AddInt64(w.processed, 1)
			select {
			case w.reports <- rep:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (w *batchWorker) process(ij indexedJob) JobReport {
	r := w.v.rules
	if ij.job.Ruleset != nil {
		r = *ij.job.Ruleset
	}
	entry := w.log.WithFields(logrus.Fields{"job": ij.index, "job_id": ij.job.ID})

	rep, err := Replay(ij.job.Transcript, w.v.catalog, ij.job.Expected, r)
	out := JobReport{Index: ij.index, ID: ij.job.ID, Report: rep}
	if err != nil {
		out.Err = err
		out.Error = err.Error()
		entry.WithError(err).Warn("replay failed")
		return out
	}
	entry = entry.WithField("match_id", rep.MatchID.Hex())
	if !rep.OK {
		entry.WithField("expected", rep.Expected.Hex()).Warn("match id mismatch")
	} else {
		entry.Debug("replay verified")
	}
	return out
}

// Run audits every job. On cancellation it returns the reports gathered so far
// with Summary.Canceled set, alongside an error wrapping ErrCanceled.
func (v *BatchVerifier) Run(ctx context.Context, jobs []Job) (*BatchResult, error) {
	if len(jobs) == 0 {
		return nil, ErrNoJobs
	}
	start := time.Now()
	batchID := uuid.New()
	log := v.log.WithField("batch_id", batchID.String())

	workers := min(v.workers, len(jobs))
	log.WithFields(logrus.Fields{"jobs": len(jobs), "workers": workers}).Info("batch started")

	queue := make(chan indexedJob, workers*2)
	reports := make(chan JobReport, workers*2)
	var processed int64
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		w := &batchWorker{
			id:        i,
			v:         v,
			jobs:      queue,
			reports:   reports,
			processed: &processed,
			log:       log.WithField("worker", i),
		}
		wg.Add(1)
		go w.run(ctx, &wg)
	}

	go func() {
		defer close(queue)
		for i, j := range jobs {
			select {
			case queue <- indexedJob{index: i, job: j}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(reports)
	}()

	slots := make([]*JobReport, len(jobs))
	for rep := range reports {
		slots[rep.Index] = &rep
	}

	res := &BatchResult{BatchID: batchID, Reports: make([]JobReport, 0, len(jobs))}
	for _, rep := range slots {
		if rep != nil {
			res.Reports = append(res.Reports, *rep)
		}
	}
	res.Summary = summarize(len(jobs), res.Reports)
	res.Summary.Elapsed = time.Since(start)

	if err := ctx.Err(); err != nil && len(res.Reports) < len(jobs) {
		res.Summary.Canceled = true
		log.WithField("processed", atomic.LoadInt64(&processed)).Warn("batch canceled")
		return res, fmt.Errorf("%w: %v", ErrCanceled, err)
	}

	log.WithFields(logrus.Fields{
		"passed":     res.Summary.Passed,
		"mismatched": res.Summary.Mismatched,
		"failed":     res.Summary.Failed,
		"pass_rate":  res.Summary.PassRate.String(),
	}).Info("batch finished")
	return res, nil
}

func summarize(total int, reports []JobReport) Summary {
	s := Summary{Total: total, Processed: len(reports), PassRate: decimal.Zero, FirstPlayerWinRate: decimal.Zero}
	simulated := 0
	firstWins := 0
	for _, r := range reports {
		switch {
		case r.Err != nil:
			s.Failed++
			continue
		case r.Report.OK:
			s.Passed++
		default:
			s.Mismatched++
		}
		simulated++
		if r.Report.Winner == r.Report.FirstPlayer {
			firstWins++
		}
	}
	if s.Processed > 0 {
		s.PassRate = rate(s.Passed, s.Processed)
	}
	if simulated > 0 {
		s.FirstPlayerWinRate = rate(firstWins, simulated)
	}
	return s
}

func rate(n, d int) decimal.Decimal {
	return decimal.NewFromInt(int64(n)).Div(decimal.NewFromInt(int64(d))).Round(4)
}
