package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/EO-DataHub/eodhp-record-services/internal/appconfig"
	"github.com/EO-DataHub/eodhp-record-services/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	StatusSuccess = "Success: All data uploaded"
	StatusFailure = "Error: Failed to upload some or all data"
)

var (
	ErrNotPreviewed = errors.New("no previewed file to submit")
	ErrBusy         = errors.New("a submission is already in progress")
)

// Creator creates one record per submitted row.
type Creator interface {
	Create(ctx context.Context, payload interface{}) (models.InsertResult, error)
}

// Sink receives the records created by a submission.
type Sink interface {
	Append(records ...models.Record)
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFileSelected
	PhasePreviewed
	PhaseSubmitting
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFileSelected:
		return "file-selected"
	case PhasePreviewed:
		return "previewed"
	case PhaseSubmitting:
		return "submitting"
	case PhaseCompleted:
		return "completed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// RowError records why a row could not be submitted.
type RowError struct {
	Index int
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Index, e.Err)
}

// Result summarises a submission.
type Result struct {
	BatchID   uuid.UUID
	Succeeded int
	Failed    int
	Errors    []RowError
	Status    string
}

// SubmitAll creates one record per row with at most concurrency requests in
// flight. Only the name, position and level columns are submitted. A failed
// row never stops the others. Each created record is passed to sink, which
// may be nil.
func SubmitAll(ctx context.Context, creator Creator, sink Sink, rows []Row, concurrency int) Result {
	result := Result{BatchID: uuid.New()}
	logger := zerolog.Ctx(ctx).With().Str("batch_id", result.BatchID.String()).Logger()

	if concurrency <= 0 {
		concurrency = appconfig.DefaultConcurrency
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(concurrency)

	for i, row := range rows {
		g.Go(func() error {
			payload := row.Payload()
			inserted, err := creator.Create(ctx, payload)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error().Err(err).Int("row", i).Msg("Failed to upload row")
				result.Failed++
				result.Errors = append(result.Errors, RowError{Index: i, Err: err})
				return nil
			}
			result.Succeeded++

			if sink != nil {
				sink.Append(models.Record{
					ID:       inserted.InsertedID,
					Name:     payload.Name,
					Position: payload.Position,
					Level:    payload.Level,
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	result.Status = StatusSuccess
	if result.Failed > 0 {
		result.Status = StatusFailure
	}

	logger.Info().Int("succeeded", result.Succeeded).Int("failed", result.Failed).Msg(result.Status)
	return result
}

// Pipeline drives a single spreadsheet from selection through submission.
type Pipeline struct {
	creator     Creator
	sink        Sink
	concurrency int
	previewRows int

	mu      sync.Mutex
	phase   Phase
	rows    []Row
	preview []Row
	result  *Result
}

func NewPipeline(creator Creator, sink Sink, cfg appconfig.ImportConfig) *Pipeline {
	p := &Pipeline{
		creator:     creator,
		sink:        sink,
		concurrency: cfg.Concurrency,
		previewRows: cfg.PreviewRows,
	}
	if p.previewRows <= 0 {
		p.previewRows = appconfig.DefaultPreviewRows
	}
	return p
}

// Select parses a workbook and replaces any earlier selection or result.
// A parse failure leaves the pipeline idle.
func (p *Pipeline) Select(ctx context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.phase == PhaseSubmitting {
		return ErrBusy
	}
	p.phase = PhaseFileSelected
	p.rows, p.preview, p.result = nil, nil, nil

	rows, err := Parse(data)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to parse spreadsheet")
		p.phase = PhaseIdle
		return err
	}

	p.rows = rows
	p.preview = Preview(rows, p.previewRows)
	p.phase = PhasePreviewed

	zerolog.Ctx(ctx).Debug().Int("rows", len(rows)).Msg("Spreadsheet parsed")
	return nil
}

// Submit uploads every parsed row. It is only allowed once per selection.
func (p *Pipeline) Submit(ctx context.Context) (Result, error) {
	p.mu.Lock()
	switch p.phase {
	case PhaseSubmitting:
		p.mu.Unlock()
		return Result{}, ErrBusy
	case PhasePreviewed:
	default:
		p.mu.Unlock()
		return Result{}, ErrNotPreviewed
	}
	p.phase = PhaseSubmitting
	rows := p.rows
	p.mu.Unlock()

	result := SubmitAll(ctx, p.creator, p.sink, rows, p.concurrency)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.phase = PhaseCompleted
	p.result = &result
	return result, nil
}

func (p *Pipeline) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Rows returns a copy of every parsed row of the current selection.
func (p *Pipeline) Rows() []Row {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneRows(p.rows)
}

// Preview returns a copy of the leading rows shown before submission.
func (p *Pipeline) Preview() []Row {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneRows(p.preview)
}

// Result returns the outcome of the last submission, or nil.
func (p *Pipeline) Result() *Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}
