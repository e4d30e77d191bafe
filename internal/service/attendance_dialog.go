package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lecture-attendance-api/internal/models"
	"github.com/noah-isme/lecture-attendance-api/internal/view"
)

// RosterFetcher performs the single roster read an attendance dialog issues.
type RosterFetcher interface {
	ListByLecture(ctx context.Context, lectureID string) ([]models.AttendanceRecord, error)
}

// RosterFetcherFunc adapts a function to RosterFetcher.
type RosterFetcherFunc func(ctx context.Context, lectureID string) ([]models.AttendanceRecord, error)

// ListByLecture calls f.
func (f RosterFetcherFunc) ListByLecture(ctx context.Context, lectureID string) ([]models.AttendanceRecord, error) {
	return f(ctx, lectureID)
}

// DialogProps are the externally controlled inputs of an attendance dialog.
type DialogProps struct {
	Open         bool
	LectureID    string
	LectureTitle string
}

// DialogOptions wires an AttendanceDialog.
type DialogOptions struct {
	Fetcher   RosterFetcher
	Presenter *view.Presenter
	Metrics   *MetricsService
	Logger    *zap.Logger
	// OnOpenChange receives visibility change requests made by the dialog.
	OnOpenChange func(open bool)
	// Context bounds every fetch; defaults to context.Background.
	Context context.Context
	Now     func() time.Time
}

// AttendanceDialog shows the attendance list of one lecture. Opening it, or
// switching lecture while open, issues one roster read. Every read carries a
// request token and only the response holding the latest token is applied.
type AttendanceDialog struct {
	fetcher      RosterFetcher
	presenter    *view.Presenter
	metrics      *MetricsService
	logger       *zap.Logger
	onOpenChange func(open bool)
	baseCtx      context.Context
	now          func() time.Time

	mu       sync.Mutex
	props    DialogProps
	loading  bool
	records  []models.AttendanceRecord
	token    uint64
	cancel   context.CancelFunc
	inflight int
	idle     chan struct{}
	disposed bool
	touched  time.Time
}

// NewAttendanceDialog builds a closed dialog with no records.
func NewAttendanceDialog(opts DialogOptions) *AttendanceDialog {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	idle := make(chan struct{})
	close(idle)
	return &AttendanceDialog{
		fetcher:      opts.Fetcher,
		presenter:    opts.Presenter,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
		onOpenChange: opts.OnOpenChange,
		baseCtx:      opts.Context,
		now:          opts.Now,
		records:      []models.AttendanceRecord{},
		idle:         idle,
		touched:      opts.Now(),
	}
}

// Update applies new props. It reports whether a fetch was started, which
// happens on a transition to open or on a lecture change while open.
func (d *AttendanceDialog) Update(props DialogProps) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updateLocked(props)
}

// Patch applies fn to the current props and updates the dialog in one step,
// so concurrent patches never overwrite each other's fields.
func (d *AttendanceDialog) Patch(fn func(props *DialogProps)) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	props := d.props
	fn(&props)
	return d.updateLocked(props)
}

func (d *AttendanceDialog) updateLocked(props DialogProps) bool {
	prev := d.props
	d.props = props
	d.touched = d.now()
	if d.disposed || !props.Open {
		return false
	}
	if prev.Open && prev.LectureID == props.LectureID {
		return false
	}
	d.startFetchLocked(props.LectureID)
	return true
}

// Refresh issues a new roster read for the current lecture when open.
func (d *AttendanceDialog) Refresh() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.touched = d.now()
	if d.disposed || !d.props.Open {
		return false
	}
	d.startFetchLocked(d.props.LectureID)
	return true
}

// RequestOpenChange asks the owner to change visibility, e.g. on dismiss.
// The dialog's own props only change when the owner calls Update.
func (d *AttendanceDialog) RequestOpenChange(open bool) {
	d.mu.Lock()
	cb := d.onOpenChange
	d.touched = d.now()
	d.mu.Unlock()

	if cb != nil {
		cb(open)
	}
}

func (d *AttendanceDialog) startFetchLocked(lectureID string) {
	d.token++
	token := d.token
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(d.baseCtx)
	d.cancel = cancel
	d.loading = true
	if d.inflight == 0 {
		d.idle = make(chan struct{})
	}
	d.inflight++

	go d.fetch(ctx, cancel, token, lectureID)
}

func (d *AttendanceDialog) fetch(ctx context.Context, cancel context.CancelFunc, token uint64, lectureID string) {
	defer cancel()
	records, err := d.fetcher.ListByLecture(ctx, lectureID)

	d.mu.Lock()
	defer d.mu.Unlock()
	defer d.finishLocked()

	if d.disposed {
		return
	}
	if token != d.token {
		d.metrics.RecordRosterFetch(FetchOutcomeStale)
		d.logger.Debug("dropping stale attendance response",
			zap.String("lecture_id", lectureID), zap.Uint64("token", token), zap.Uint64("latest", d.token))
		return
	}

	d.loading = false
	d.cancel = nil
	if err != nil {
		d.metrics.RecordRosterFetch(FetchOutcomeError)
		d.logger.Error("error fetching attendance", zap.String("lecture_id", lectureID), zap.Error(err))
		return
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	d.records = records
	d.metrics.RecordRosterFetch(FetchOutcomeOK)
}

func (d *AttendanceDialog) finishLocked() {
	d.inflight--
	if d.inflight == 0 {
		close(d.idle)
	}
}

// Wait blocks until no fetch is in flight or ctx is done.
func (d *AttendanceDialog) Wait(ctx context.Context) error {
	d.mu.Lock()
	idle := d.idle
	d.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispose cancels any in-flight fetch and stops further updates.
func (d *AttendanceDialog) Dispose() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.disposed = true
	d.token++
	d.loading = false
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// Props returns the current inputs.
func (d *AttendanceDialog) Props() DialogProps {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.props
}

// Loading reports whether the latest fetch is outstanding.
func (d *AttendanceDialog) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// Records returns a copy of the loaded records.
func (d *AttendanceDialog) Records() []models.AttendanceRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.AttendanceRecord, len(d.records))
	copy(out, d.records)
	return out
}

// LastActivity is the time of the last interaction with the dialog.
func (d *AttendanceDialog) LastActivity() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.touched
}

// Snapshot captures the state a view is rendered from.
func (d *AttendanceDialog) Snapshot() view.DialogSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	records := make([]models.AttendanceRecord, len(d.records))
	copy(records, d.records)
	return view.DialogSnapshot{
		Open:         d.props.Open,
		LectureID:    d.props.LectureID,
		LectureTitle: d.props.LectureTitle,
		Loading:      d.loading,
		Records:      records,
	}
}

// View renders the dialog for locale.
func (d *AttendanceDialog) View(locale string) view.DialogView {
	presenter := d.presenter
	if presenter == nil {
		presenter = view.NewPresenter(nil, nil)
	}
	return presenter.Dialog(d.Snapshot(), locale)
}
