package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/lecture-attendance-api/internal/dto"
	"github.com/noah-isme/lecture-attendance-api/internal/models"
	"github.com/noah-isme/lecture-attendance-api/internal/view"
	appErrors "github.com/noah-isme/lecture-attendance-api/pkg/errors"
)

type lectureLookup interface {
	Lecture(ctx context.Context, lectureID string) (*models.Lecture, error)
}

// DialogSession is a server-held attendance dialog.
type DialogSession struct {
	ID        string
	Locale    string
	CreatedAt time.Time
	Dialog    *AttendanceDialog
}

// Response renders the session for locale, falling back to the session locale.
func (s *DialogSession) Response(locale string) dto.DialogSessionResponse {
	if locale == "" {
		locale = s.Locale
	}
	return dto.DialogSessionResponse{
		ID:           s.ID,
		Locale:       locale,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.Dialog.LastActivity(),
		View:         s.Dialog.View(locale),
	}
}

// DialogServiceConfig wires a DialogService.
type DialogServiceConfig struct {
	Fetcher    RosterFetcher
	Lectures   lectureLookup
	Presenter  *view.Presenter
	Metrics    *MetricsService
	Validate   *validator.Validate
	Logger     *zap.Logger
	SessionTTL time.Duration
	Now        func() time.Time
}

// DialogService owns attendance dialog sessions and acts as their parent:
// visibility requests raised by a dialog are applied here.
type DialogService struct {
	fetcher   RosterFetcher
	lectures  lectureLookup
	presenter *view.Presenter
	metrics   *MetricsService
	validate  *validator.Validate
	logger    *zap.Logger
	ttl       time.Duration
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*DialogSession
}

// NewDialogService constructs the session registry.
func NewDialogService(cfg DialogServiceConfig) *DialogService {
	if cfg.Validate == nil {
		cfg.Validate = validator.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &DialogService{
		fetcher:   cfg.Fetcher,
		lectures:  cfg.Lectures,
		presenter: cfg.Presenter,
		metrics:   cfg.Metrics,
		validate:  cfg.Validate,
		logger:    cfg.Logger,
		ttl:       cfg.SessionTTL,
		now:       cfg.Now,
		sessions:  make(map[string]*DialogSession),
	}
}

// Open creates a session and opens its dialog, which starts the roster fetch.
func (s *DialogService) Open(ctx context.Context, req dto.OpenDialogRequest) (*DialogSession, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lectureId is required")
	}
	title, err := s.resolveTitle(ctx, req.LectureID, req.LectureTitle)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	dialog := NewAttendanceDialog(DialogOptions{
		Fetcher:   s.fetcher,
		Presenter: s.presenter,
		Metrics:   s.metrics,
		Logger:    s.logger.With(zap.String("dialog_id", id)),
		OnOpenChange: func(open bool) {
			s.applyOpenChange(id, open)
		},
		Now: s.now,
	})
	session := &DialogSession{ID: id, Locale: req.Locale, CreatedAt: s.now(), Dialog: dialog}

	s.mu.Lock()
	s.sessions[id] = session
	count := len(s.sessions)
	s.mu.Unlock()
	s.metrics.SetDialogSessions(count)

	dialog.Update(DialogProps{Open: true, LectureID: req.LectureID, LectureTitle: title})
	s.logger.Debug("attendance dialog opened", zap.String("dialog_id", id), zap.String("lecture_id", req.LectureID))
	return session, nil
}

// Get returns a live session.
func (s *DialogService) Get(id string) (*DialogSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.ErrDialogNotFound
	}
	return session, nil
}

// Update patches a session's props. Changing lecture without a title resolves
// the title from the lectures table.
func (s *DialogService) Update(ctx context.Context, id string, req dto.UpdateDialogRequest) (*DialogSession, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid dialog update")
	}

	var resolved *string
	if req.LectureID != nil && *req.LectureID != session.Dialog.Props().LectureID {
		if *req.LectureID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "lectureId cannot be empty")
		}
		if req.LectureTitle == nil {
			title, err := s.resolveTitle(ctx, *req.LectureID, "")
			if err != nil {
				return nil, err
			}
			resolved = &title
		}
	}

	session.Dialog.Patch(func(props *DialogProps) {
		if req.Open != nil {
			props.Open = *req.Open
		}
		if req.LectureID != nil && *req.LectureID != "" {
			props.LectureID = *req.LectureID
		}
		switch {
		case req.LectureTitle != nil:
			props.LectureTitle = *req.LectureTitle
		case resolved != nil:
			props.LectureTitle = *resolved
		}
	})
	return session, nil
}

// Refresh re-reads the roster of an open dialog. A closed dialog is left as is.
func (s *DialogService) Refresh(id string) (*DialogSession, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	session.Dialog.Refresh()
	return session, nil
}

// Close asks the dialog to hide itself. The request flows back through the
// dialog's visibility callback; the session and its records are kept.
func (s *DialogService) Close(id string) (*DialogSession, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	session.Dialog.RequestOpenChange(false)
	return session, nil
}

// Delete disposes a session.
func (s *DialogService) Delete(id string) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return appErrors.ErrDialogNotFound
	}
	session.Dialog.Dispose()
	s.metrics.SetDialogSessions(count)
	return nil
}

// Count returns the number of live sessions.
func (s *DialogService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep disposes sessions idle for longer than the session TTL and returns
// how many were removed.
func (s *DialogService) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	expired := make([]*DialogSession, 0)
	for id, session := range s.sessions {
		if session.Dialog.LastActivity().Before(cutoff) {
			expired = append(expired, session)
			delete(s.sessions, id)
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	for _, session := range expired {
		session.Dialog.Dispose()
	}
	if len(expired) > 0 {
		s.metrics.SetDialogSessions(count)
		s.logger.Info("expired attendance dialogs", zap.Int("removed", len(expired)), zap.Int("remaining", count))
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done.
func (s *DialogService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Shutdown disposes every session.
func (s *DialogService) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*DialogSession)
	s.mu.Unlock()

	for _, session := range sessions {
		session.Dialog.Dispose()
	}
	s.metrics.SetDialogSessions(0)
}

func (s *DialogService) applyOpenChange(id string, open bool) {
	session, err := s.Get(id)
	if err != nil {
		return
	}
	session.Dialog.Patch(func(props *DialogProps) {
		props.Open = open
	})
}

func (s *DialogService) resolveTitle(ctx context.Context, lectureID, title string) (string, error) {
	if title != "" || s.lectures == nil {
		return title, nil
	}
	lecture, err := s.lectures.Lecture(ctx, lectureID)
	if err != nil {
		return "", err
	}
	return lecture.Title, nil
}
