package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/mocktest-service/internal/events"
	"github.com/prepdeck/mocktest-service/internal/extraction"
	"github.com/prepdeck/mocktest-service/internal/models"
	"github.com/prepdeck/mocktest-service/internal/pdfrender"
	"github.com/prepdeck/mocktest-service/internal/scoring"
	"github.com/prepdeck/mocktest-service/internal/solution"
	"github.com/prepdeck/mocktest-service/internal/utils"
)

// DiagramView selects one of the two independent render passes.
type DiagramView string

const (
	ViewInline   DiagramView = "inline"
	ViewLightbox DiagramView = "lightbox"
)

// DiagramState is what the diagram endpoint reports alongside (or instead
// of) crop bytes. "No diagram" and "still rendering" are distinct visible
// states.
type DiagramState string

const (
	DiagramReady     DiagramState = "ready"
	DiagramRendering DiagramState = "rendering"
	DiagramNone      DiagramState = "none"
	DiagramFailed    DiagramState = "failed"
)

// Config carries the tunables the service needs from the environment.
type Config struct {
	InlineRenderScale   float64
	LightboxRenderScale float64
	SessionTTL          time.Duration
}

// Service is the session controller: it owns all live sessions, drives
// phase transitions and wires user actions to extraction, rendering,
// scoring and events.
type Service struct {
	cfg       Config
	extractor extraction.Extractor
	solver    solution.Generator
	worker    *pdfrender.Worker
	publisher events.EventPublisher
	logger    utils.Logger

	// openDoc is swappable so tests can avoid a real PDF engine.
	openDoc func(data []byte) (*pdfrender.Document, error)

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewService(
	cfg Config,
	extractor extraction.Extractor,
	solver solution.Generator,
	worker *pdfrender.Worker,
	publisher events.EventPublisher,
	logger utils.Logger,
) *Service {
	if cfg.InlineRenderScale <= 0 {
		cfg.InlineRenderScale = 2.0
	}
	if cfg.LightboxRenderScale <= 0 {
		cfg.LightboxRenderScale = 4.0
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	return &Service{
		cfg:       cfg,
		extractor: extractor,
		solver:    solver,
		worker:    worker,
		publisher: publisher,
		logger:    logger,
		openDoc:   pdfrender.OpenDocument,
		sessions:  make(map[string]*Session),
	}
}

// ===== SESSION LIFECYCLE =====

// Create registers a fresh session in the upload phase.
func (s *Service) Create() *models.SessionView {
	sess := newSession(uuid.NewString())

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("Session created", "session_id", sess.ID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.viewLocked()
}

func (s *Service) get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// View returns the current snapshot of one session.
func (s *Service) View(id string) (*models.SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touchLocked()
	return sess.viewLocked(), nil
}

// SubmitFile drives Upload -> Processing -> Quiz. The extraction call
// suspends this request for seconds to tens of seconds; the phase stays
// Processing for the whole window so clients can show advancing progress.
// On any failure the session returns to Upload carrying a user-visible
// error message and no partial quiz state.
func (s *Service) SubmitFile(ctx context.Context, id string, data []byte) (*models.SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	if !pdfrender.IsPDF(data) {
		return nil, ErrInvalidFileType
	}

	sess.mu.Lock()
	if sess.phase != models.PhaseUpload {
		sess.mu.Unlock()
		return nil, ErrNotInUploadPhase
	}
	if sess.extracting {
		sess.mu.Unlock()
		return nil, ErrExtractionInFlight
	}
	sess.extracting = true
	sess.phase = models.PhaseProcessing
	sess.lastError = ""
	sess.touchLocked()
	sess.mu.Unlock()

	s.logger.Info("Extraction started", "session_id", id, "pdf_bytes", len(data))

	quiz, extractErr := s.extractor.Extract(ctx, data)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.extracting = false

	if extractErr != nil {
		sess.phase = models.PhaseUpload
		sess.lastError = extractErr.Error()
		s.logger.Error("Extraction failed", "session_id", id, "error", extractErr)
		return sess.viewLocked(), nil
	}

	doc, err := s.openDoc(data)
	if err != nil {
		sess.phase = models.PhaseUpload
		sess.lastError = fmt.Sprintf("the PDF could not be opened for rendering: %v", err)
		s.logger.Error("Document open failed", "session_id", id, "error", err)
		return sess.viewLocked(), nil
	}

	// Crop cache keys carry a content-derived document id, never the
	// session id: a retry reuses the session for a different PDF and must
	// not inherit the old document's cached crops.
	digest := sha256.Sum256(data)

	sess.pdf = data
	sess.docID = hex.EncodeToString(digest[:16])
	sess.doc = doc
	sess.quiz = quiz
	sess.nav = NewNavigationState(quiz)
	sess.zoom = ZoomDefault
	sess.elapsedSeconds = 0
	sess.phase = models.PhaseQuiz
	sess.startTimer()

	s.requestCropLocked(sess, ViewInline)

	event := events.NewSessionEvent(events.EventExtractionCompleted, id)
	event.Title = quiz.Title
	event.QuestionCount = len(quiz.Questions)
	event.PageCount = doc.PageCount()
	s.publish(ctx, event)

	s.logger.Info("Session entered quiz phase",
		"session_id", id,
		"title", quiz.Title,
		"questions", len(quiz.Questions))

	return sess.viewLocked(), nil
}

// Submit ends the quiz phase with an immutable answer snapshot and builds
// the report. Partial completion is permitted at any navigation position.
func (s *Service) Submit(ctx context.Context, id string) (*models.Report, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.phase != models.PhaseQuiz {
		return nil, ErrNotInQuizPhase
	}

	sess.stopTimerLocked()
	sess.answerSnapshot = sess.nav.Snapshot()
	sess.report = scoring.BuildReport(sess.quiz, sess.answerSnapshot, sess.nav.MarkedSet(), sess.elapsedSeconds)
	sess.phase = models.PhaseResults
	sess.touchLocked()

	event := events.NewSessionEvent(events.EventSessionSubmitted, id)
	event.CorrectCount = sess.report.CorrectCount
	event.IncorrectCount = sess.report.IncorrectCount
	event.SkippedCount = sess.report.SkippedCount
	event.Percentage = sess.report.Percentage
	event.ElapsedSeconds = sess.report.ElapsedSeconds
	s.publish(ctx, event)

	s.logger.Info("Session submitted",
		"session_id", id,
		"correct", sess.report.CorrectCount,
		"percentage", sess.report.Percentage)

	return sess.report, nil
}

// Retry discards all session data and returns to the upload phase. Valid
// from any phase.
func (s *Service) Retry(ctx context.Context, id string) (*models.SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.resetLocked()
	sess.touchLocked()

	s.worker.Forget(sess.inlineTarget(), sess.lightboxTarget())
	s.publish(ctx, events.NewSessionEvent(events.EventSessionReset, id))
	s.logger.Info("Session reset", "session_id", id)

	return sess.viewLocked(), nil
}

// Report returns the built report; only available in the results phase.
func (s *Service) Report(id string) (*models.Report, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.phase != models.PhaseResults || sess.report == nil {
		return nil, ErrNotInResultsPhase
	}
	return sess.report, nil
}

// ===== QUIZ OPERATIONS =====

// quizOp runs fn with the session locked after checking the quiz phase,
// then rebuilds the view.
func (s *Service) quizOp(id string, fn func(sess *Session) error) (*models.SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.phase != models.PhaseQuiz {
		return nil, ErrNotInQuizPhase
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.touchLocked()
	return sess.viewLocked(), nil
}

// NavigateTo moves to a question. Out-of-range indices clamp. Navigation
// closes the palette overlay and resets zoom, and kicks off the inline
// crop render for the destination question.
func (s *Service) NavigateTo(id string, index int) (*models.SessionView, error) {
	return s.quizOp(id, func(sess *Session) error {
		before := sess.nav.CurrentIndex()
		landed := sess.nav.NavigateTo(index)
		sess.paletteOpen = false
		if landed != before {
			sess.zoom = ZoomDefault
			s.questionChangedLocked(sess)
		}
		return nil
	})
}

// SelectOption records an answer for the current question.
func (s *Service) SelectOption(id, optionID string) (*models.SessionView, error) {
	return s.quizOp(id, func(sess *Session) error {
		return sess.nav.SelectOption(optionID)
	})
}

// ClearResponse removes the current question's answer entirely.
func (s *Service) ClearResponse(id string) (*models.SessionView, error) {
	return s.quizOp(id, func(sess *Session) error {
		sess.nav.ClearResponse()
		return nil
	})
}

// ToggleMark flips mark-for-review and advances unless on the last
// question.
func (s *Service) ToggleMark(id string) (*models.SessionView, error) {
	return s.quizOp(id, func(sess *Session) error {
		before := sess.nav.CurrentIndex()
		sess.nav.ToggleMarkForReview()
		s.afterAdvanceLocked(sess, before)
		return nil
	})
}

// SaveAndNext advances unless on the last question.
func (s *Service) SaveAndNext(id string) (*models.SessionView, error) {
	return s.quizOp(id, func(sess *Session) error {
		before := sess.nav.CurrentIndex()
		sess.nav.SaveAndNext()
		s.afterAdvanceLocked(sess, before)
		return nil
	})
}

func (s *Service) afterAdvanceLocked(sess *Session, before int) {
	if sess.nav.CurrentIndex() != before {
		sess.zoom = ZoomDefault
		sess.paletteOpen = false
		s.questionChangedLocked(sess)
	}
}

// questionChangedLocked runs after every landing on a different question:
// the inline crop renders eagerly, and any lightbox result for the previous
// question is dropped so the next lightbox open renders fresh instead of
// replaying a stale crop.
func (s *Service) questionChangedLocked(sess *Session) {
	s.worker.Forget(sess.lightboxTarget())
	s.requestCropLocked(sess, ViewInline)
}

// SetPaletteOpen toggles the mobile palette overlay flag.
func (s *Service) SetPaletteOpen(id string, open bool) (*models.SessionView, error) {
	return s.quizOp(id, func(sess *Session) error {
		sess.paletteOpen = open
		return nil
	})
}

// Zoom steps the presentational zoom of the inline diagram. The rendered
// raster is untouched; zoom is a display transform.
func (s *Service) Zoom(id, direction string) (*models.SessionView, error) {
	return s.quizOp(id, func(sess *Session) error {
		switch direction {
		case "in":
			sess.zoom += ZoomStep
		case "out":
			sess.zoom -= ZoomStep
		case "reset":
			sess.zoom = ZoomDefault
		}
		if sess.zoom < ZoomMin {
			sess.zoom = ZoomMin
		}
		if sess.zoom > ZoomMax {
			sess.zoom = ZoomMax
		}
		return nil
	})
}

// ===== DIAGRAM RENDERING =====

// requestCropLocked submits an async crop render for the session's current
// question. Caller holds sess.mu. A newer request supersedes an in-flight
// one for the same view; the worker guarantees the last-requested render is
// what gets displayed.
func (s *Service) requestCropLocked(sess *Session, view DiagramView) {
	if sess.doc == nil || sess.nav == nil {
		return
	}
	q := sess.nav.CurrentQuestion()

	target := sess.inlineTarget()
	scale := s.cfg.InlineRenderScale
	if view == ViewLightbox {
		target = sess.lightboxTarget()
		scale = s.cfg.LightboxRenderScale
	}

	s.worker.Request(pdfrender.CropRequest{
		Target:     target,
		DocID:      sess.docID,
		Doc:        sess.doc,
		PageNumber: q.PageNumber,
		BBox:       q.BoundingBox,
		Scale:      scale,
	})
}

// Diagram returns the latest crop for the requested view. The lightbox is
// rendered lazily on first request per question, at its own higher base
// scale.
func (s *Service) Diagram(id string, view DiagramView) ([]byte, DiagramState, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, "", err
	}

	sess.mu.Lock()
	if sess.phase != models.PhaseQuiz {
		sess.mu.Unlock()
		return nil, "", ErrNotInQuizPhase
	}

	target := sess.inlineTarget()
	if view == ViewLightbox {
		target = sess.lightboxTarget()
		// The lightbox renders lazily: first request per question kicks it
		// off at the higher base scale.
		if res, pending := s.worker.Latest(target); res == nil && !pending {
			s.requestCropLocked(sess, ViewLightbox)
		}
	}
	sess.mu.Unlock()

	res, pending := s.worker.Latest(target)
	switch {
	case res != nil && res.NoDiagram:
		return nil, DiagramNone, nil
	case res != nil && res.Failed && !pending:
		return nil, DiagramFailed, nil
	case res != nil && !res.Failed && !pending:
		return res.PNG, DiagramReady, nil
	default:
		return nil, DiagramRendering, nil
	}
}

// ===== DETAILED SOLUTIONS =====

// Solution generates (or replays) the detailed solution for a report
// question. Generation failures surface as the inline fallback string and
// are retryable; they never escape as errors to the report view.
func (s *Service) Solution(ctx context.Context, id string, questionID int) (string, error) {
	sess, err := s.get(id)
	if err != nil {
		return "", err
	}

	sess.mu.Lock()
	if sess.phase != models.PhaseResults {
		sess.mu.Unlock()
		return "", ErrNotInResultsPhase
	}
	if cached, ok := sess.solutions[questionID]; ok {
		sess.mu.Unlock()
		return cached, nil
	}
	var question *models.Question
	for i := range sess.quiz.Questions {
		if sess.quiz.Questions[i].ID == questionID {
			question = &sess.quiz.Questions[i]
			break
		}
	}
	sess.mu.Unlock()

	if question == nil {
		return "", ErrQuestionNotFound
	}

	text, err := s.solver.Solve(ctx, question)
	if err != nil {
		s.logger.Error("Solution generation failed", "session_id", id, "question_id", questionID, "error", err)
		return solution.FallbackMessage, nil
	}

	sess.mu.Lock()
	sess.solutions[questionID] = text
	sess.mu.Unlock()

	return text, nil
}

// ===== HOUSEKEEPING =====

// StartSweeper reaps idle sessions until ctx is cancelled.
func (s *Service) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Service) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.expired(s.cfg.SessionTTL) {
			sess.mu.Lock()
			sess.resetLocked()
			sess.mu.Unlock()
			s.worker.Forget(sess.inlineTarget(), sess.lightboxTarget())
			delete(s.sessions, id)
			s.logger.Info("Session expired", "session_id", id)
		}
	}
}

func (s *Service) publish(ctx context.Context, event *events.SessionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish session event", "event_type", event.Type, "error", err)
	}
}
