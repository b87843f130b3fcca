package session

import (
	"sync"
	"time"

	"github.com/prepdeck/mocktest-service/internal/models"
	"github.com/prepdeck/mocktest-service/internal/pdfrender"
)

// Zoom limits for the presentational diagram transform. Zoom is applied on
// top of the rendered raster and never triggers a re-render.
const (
	ZoomMin     = 0.5
	ZoomMax     = 3.0
	ZoomStep    = 0.25
	ZoomDefault = 1.0
)

// Session owns one user's pass through the upload -> processing -> quiz ->
// results lifecycle, including the raw PDF, the extracted quiz data and the
// navigation state. All fields are guarded by mu; mutations happen only in
// response to discrete user actions.
type Session struct {
	ID string

	mu          sync.Mutex
	phase       models.Phase
	pdf         []byte
	docID       string
	doc         *pdfrender.Document
	quiz        *models.QuizData
	nav         *NavigationState
	zoom        float64
	paletteOpen bool
	lastError   string

	elapsedSeconds int
	stopTimer      chan struct{}
	timerStopped   chan struct{}

	answerSnapshot models.AnswerMap
	report         *models.Report
	solutions      map[int]string

	extracting bool

	createdAt time.Time
	touchedAt time.Time
}

func newSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		phase:     models.PhaseUpload,
		zoom:      ZoomDefault,
		solutions: make(map[int]string),
		createdAt: now,
		touchedAt: now,
	}
}

// inlineTarget and lightboxTarget name the two independent render canvases
// of a session.
func (s *Session) inlineTarget() string   { return s.ID + "/inline" }
func (s *Session) lightboxTarget() string { return s.ID + "/lightbox" }

// startTimer begins the 1-second elapsed tick for the quiz phase. Caller
// holds mu.
func (s *Session) startTimer() {
	s.stopTimerLocked()

	stop := make(chan struct{})
	done := make(chan struct{})
	s.stopTimer = stop
	s.timerStopped = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.mu.Lock()
				// A tick that fired before the stop but acquired the lock
				// after it must not advance the frozen elapsed time.
				select {
				case <-stop:
					s.mu.Unlock()
					return
				default:
				}
				s.elapsedSeconds++
				s.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()
}

// stopTimerLocked fully stops the tick goroutine; leaving the quiz phase
// must not leak a recurring task. Caller holds mu.
func (s *Session) stopTimerLocked() {
	if s.stopTimer == nil {
		return
	}
	close(s.stopTimer)
	s.stopTimer = nil
	s.timerStopped = nil
}

// resetLocked discards all session data back to the upload phase. Caller
// holds mu.
func (s *Session) resetLocked() {
	s.stopTimerLocked()
	if s.doc != nil {
		_ = s.doc.Close()
		s.doc = nil
	}
	s.phase = models.PhaseUpload
	s.pdf = nil
	s.docID = ""
	s.quiz = nil
	s.nav = nil
	s.zoom = ZoomDefault
	s.paletteOpen = false
	s.lastError = ""
	s.elapsedSeconds = 0
	s.answerSnapshot = nil
	s.report = nil
	s.solutions = make(map[int]string)
	s.extracting = false
}

// view assembles the handler-facing snapshot. Caller holds mu.
func (s *Session) viewLocked() *models.SessionView {
	view := &models.SessionView{
		ID:             s.ID,
		Phase:          s.phase,
		Error:          s.lastError,
		ElapsedSeconds: s.elapsedSeconds,
		PaletteOpen:    s.paletteOpen,
	}

	if s.quiz == nil || s.nav == nil {
		return view
	}

	view.Title = s.quiz.Title
	view.Topic = s.quiz.Topic
	view.QuestionCount = len(s.quiz.Questions)
	view.CurrentIndex = s.nav.CurrentIndex()
	view.Palette = s.nav.Palette()
	view.Zoom = s.zoom

	q := s.nav.CurrentQuestion()
	qv := &models.QuestionView{
		ID:         q.ID,
		Text:       q.Text,
		Options:    q.Options,
		Marked:     s.nav.IsMarked(q.ID),
		HasDiagram: q.HasDiagram(),
		PageNumber: q.PageNumber,
	}
	if opt, ok := s.nav.SelectedOption(q.ID); ok {
		qv.SelectedOption = opt
	}
	view.Question = qv

	return view
}

func (s *Session) touchLocked() {
	s.touchedAt = time.Now()
}

// expired reports whether the session passed its idle TTL.
func (s *Session) expired(ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.touchedAt) > ttl
}
