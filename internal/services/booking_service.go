package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aithenode/booking-service/internal/events"
	"github.com/aithenode/booking-service/internal/models"
	"github.com/aithenode/booking-service/internal/repositories"
	"github.com/aithenode/booking-service/internal/validator"
)

// party identifies which side of a session the actor is on.
type party int

const (
	partyStudent party = iota
	partyEducator
)

// statusRule is one edge of the session status machine, together with the
// parties allowed to drive it.
type statusRule struct {
	from    []models.SessionStatus
	to      models.SessionStatus
	parties []party
	event   string
}

// paymentRule is one edge of the payment machine. Payment only moves while
// the session status sits in the required state.
type paymentRule struct {
	status  models.SessionStatus
	from    models.PaymentStatus
	to      models.PaymentStatus
	parties []party
	event   string
}

var statusRules = map[string]statusRule{
	"confirm": {
		from:    []models.SessionStatus{models.SessionRequested},
		to:      models.SessionConfirmed,
		parties: []party{partyEducator},
		event:   events.SessionConfirmed,
	},
	"complete": {
		from:    []models.SessionStatus{models.SessionConfirmed},
		to:      models.SessionCompleted,
		parties: []party{partyEducator},
		event:   events.SessionCompleted,
	},
	"cancel": {
		from:    []models.SessionStatus{models.SessionRequested, models.SessionConfirmed},
		to:      models.SessionCancelled,
		parties: []party{partyStudent, partyEducator},
		event:   events.SessionCancelled,
	},
}

var paymentRules = map[string]paymentRule{
	"pay": {
		status:  models.SessionCompleted,
		from:    models.PaymentPending,
		to:      models.PaymentPaid,
		parties: []party{partyStudent},
		event:   events.SessionPaid,
	},
	"refund": {
		status:  models.SessionCompleted,
		from:    models.PaymentPaid,
		to:      models.PaymentRefunded,
		parties: []party{partyEducator},
		event:   events.SessionRefunded,
	},
}

type bookingService struct {
	repo      repositories.Repository
	resolver  *resolver
	publisher events.Publisher
	logger    *slog.Logger
	validator *validator.BusinessValidator
}

func NewBookingService(repo repositories.Repository, publisher events.Publisher, logger *slog.Logger, bv *validator.BusinessValidator) BookingService {
	return &bookingService{
		repo:      repo,
		resolver:  newResolver(repo, logger),
		publisher: publisher,
		logger:    logger,
		validator: bv,
	}
}

// ===== BOOKING =====

func (s *bookingService) Book(ctx context.Context, req *CreateSessionRequest, actor Actor) (*SessionResponse, error) {
	s.logger.Info("Booking session", "educator_id", req.EducatorID, "student_id", actor.UserID)

	if errs := s.validator.ValidateSessionCreate(req); errs.HasErrors() {
		return nil, errs
	}

	student, err := s.repo.User().GetByID(ctx, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewPermissionError(actor.UserID, 0, "session", "create", "unknown acting user")
		}
		return nil, fmt.Errorf("failed to get acting user: %w", err)
	}
	if student.Role != models.RoleStudent {
		return nil, validator.ValidationErrors{{
			Field:   "student_id",
			Message: "only students can book sessions",
			Value:   actor.UserID,
			Rule:    "business_logic",
		}}
	}

	educator, err := s.repo.Educator().GetByID(ctx, req.EducatorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEducatorNotFound
		}
		return nil, fmt.Errorf("failed to get educator: %w", err)
	}

	session := &models.Session{
		EducatorID:    educator.ID,
		StudentID:     student.ID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        models.SessionRequested,
		TotalPrice:    educator.HourlyRate * req.EndTime.Sub(req.StartTime).Hours(),
		Notes:         req.Notes,
		PaymentStatus: models.PaymentPending,
	}

	if err := s.repo.Session().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.publish(ctx, events.SessionRequested, session)
	s.logger.Info("Session booked", "session_id", session.ID)

	return s.resolver.enrichSession(ctx, session)
}

func (s *bookingService) GetSession(ctx context.Context, id int64, actor Actor) (*SessionResponse, error) {
	session, err := s.loadSession(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only the two participants may read a session
	if _, err := s.partyOf(ctx, session, actor); err != nil {
		return nil, err
	}

	return s.resolver.enrichSession(ctx, session)
}

// ListByEducator lists sessions for an educator profile the actor owns.
func (s *bookingService) ListByEducator(ctx context.Context, educatorID int64, filters repositories.SessionFilters, actor Actor) (*SessionListResponse, error) {
	profile, err := s.repo.Educator().GetByID(ctx, educatorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEducatorNotFound
		}
		return nil, fmt.Errorf("failed to get educator: %w", err)
	}
	if actor.UserID != profile.UserID {
		return nil, NewPermissionError(actor.UserID, educatorID, "session", "list", "not the owner of this educator profile")
	}

	filters.EducatorID = &educatorID
	return s.list(ctx, filters)
}

// ListByStudent lists the actor's own sessions as a student.
func (s *bookingService) ListByStudent(ctx context.Context, studentID int64, filters repositories.SessionFilters, actor Actor) (*SessionListResponse, error) {
	if actor.UserID != studentID {
		return nil, NewPermissionError(actor.UserID, studentID, "session", "list", "cannot list another student's sessions")
	}

	exists, err := s.repo.User().ExistsByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check student: %w", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	filters.StudentID = &studentID
	return s.list(ctx, filters)
}

func (s *bookingService) list(ctx context.Context, filters repositories.SessionFilters) (*SessionListResponse, error) {
	sessions, total, err := s.repo.Session().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	enriched, err := s.resolver.enrichSessions(ctx, sessions)
	if err != nil {
		return nil, err
	}
	return &SessionListResponse{Sessions: enriched, Total: total}, nil
}

// ===== LIFECYCLE TRANSITIONS =====

func (s *bookingService) Confirm(ctx context.Context, sessionID int64, actor Actor) (*SessionResponse, error) {
	return s.transitionStatus(ctx, sessionID, "confirm", actor)
}

func (s *bookingService) Complete(ctx context.Context, sessionID int64, actor Actor) (*SessionResponse, error) {
	return s.transitionStatus(ctx, sessionID, "complete", actor)
}

func (s *bookingService) Cancel(ctx context.Context, sessionID int64, actor Actor) (*SessionResponse, error) {
	return s.transitionStatus(ctx, sessionID, "cancel", actor)
}

func (s *bookingService) Pay(ctx context.Context, sessionID int64, actor Actor) (*SessionResponse, error) {
	return s.transitionPayment(ctx, sessionID, "pay", actor)
}

func (s *bookingService) Refund(ctx context.Context, sessionID int64, actor Actor) (*SessionResponse, error) {
	return s.transitionPayment(ctx, sessionID, "refund", actor)
}

// transitionStatus applies one status edge. Check order matters: a stranger
// is rejected before the state is inspected; a missing edge beats a role
// mismatch on an existing edge.
func (s *bookingService) transitionStatus(ctx context.Context, sessionID int64, action string, actor Actor) (*SessionResponse, error) {
	s.logger.Info("Applying session transition", "session_id", sessionID, "action", action, "actor_id", actor.UserID)

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	actorParty, err := s.partyOf(ctx, session, actor)
	if err != nil {
		return nil, err
	}

	rule := statusRules[action]
	if !containsStatus(rule.from, session.Status) {
		return nil, NewTransitionError(sessionID, session.Status, session.PaymentStatus, action)
	}
	if !containsParty(rule.parties, actorParty) {
		return nil, NewPermissionError(actor.UserID, sessionID, "session", action, "role not allowed for this transition")
	}

	ok, err := s.repo.Session().UpdateStatus(ctx, sessionID, session.Status, rule.to)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to update session status: %w", err)
	}
	if !ok {
		// Lost the race; the state we validated against is gone
		return nil, NewTransitionError(sessionID, session.Status, session.PaymentStatus, action)
	}

	session.Status = rule.to
	s.publish(ctx, rule.event, session)
	s.logger.Info("Session transition applied", "session_id", sessionID, "action", action, "status", session.Status)

	return s.resolver.enrichSession(ctx, session)
}

func (s *bookingService) transitionPayment(ctx context.Context, sessionID int64, action string, actor Actor) (*SessionResponse, error) {
	s.logger.Info("Applying payment transition", "session_id", sessionID, "action", action, "actor_id", actor.UserID)

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	actorParty, err := s.partyOf(ctx, session, actor)
	if err != nil {
		return nil, err
	}

	rule := paymentRules[action]
	if session.Status != rule.status || session.PaymentStatus != rule.from {
		return nil, NewTransitionError(sessionID, session.Status, session.PaymentStatus, action)
	}
	if !containsParty(rule.parties, actorParty) {
		return nil, NewPermissionError(actor.UserID, sessionID, "session", action, "role not allowed for this transition")
	}

	ok, err := s.repo.Session().UpdatePayment(ctx, sessionID, rule.from, rule.to)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	if !ok {
		return nil, NewTransitionError(sessionID, session.Status, session.PaymentStatus, action)
	}

	session.PaymentStatus = rule.to
	s.publish(ctx, rule.event, session)
	s.logger.Info("Payment transition applied", "session_id", sessionID, "action", action, "payment_status", session.PaymentStatus)

	return s.resolver.enrichSession(ctx, session)
}

// ===== HELPERS =====

func (s *bookingService) loadSession(ctx context.Context, id int64) (*models.Session, error) {
	session, err := s.repo.Session().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// partyOf places the actor on one side of the session or rejects them as a
// stranger. A session whose educator profile is gone is corrupt storage.
func (s *bookingService) partyOf(ctx context.Context, session *models.Session, actor Actor) (party, error) {
	if actor.UserID == session.StudentID {
		return partyStudent, nil
	}

	profile, err := s.repo.Educator().GetByID(ctx, session.EducatorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return 0, NewIntegrityError("session", session.ID, "educator_profile", session.EducatorID)
		}
		return 0, fmt.Errorf("failed to get session educator: %w", err)
	}
	if actor.UserID == profile.UserID {
		return partyEducator, nil
	}

	return 0, NewPermissionError(actor.UserID, session.ID, "session", "access", "not a participant of this session")
}

func (s *bookingService) publish(ctx context.Context, eventType string, session *models.Session) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewSessionEvent(eventType, session)); err != nil {
		s.logger.Error("Failed to publish session event",
			"error", err, "event_type", eventType, "session_id", session.ID)
	}
}

func containsStatus(list []models.SessionStatus, status models.SessionStatus) bool {
	for _, s := range list {
		if s == status {
			return true
		}
	}
	return false
}

func containsParty(list []party, p party) bool {
	for _, candidate := range list {
		if candidate == p {
			return true
		}
	}
	return false
}
