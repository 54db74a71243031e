package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/lifeng-edu/exam-duty-api/internal/dto"
	"github.com/lifeng-edu/exam-duty-api/internal/models"
	appErrors "github.com/lifeng-edu/exam-duty-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type roomRepository interface {
	List(ctx context.Context) ([]models.Room, error)
	ReplaceAll(ctx context.Context, exec sqlx.ExtContext, rooms []models.Room) error
}

type staffRepository interface {
	List(ctx context.Context) ([]models.Staff, error)
	ReplaceAll(ctx context.Context, exec sqlx.ExtContext, staff []models.Staff) error
}

type timeSlotRepository interface {
	List(ctx context.Context) ([]models.TimeSlot, error)
	ReplaceAll(ctx context.Context, exec sqlx.ExtContext, slots []models.TimeSlot) error
}

type sessionRepository interface {
	List(ctx context.Context) ([]models.ExamSession, error)
	ReplaceAll(ctx context.Context, exec sqlx.ExtContext, sessions []models.ExamSession) error
	ListFixed(ctx context.Context) ([]models.FixedSession, error)
	ReplaceAllFixed(ctx context.Context, exec sqlx.ExtContext, fixed []models.FixedSession) error
}

// RosterService manages the input tables consumed by allocation runs. Each
// table is replaced wholesale: the upload flow always submits a complete
// roster, never row edits.
type RosterService struct {
	rooms     roomRepository
	staff     staffRepository
	slots     timeSlotRepository
	sessions  sessionRepository
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRosterService constructs a RosterService.
func NewRosterService(
	rooms roomRepository,
	staff staffRepository,
	slots timeSlotRepository,
	sessions sessionRepository,
	tx txProvider,
	validate *validator.Validate,
	logger *zap.Logger,
) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		rooms:     rooms,
		staff:     staff,
		slots:     slots,
		sessions:  sessions,
		tx:        tx,
		validator: validate,
		logger:    logger,
	}
}

func (s *RosterService) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit roster change")
	}
	return nil
}

// ListRooms returns the stored room roster.
func (s *RosterService) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// ReplaceRooms swaps the room roster for the uploaded one.
func (s *RosterService) ReplaceRooms(ctx context.Context, req dto.ReplaceRoomsRequest) ([]models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room roster")
	}

	rooms := make([]models.Room, 0, len(req.Rooms))
	for _, item := range req.Rooms {
		rooms = append(rooms, models.Room{Name: item.Name, IsLab: item.IsLab, IsLarge: item.IsLarge})
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.rooms.ReplaceAll(ctx, tx, rooms); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace rooms")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("room roster replaced", zap.Int("count", len(rooms)))
	return rooms, nil
}

// ListStaff returns the stored staff roster.
func (s *RosterService) ListStaff(ctx context.Context) ([]models.Staff, error) {
	staff, err := s.staff.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	return staff, nil
}

// ReplaceStaff swaps the staff roster for the uploaded one.
func (s *RosterService) ReplaceStaff(ctx context.Context, req dto.ReplaceStaffRequest) ([]models.Staff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff roster")
	}

	staff := make([]models.Staff, 0, len(req.Staff))
	for _, item := range req.Staff {
		staff = append(staff, models.Staff{Name: item.Name, Availability: item.Availability})
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.staff.ReplaceAll(ctx, tx, staff); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace staff")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("staff roster replaced", zap.Int("count", len(staff)))
	return staff, nil
}

// ListTimeSlots returns the stored timeslot list in priority order.
func (s *RosterService) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timeslots")
	}
	return slots, nil
}

// ReplaceTimeSlots swaps the timeslot list for the uploaded one. Upload order
// becomes the allocation priority order.
func (s *RosterService) ReplaceTimeSlots(ctx context.Context, req dto.ReplaceTimeSlotsRequest) ([]models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timeslot list")
	}

	slots := make([]models.TimeSlot, 0, len(req.TimeSlots))
	for _, item := range req.TimeSlots {
		slots = append(slots, models.TimeSlot{Date: item.Date, Period: item.Period})
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.slots.ReplaceAll(ctx, tx, slots); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace timeslots")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("timeslot list replaced", zap.Int("count", len(slots)))
	return slots, nil
}

// ListSessions returns the stored exam session table.
func (s *RosterService) ListSessions(ctx context.Context) ([]models.ExamSession, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// ReplaceSessions swaps the exam session table for the uploaded one.
func (s *RosterService) ReplaceSessions(ctx context.Context, req dto.ReplaceSessionsRequest) ([]models.ExamSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session table")
	}

	sessions := make([]models.ExamSession, 0, len(req.Sessions))
	for _, item := range req.Sessions {
		sessions = append(sessions, models.ExamSession{
			Class:         item.Class,
			Subject:       item.Subject,
			ExamType:      item.ExamType,
			RequiresLab:   item.RequiresLab,
			RequiresSplit: item.RequiresSplit,
		})
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.sessions.ReplaceAll(ctx, tx, sessions); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace sessions")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("session table replaced", zap.Int("count", len(sessions)))
	return sessions, nil
}

// ListFixedSessions returns the stored fixed session table.
func (s *RosterService) ListFixedSessions(ctx context.Context) ([]models.FixedSession, error) {
	fixed, err := s.sessions.ListFixed(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fixed sessions")
	}
	return fixed, nil
}

// ReplaceFixedSessions swaps the fixed session table for the uploaded one.
func (s *RosterService) ReplaceFixedSessions(ctx context.Context, req dto.ReplaceFixedSessionsRequest) ([]models.FixedSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fixed session table")
	}

	fixed := make([]models.FixedSession, 0, len(req.FixedSessions))
	for _, item := range req.FixedSessions {
		fixed = append(fixed, models.FixedSession{
			Class:        item.Class,
			Subject:      item.Subject,
			ExamType:     item.ExamType,
			Date:         item.Date,
			Period:       item.Period,
			Room:         item.Room,
			Invigilators: item.Invigilators,
			Note:         item.Note,
		})
	}

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.sessions.ReplaceAllFixed(ctx, tx, fixed); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace fixed sessions")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("fixed session table replaced", zap.Int("count", len(fixed)))
	return fixed, nil
}
