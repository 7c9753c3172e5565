package reports

import (
	"context"
	"math"
)

// Store is the read surface the aggregator needs. Reports hold no state of
// their own; everything is recomputed per request.
type Store interface {
	CourseSessions(ctx context.Context, courseID int64) ([]SessionSummary, error)
	CourseRoster(ctx context.Context, courseID int64) ([]RosterEntry, error)
	CoursePresence(ctx context.Context, courseID int64) ([]PresencePair, error)
	SessionRecords(ctx context.Context, sessionID int64) ([]SessionRecord, error)
	StudentHistory(ctx context.Context, studentID int64) ([]HistoryEntry, error)
	Stats(ctx context.Context) (Stats, error)
}

// Service computes attendance reports.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CourseReport builds the dense presence matrix for one course: every
// enrolled student crossed with every session. The dataset is one course's
// roster and session history, so the full materialization per request is
// cheap.
func (s *Service) CourseReport(ctx context.Context, courseID int64) (Report, error) {
	sessionList, err := s.store.CourseSessions(ctx, courseID)
	if err != nil {
		return Report{}, err
	}
	roster, err := s.store.CourseRoster(ctx, courseID)
	if err != nil {
		return Report{}, err
	}
	pairs, err := s.store.CoursePresence(ctx, courseID)
	if err != nil {
		return Report{}, err
	}

	present := make(map[PresencePair]bool, len(pairs))
	for _, p := range pairs {
		present[p] = true
	}

	students := make([]StudentReport, 0, len(roster))
	for _, entry := range roster {
		row := StudentReport{
			StudentID:     entry.StudentID,
			FullName:      entry.FullName,
			RegNumber:     entry.RegNumber,
			Attendance:    make([]SessionPresence, 0, len(sessionList)),
			TotalSessions: len(sessionList),
		}
		for _, sess := range sessionList {
			p := present[PresencePair{StudentID: entry.StudentID, SessionID: sess.ID}]
			row.Attendance = append(row.Attendance, SessionPresence{
				SessionID:    sess.ID,
				SessionTitle: sess.SessionTitle,
				Present:      p,
			})
			if p {
				row.TotalPresent++
			}
		}
		row.Percentage = percentage(row.TotalPresent, row.TotalSessions)
		students = append(students, row)
	}

	return Report{CourseID: courseID, Sessions: sessionList, Students: students}, nil
}

// percentage rounds 100*present/total; a course with no sessions reports 0
// rather than dividing by zero.
func percentage(present, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(present) / float64(total)))
}

// SessionAttendance lists one session's records ordered by mark time.
func (s *Service) SessionAttendance(ctx context.Context, sessionID int64) ([]SessionRecord, error) {
	return s.store.SessionRecords(ctx, sessionID)
}

// StudentHistory lists the student's own records, newest first.
func (s *Service) StudentHistory(ctx context.Context, studentID int64) ([]HistoryEntry, error) {
	return s.store.StudentHistory(ctx, studentID)
}

// AdminStats returns the platform counters.
func (s *Service) AdminStats(ctx context.Context) (Stats, error) {
	return s.store.Stats(ctx)
}
