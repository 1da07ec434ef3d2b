package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stmarysschool/points-backend/internal/model"
	"github.com/stmarysschool/points-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrMissingColor = errors.New("missing color value")
var ErrInvalidPoints = errors.New("num_points must be a positive integer")
var ErrUnknownColor = errors.New("unknown color")
var ErrUserNotFound = errors.New("email not found")
var ErrInsufficientBudget = errors.New("not enough teacher points")
var ErrNotAllowed = errors.New("admin or teacher points required")

// MissingFieldsError lists every required form field that arrived blank.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required data: " + strings.Join(e.Fields, ", ")
}

type OwnPointInput struct {
	EventDate        string
	EventType        string
	EventDescription string
	NumPoints        string
	Color            model.TeamColor // consulted only when the user has no color yet
}

type AdminPointInput struct {
	Email            string // optional; empty awards to a team without a recipient
	NumPoints        string
	Color            string
	EventDate        string
	EventType        string
	EventDescription string
}

type TeamTotals struct {
	Blue  int `json:"blue"`
	White int `json:"white"`
}

type Dashboard struct {
	Totals      TeamTotals                  `json:"totals"`
	Latest      []repository.RecentEntry    `json:"latest"`
	Leaderboard []repository.LeaderboardRow `json:"leaderboard"`
}

type PointsService interface {
	SubmitOwn(ctx context.Context, user *model.User, in OwnPointInput) (model.TeamColor, error)
	SubmitAdmin(ctx context.Context, admin *model.User, in AdminPointInput) error
	TeamTotals(ctx context.Context) (TeamTotals, error)
	Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardRow, error)
	Recent(ctx context.Context, limit int) ([]repository.RecentEntry, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

type pointsService struct {
	users  repository.UserRepository
	points repository.PointRepository
}

const (
	defaultLeaderboardLimit = 10
	defaultRecentLimit      = 20
)

func NewPointsService(users repository.UserRepository, points repository.PointRepository) PointsService {
	return &pointsService{users: users, points: points}
}

// SubmitOwn records a self-submitted point and returns the team color it was
// credited to. The caller's color is assigned from in.Color on the very first
// submission and never changes again, whatever later submissions send.
func (s *pointsService) SubmitOwn(ctx context.Context, user *model.User, in OwnPointInput) (model.TeamColor, error) {
	if err := requireFields(map[string]string{
		"event_date":        in.EventDate,
		"event_type":        in.EventType,
		"event_description": in.EventDescription,
		"num_points":        in.NumPoints,
	}); err != nil {
		return "", err
	}
	num, err := parsePoints(in.NumPoints)
	if err != nil {
		return "", err
	}

	if !user.HasColor() {
		if in.Color == "" {
			return "", fmt.Errorf("%w for user %d", ErrMissingColor, user.ID)
		}
		if !in.Color.Valid() {
			return "", fmt.Errorf("%w: %q", ErrUnknownColor, in.Color)
		}
		assigned, err := s.users.AssignColor(ctx, user.ID, in.Color)
		if err != nil {
			return "", err
		}
		if assigned {
			c := in.Color
			user.Color = &c
		} else {
			// Lost a concurrent first-submission race; the stored color wins.
			fresh, err := s.users.FindByID(ctx, user.ID)
			if err != nil {
				return "", err
			}
			user.Color = fresh.Color
		}
	}

	uid := user.ID
	entry := &model.PointEntry{
		UserID:           &uid,
		Color:            *user.Color,
		EventDate:        in.EventDate,
		EventType:        in.EventType,
		EventDescription: in.EventDescription,
		NumPoints:        num,
		AddedBy:          user.ID,
	}
	if err := s.points.Create(ctx, entry); err != nil {
		return "", err
	}
	return *user.Color, nil
}

// SubmitAdmin records a staff award. The budget check and decrement happen
// atomically with the ledger insert, so a rejected award leaves both the
// budget and the ledger untouched.
func (s *pointsService) SubmitAdmin(ctx context.Context, admin *model.User, in AdminPointInput) error {
	if !admin.CanAwardPoints() {
		return ErrNotAllowed
	}

	var recipientID *uint64
	if in.Email != "" {
		target, err := s.users.FindByEmail(ctx, in.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		recipientID = &target.ID
	}

	if err := requireFields(map[string]string{
		"num_points":        in.NumPoints,
		"color":             in.Color,
		"event_date":        in.EventDate,
		"event_type":        in.EventType,
		"event_description": in.EventDescription,
	}); err != nil {
		return err
	}
	num, err := parsePoints(in.NumPoints)
	if err != nil {
		return err
	}
	color := model.TeamColor(strings.ToLower(in.Color))
	if !color.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownColor, in.Color)
	}

	entry := &model.PointEntry{
		UserID:           recipientID,
		Color:            color,
		EventDate:        in.EventDate,
		EventType:        in.EventType,
		EventDescription: in.EventDescription,
		NumPoints:        num,
		AddedBy:          admin.ID,
	}
	if err := s.points.CreateAdminAward(ctx, admin.ID, entry); err != nil {
		if errors.Is(err, repository.ErrInsufficientBudget) {
			return ErrInsufficientBudget
		}
		return err
	}
	admin.TeacherPoints -= num
	return nil
}

// TeamTotals sums the ledger per team. A color outside blue/white is a data
// integrity fault and fails the whole computation rather than being dropped.
func (s *pointsService) TeamTotals(ctx context.Context) (TeamTotals, error) {
	rows, err := s.points.TeamTotals(ctx)
	if err != nil {
		return TeamTotals{}, err
	}
	var totals TeamTotals
	for _, row := range rows {
		switch row.Color {
		case model.ColorBlue:
			totals.Blue = row.Points
		case model.ColorWhite:
			totals.White = row.Points
		default:
			return TeamTotals{}, fmt.Errorf("%w: %q", ErrUnknownColor, row.Color)
		}
	}
	return totals, nil
}

func (s *pointsService) Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardRow, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	return s.points.Leaderboard(ctx, limit)
}

func (s *pointsService) Recent(ctx context.Context, limit int) ([]repository.RecentEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.points.Recent(ctx, limit)
}

// Dashboard gathers the read-only aggregates. Storage failures on these
// reads degrade to empty sections; an unknown ledger color is still fatal.
func (s *pointsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{
		Latest:      []repository.RecentEntry{},
		Leaderboard: []repository.LeaderboardRow{},
	}

	totals, err := s.TeamTotals(ctx)
	if err != nil {
		if errors.Is(err, ErrUnknownColor) {
			return nil, err
		}
	} else {
		d.Totals = totals
	}
	if latest, err := s.Recent(ctx, defaultRecentLimit); err == nil {
		d.Latest = latest
	}
	if board, err := s.Leaderboard(ctx, defaultLeaderboardLimit); err == nil {
		d.Leaderboard = board
	}
	return d, nil
}

var exportHeader = []string{
	"users_id", "email", "name", "user_color", "point_color", "num_points",
	"event_date", "event_type", "event_description", "added_by_email", "created_time",
}

// ExportCSV writes the full ledger oldest-first.
func (s *pointsService) ExportCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.points.ExportRows(ctx)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			optionalUint(row.UserID),
			optionalString(row.Email),
			optionalString(row.Name),
			optionalString(row.UserColor),
			row.PointColor,
			strconv.Itoa(row.NumPoints),
			row.EventDate,
			row.EventType,
			row.EventDescription,
			row.AddedByEmail,
			row.CreatedTime.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func requireFields(fields map[string]string) error {
	var missing []string
	for _, name := range []string{"num_points", "color", "event_date", "event_type", "event_description"} {
		v, ok := fields[name]
		if ok && strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

func parsePoints(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPoints, raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPoints, n)
	}
	return n, nil
}

func optionalUint(v *uint64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(*v, 10)
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
