// Package loader bulk-imports user records from a headered CSV file with
// columns email, name, color and an optional teacher flag.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/stmarysschool/points-backend/internal/model"
	"github.com/stmarysschool/points-backend/internal/repository"
	"gorm.io/gorm"
)

// StartingTeacherPoints is the award budget granted to each teacher row.
const StartingTeacherPoints = 50

type Result struct {
	Inserted int
	Skipped  int
}

type Loader struct {
	users repository.UserRepository
	logf  func(format string, args ...any)
}

func New(users repository.UserRepository, logf func(format string, args ...any)) *Loader {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Loader{users: users, logf: logf}
}

// Load reads user rows from r. Rows without a valid team color are skipped,
// existing emails are skipped (reruns are safe), and teacher rows without a
// budget get their starting teacher points.
func (l *Loader) Load(ctx context.Context, r io.Reader) (Result, error) {
	var res Result

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return res, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"email", "name"} {
		if _, ok := cols[required]; !ok {
			return res, fmt.Errorf("csv is missing a %q column", required)
		}
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read line %d: %w", line, err)
		}

		row := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		email := strings.ToLower(row("email"))
		name := row("name")
		if email == "" || name == "" {
			return res, fmt.Errorf("line %d: email and name are required", line)
		}

		color := model.TeamColor(strings.ToLower(row("color")))
		if !color.Valid() {
			l.logf("skipping user %s for missing color", email)
			res.Skipped++
			continue
		}

		teacher := isTruthy(row("teacher"))

		if err := l.insert(ctx, email, name, color, teacher); err != nil {
			if errors.Is(err, errAlreadyExists) {
				l.logf("skipping user %s already exists", email)
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("line %d: %w", line, err)
		}
		l.logf("inserted %s", email)
		res.Inserted++
	}

	return res, nil
}

var errAlreadyExists = errors.New("user already exists")

func (l *Loader) insert(ctx context.Context, email, name string, color model.TeamColor, teacher bool) error {
	existing, err := l.users.FindByEmail(ctx, email)
	if err == nil {
		// A teacher who predates the budget column still gets one.
		if teacher {
			if _, gerr := l.users.GrantTeacherPoints(ctx, existing.ID, StartingTeacherPoints); gerr != nil {
				return gerr
			}
		}
		return errAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	u := &model.User{
		Name:  name,
		Email: email,
		Color: &color,
	}
	if teacher {
		u.TeacherPoints = StartingTeacherPoints
	}
	return l.users.Create(ctx, u)
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "", "0", "false", "no":
		return false
	}
	return true
}
