package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitify-app/fitify-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func trainerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "full_name", "profile_pic", "expertise", "application_status",
		"rejection_feedback", "structured_slots", "joined_at", "created_at", "updated_at",
	})
}

func TestTrainerRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainerRepository(db)

	now := time.Now()
	rows := trainerRows().AddRow(
		"t1", "a@a.com", "Trainer A", nil, "{yoga}", "pending",
		nil, []byte(`[{"day":"Monday","slots":[{"label":"Morning","times":["7:00"]}]}]`), now, now, now,
	)
	mock.ExpectQuery(`SELECT .+ FROM trainers WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("a@a.com").
		WillReturnRows(rows)

	trainer, err := repo.FindByEmail(context.Background(), "a@a.com")
	require.NoError(t, err)
	assert.Equal(t, "t1", trainer.ID)
	assert.Equal(t, models.StatusPending, trainer.ApplicationStatus)
	assert.Equal(t, []string{"7:00"}, trainer.StructuredSlots.TimesFor(models.Monday, "Morning"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainerRepositoryListByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainerRepository(db)

	now := time.Now()
	rows := trainerRows().
		AddRow("t2", "b@b.com", "Trainer B", nil, "{boxing}", "pending", nil, []byte("[]"), now, now, now).
		AddRow("t1", "a@a.com", "Trainer A", nil, "{yoga}", "pending", nil, []byte("[]"), now.Add(-time.Hour), now, now)
	mock.ExpectQuery(`SELECT .+ FROM trainers WHERE application_status = \$1 ORDER BY joined_at DESC`).
		WithArgs(models.StatusPending).
		WillReturnRows(rows)

	trainers, err := repo.ListByStatus(context.Background(), models.StatusPending)
	require.NoError(t, err)
	require.Len(t, trainers, 2)
	assert.Equal(t, "t2", trainers[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainerRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainerRepository(db)

	mock.ExpectExec("INSERT INTO trainers").
		WithArgs(sqlmock.AnyArg(), "a@a.com", "Trainer A", sqlmock.AnyArg(), sqlmock.AnyArg(),
			"pending", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	trainer := &models.Trainer{
		Email:             "a@a.com",
		FullName:          "Trainer A",
		Expertise:         []string{"yoga"},
		ApplicationStatus: models.StatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), trainer))
	assert.NotEmpty(t, trainer.ID)
	assert.False(t, trainer.JoinedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainerRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainerRepository(db)

	feedback := "missing certification"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE trainers SET application_status = $2, rejection_feedback = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("t1", models.StatusRejected, &feedback, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "t1", models.StatusRejected, &feedback))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrainerRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainerRepository(db)

	mock.ExpectExec("UPDATE trainers SET application_status").
		WithArgs("nope", models.StatusApproved, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "nope", models.StatusApproved, nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTrainerRepositoryUpdateSlots(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTrainerRepository(db)

	slots, err := models.StructuredSlots{}.Add(models.Monday, "Morning", []string{"7:00"})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE trainers SET structured_slots = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("t1", slots, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateSlots(context.Background(), "t1", slots))
	assert.NoError(t, mock.ExpectationsWereMet())
}
