package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/firerisk-etl/internal/domain"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewStore(sqlx.NewDb(mockDB, "postgres")), mock
}

var july8 = time.Date(2025, time.July, 8, 0, 0, 0, 0, time.UTC)

func TestEnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS fire_risk_points")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishPoints_Upserts(t *testing.T) {
	store, mock := newMockStore(t)
	points := []domain.TrajectoryPoint{
		{Location: "palmeiras", Date: july8.AddDate(0, 0, -7), Risk: 0.5},
		{Location: "palmeiras", Date: july8, Risk: 0.6, VR7: domain.Some(0.514), Indicator: domain.Some(0.54), Tier: domain.TierHigh},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO fire_risk_points"))
	prep.ExpectExec().
		WithArgs("palmeiras", july8.AddDate(0, 0, -7), 0.5, nil, nil, nil, "run-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs("palmeiras", july8, 0.6, 0.514, 0.54, "Alto", "run-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.PublishPoints(context.Background(), "run-1", points))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishPoints_RollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)
	points := []domain.TrajectoryPoint{{Location: "palmeiras", Date: july8, Risk: 0.6}}

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO fire_risk_points")).
		ExpectExec().
		WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()

	err := store.PublishPoints(context.Background(), "run-1", points)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "palmeiras 2025-07-08")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishPoints_Empty(t *testing.T) {
	store, mock := newMockStore(t)
	require.NoError(t, store.PublishPoints(context.Background(), "run-1", nil))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, SinkName, store.Name())
}

func TestPoints(t *testing.T) {
	store, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"location", "date", "fire_risk", "vr7", "ictr14", "tier"}).
		AddRow("palmeiras", july8.AddDate(0, 0, -1), 0.5, nil, nil, "Alto").
		AddRow("palmeiras", july8, 0.6, 0.514, 0.54, "Alto")
	mock.ExpectQuery(regexp.QuoteMeta("FROM fire_risk_points")).
		WithArgs("palmeiras").
		WillReturnRows(rows)

	got, err := store.Points(context.Background(), "palmeiras")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.False(t, got[0].Indicator.Valid)
	assert.Equal(t, domain.Some(0.54), got[1].Indicator)
	assert.Equal(t, domain.TierHigh, got[1].Tier)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRowConversion(t *testing.T) {
	p := domain.TrajectoryPoint{Location: "mucuge", Date: july8, Risk: 1.3}
	r := toRow(p)
	assert.False(t, r.VR7.Valid)
	assert.False(t, r.Tier.Valid)
	assert.Equal(t, p, r.toPoint())
}
