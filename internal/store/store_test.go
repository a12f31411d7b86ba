package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"equipment-inventory/config"
	"equipment-inventory/internal/db"
	"equipment-inventory/internal/model"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// newSQLiteStore opens a private in-memory database with the real schema.
func newSQLiteStore(t *testing.T) (Store, *gorm.DB) {
	name := strings.ReplaceAll(t.Name(), "/", "_")
	gormDB, err := db.Init(&config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		SkipSeed:     true,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})
	return NewGormStore(gormDB), gormDB
}

func mustAddEquipment(t *testing.T, s Store, name string) *model.Equipment {
	item, err := s.AddEquipment(context.Background(), name)
	require.NoError(t, err)
	return item
}

func TestGormStore_AddIssueTransaction(t *testing.T) {
	testCases := []struct {
		name             string
		equipmentID      int64
		description      string
		mockExpectations func(mock sqlmock.Sqlmock)
		wantErr          error
	}{
		{
			name:        "Marks equipment broken and inserts the issue",
			equipmentID: 7,
			description: "  paper jam ",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "equipment" SET "status"=$1 WHERE id = $2`)).
					WithArgs("broken", 7).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "issues"`)).
					WithArgs(7, "paper jam", Any{}).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
				mock.ExpectCommit()
			},
		},
		{
			name:        "Unknown equipment rolls back without inserting",
			equipmentID: 404,
			description: "smoke",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "equipment" SET "status"=$1 WHERE id = $2`)).
					WithArgs("broken", 404).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			wantErr: ErrNotFound,
		},
		{
			name:        "Failed insert rolls back the status change",
			equipmentID: 8,
			description: "no power",
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE "equipment" SET "status"=$1 WHERE id = $2`)).
					WithArgs("broken", 8).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "issues"`)).
					WillReturnError(errors.New("disk full"))
				mock.ExpectRollback()
			},
			wantErr: errors.New("disk full"),
		},
		{
			name:             "Blank description touches nothing",
			equipmentID:      7,
			description:      "   ",
			mockExpectations: func(mock sqlmock.Sqlmock) {},
			wantErr:          ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newMockDB(t)
			tc.mockExpectations(mock)

			s := NewGormStore(gormDB)
			issue, err := s.AddIssue(context.Background(), tc.equipmentID, tc.description)

			switch {
			case tc.wantErr == nil:
				require.NoError(t, err)
				assert.Equal(t, int64(11), issue.ID)
				assert.Equal(t, "paper jam", issue.Description)
				assert.False(t, issue.CreatedAt.IsZero())
			case errors.Is(tc.wantErr, ErrNotFound), errors.Is(tc.wantErr, ErrInvalidInput):
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, issue)
			default:
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr.Error())
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_UpdateEquipmentStatusRejectsUnknownStatus(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	err := s.UpdateEquipmentStatus(context.Background(), 1, "repairing")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_EquipmentLifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLiteStore(t)

	printer := mustAddEquipment(t, s, "  Printer  ")
	scanner := mustAddEquipment(t, s, "Scanner")
	assert.Equal(t, "Printer", printer.Name)
	assert.Equal(t, model.StatusWorking, printer.Status)

	_, err := s.AddEquipment(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	items, err := s.ListEquipment(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Printer", items[0].Name)
	assert.Equal(t, "Scanner", items[1].Name)

	require.NoError(t, s.UpdateEquipmentStatus(ctx, scanner.ID, model.StatusBroken))
	got, err := s.GetEquipment(ctx, scanner.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBroken, got.Status)

	assert.NoError(t, s.UpdateEquipmentStatus(ctx, 9999, model.StatusBroken), "unknown id is a no-op")

	_, err = s.GetEquipment(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_AddIssueMarksEquipmentBroken(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLiteStore(t)

	printer := mustAddEquipment(t, s, "Printer")

	first, err := s.AddIssue(ctx, printer.ID, "paper jam")
	require.NoError(t, err)
	second, err := s.AddIssue(ctx, printer.ID, "toner low")
	require.NoError(t, err)

	got, err := s.GetEquipment(ctx, printer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBroken, got.Status)

	issues, err := s.ListIssues(ctx, printer.ID)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, second.ID, issues[0].ID, "newest issue first")
	assert.Equal(t, first.ID, issues[1].ID)

	// Repairing the item keeps the issue history.
	require.NoError(t, s.UpdateEquipmentStatus(ctx, printer.ID, model.StatusWorking))
	issues, err = s.ListIssues(ctx, printer.ID)
	require.NoError(t, err)
	assert.Len(t, issues, 2)

	_, err = s.AddIssue(ctx, 9999, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_UpdateIssue(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLiteStore(t)

	printer := mustAddEquipment(t, s, "Printer")
	issue, err := s.AddIssue(ctx, printer.ID, "paper jam")
	require.NoError(t, err)

	require.NoError(t, s.UpdateIssue(ctx, issue.ID, "paper jam in tray 2"))
	got, err := s.GetIssue(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, "paper jam in tray 2", got.Description)
	assert.Equal(t, issue.EquipmentID, got.EquipmentID)
	assert.WithinDuration(t, issue.CreatedAt, got.CreatedAt, 0, "timestamp is immutable")

	assert.ErrorIs(t, s.UpdateIssue(ctx, issue.ID, " "), ErrInvalidInput)

	owner, err := s.IssueEquipmentID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, printer.ID, owner)

	_, err = s.IssueEquipmentID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetIssue(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_SpareParts(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLiteStore(t)

	printer := mustAddEquipment(t, s, "Printer")

	testCases := []struct {
		name    string
		in      SparePartInput
		wantErr error
	}{
		{name: "valid with link", in: SparePartInput{Name: "Fuser", Quantity: 1, PurchaseURL: " http://shop/fuser "}},
		{name: "valid without link", in: SparePartInput{Name: "Belt", Quantity: 2}},
		{name: "zero quantity", in: SparePartInput{Name: "Roller", Quantity: 0}, wantErr: ErrInvalidInput},
		{name: "negative quantity", in: SparePartInput{Name: "Roller", Quantity: -3}, wantErr: ErrInvalidInput},
		{name: "blank name", in: SparePartInput{Name: "  ", Quantity: 3}, wantErr: ErrInvalidInput},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.AddSparePart(ctx, printer.ID, tc.in)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}

	parts, err := s.ListSpareParts(ctx, printer.ID)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "Belt", parts[0].Name)
	assert.Nil(t, parts[0].PurchaseURL)
	assert.Equal(t, "Fuser", parts[1].Name)
	assert.Equal(t, "http://shop/fuser", parts[1].URL())

	fuser := parts[1]
	require.NoError(t, s.UpdateSparePart(ctx, fuser.ID, SparePartInput{Name: "Fuser unit", Quantity: 4}))
	got, err := s.GetSparePart(ctx, fuser.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fuser unit", got.Name)
	assert.Equal(t, 4, got.Quantity)
	assert.Nil(t, got.PurchaseURL, "blank link clears the stored one")

	assert.ErrorIs(t, s.UpdateSparePart(ctx, fuser.ID, SparePartInput{Name: "Fuser", Quantity: 0}), ErrInvalidInput)
	got, err = s.GetSparePart(ctx, fuser.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity, "rejected update leaves the row unchanged")

	require.NoError(t, s.DeleteSparePart(ctx, fuser.ID))
	_, err = s.GetSparePart(ctx, fuser.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.DeleteSparePart(ctx, fuser.ID), "deleting twice is a no-op")
}

func TestGormStore_SummarizeSpareParts(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLiteStore(t)

	summary, err := s.SummarizeSpareParts(ctx)
	require.NoError(t, err)
	assert.Empty(t, summary)

	a := mustAddEquipment(t, s, "A")
	b := mustAddEquipment(t, s, "B")

	inputs := []struct {
		equipmentID int64
		in          SparePartInput
	}{
		{a.ID, SparePartInput{Name: "Bolt", Quantity: 5, PurchaseURL: "url1"}},
		{b.ID, SparePartInput{Name: "Bolt", Quantity: 3, PurchaseURL: "url2"}},
		{b.ID, SparePartInput{Name: "Bolt", Quantity: 1, PurchaseURL: "url1"}},
		{a.ID, SparePartInput{Name: "Nut", Quantity: 2}},
	}
	for _, p := range inputs {
		_, err := s.AddSparePart(ctx, p.equipmentID, p.in)
		require.NoError(t, err)
	}

	summary, err = s.SummarizeSpareParts(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 2)

	assert.Equal(t, "Bolt", summary[0].Name)
	assert.Equal(t, int64(9), summary[0].TotalQuantity)
	assert.Equal(t, []string{"url1", "url2"}, summary[0].PurchaseURLs)
	assert.Equal(t, "url1, url2", summary[0].URLList())

	assert.Equal(t, "Nut", summary[1].Name)
	assert.Equal(t, int64(2), summary[1].TotalQuantity)
	assert.Empty(t, summary[1].PurchaseURLs)
	assert.Equal(t, "", summary[1].URLList())
}

func TestGormStore_DeleteEquipmentCascades(t *testing.T) {
	ctx := context.Background()
	s, gormDB := newSQLiteStore(t)

	printer := mustAddEquipment(t, s, "Printer")
	scanner := mustAddEquipment(t, s, "Scanner")

	_, err := s.AddIssue(ctx, printer.ID, "paper jam")
	require.NoError(t, err)
	_, err = s.AddSparePart(ctx, printer.ID, SparePartInput{Name: "Bolt", Quantity: 1})
	require.NoError(t, err)
	_, err = s.AddSparePart(ctx, scanner.ID, SparePartInput{Name: "Bolt", Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, s.PutSubscription(ctx, model.PushSubscription{
		Endpoint: "https://push.example/1", P256DH: "key", Auth: "auth",
	}, []int64{printer.ID, scanner.ID}))

	require.NoError(t, s.DeleteEquipment(ctx, printer.ID))

	_, err = s.GetEquipment(ctx, printer.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var issues, parts int64
	require.NoError(t, gormDB.Model(&model.Issue{}).Where("equipment_id = ?", printer.ID).Count(&issues).Error)
	require.NoError(t, gormDB.Model(&model.SparePart{}).Where("equipment_id = ?", printer.ID).Count(&parts).Error)
	assert.Zero(t, issues)
	assert.Zero(t, parts)

	summary, err := s.SummarizeSpareParts(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, int64(2), summary[0].TotalQuantity)

	ids, err := s.GetSubscribedEquipment(ctx, "https://push.example/1")
	require.NoError(t, err)
	assert.Equal(t, []int64{scanner.ID}, ids)

	assert.NoError(t, s.DeleteEquipment(ctx, printer.ID), "unknown id is a no-op")
}

func TestGormStore_Subscriptions(t *testing.T) {
	ctx := context.Background()
	s, _ := newSQLiteStore(t)

	printer := mustAddEquipment(t, s, "Printer")
	scanner := mustAddEquipment(t, s, "Scanner")
	endpoint := "https://push.example/abc"

	_, err := s.GetSubscribedEquipment(ctx, endpoint)
	assert.ErrorIs(t, err, ErrNotFound)

	sub := model.PushSubscription{Endpoint: endpoint, P256DH: "k1", Auth: "a1"}
	require.NoError(t, s.PutSubscription(ctx, sub, []int64{printer.ID, 9999}))

	ids, err := s.GetSubscribedEquipment(ctx, endpoint)
	require.NoError(t, err)
	assert.Equal(t, []int64{printer.ID}, ids, "unknown equipment ids are ignored")

	sub.P256DH = "k2"
	require.NoError(t, s.PutSubscription(ctx, sub, []int64{scanner.ID}))
	ids, err = s.GetSubscribedEquipment(ctx, endpoint)
	require.NoError(t, err)
	assert.Equal(t, []int64{scanner.ID}, ids, "put replaces the followed set")

	subs, err := s.SubscriptionsForEquipment(ctx, scanner.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "k2", subs[0].P256DH)

	subs, err = s.SubscriptionsForEquipment(ctx, printer.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	assert.ErrorIs(t, s.PutSubscription(ctx, model.PushSubscription{Endpoint: " "}, nil), ErrInvalidInput)

	require.NoError(t, s.DeleteSubscription(ctx, endpoint))
	_, err = s.GetSubscribedEquipment(ctx, endpoint)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.DeleteSubscription(ctx, endpoint))
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}
