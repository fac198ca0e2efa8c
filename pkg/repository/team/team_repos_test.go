//nolint:dupl,funlen,errcheck //ok for this test code
package team

import (
	"context"
	"log"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/testsupport/testdb"
)

func createSampleEntry(db *pgxpool.Pool) *model.Team {
	entry := &model.Team{
		Name:    "Falcon Motorsport",
		Members: "Alice,Bob",
		Budget:  decimal.NewFromInt(10000),
	}
	err := pgx.BeginFunc(context.Background(), db, func(tx pgx.Tx) error {
		return Create(context.Background(), tx, entry)
	})
	if err != nil {
		log.Fatalf("createSampleEntry: %v\n", err)
	}
	return entry
}

func TestCreate(t *testing.T) {
	pool := testdb.InitTestDb()
	type args struct {
		team *model.Team
	}
	tests := []struct {
		name    string
		args    args
		wantErr bool
	}{
		{
			name: "new entry",
			args: args{team: &model.Team{Name: "Thunder Racing", Members: "Carol,Dan"}},
		},
		{
			name:    "duplicate name",
			args:    args{team: &model.Team{Name: "Falcon Motorsport"}},
			wantErr: true,
		},
	}
	createSampleEntry(pool)
	for _, tt := range tests {
		ctx := context.Background()
		t.Run(tt.name, func(t *testing.T) {
			err := Create(ctx, pool, tt.args.team)
			if (err != nil) != tt.wantErr {
				t.Errorf("Create error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadByName(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := createSampleEntry(pool)
	type args struct {
		name string
	}
	tests := []struct {
		name    string
		args    args
		want    *model.Team
		wantErr bool
	}{
		{
			name: "existing entry",
			args: args{name: sample.Name},
			want: sample,
		},
		{
			name:    "unknown entry",
			args:    args{name: "not there"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		ctx := context.Background()
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadByName(ctx, pool, tt.args.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadByName() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if got.ID != tt.want.ID || got.Name != tt.want.Name ||
				got.Members != tt.want.Members ||
				!got.Budget.Equal(tt.want.Budget) {
				t.Errorf("LoadByName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddToBudget(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := createSampleEntry(pool)
	ctx := context.Background()

	num, err := AddToBudget(ctx, pool, sample.ID, decimal.NewFromInt(-1000))
	if err != nil {
		t.Errorf("AddToBudget() error = %v", err)
	}
	if num != 1 {
		t.Errorf("AddToBudget() = %v, want 1", num)
	}
	got, _ := LoadByID(ctx, pool, sample.ID)
	want := decimal.NewFromInt(9000)
	if !got.Budget.Equal(want) {
		t.Errorf("budget after debit = %v, want %v", got.Budget, want)
	}

	num, _ = AddToBudget(ctx, pool, -1, decimal.NewFromInt(1))
	if num != 0 {
		t.Errorf("AddToBudget() on unknown team = %v, want 0", num)
	}
}

func TestLoadAll(t *testing.T) {
	pool := testdb.InitTestDb()
	createSampleEntry(pool)
	second := &model.Team{Name: "Aurora Rally", Members: "Eve"}
	pgx.BeginFunc(context.Background(), pool, func(tx pgx.Tx) error {
		return Create(context.Background(), tx, second)
	})

	got, err := LoadAll(context.Background(), pool)
	if err != nil {
		t.Errorf("LoadAll() error = %v", err)
	}
	names := make([]string, 0, len(got))
	for _, item := range got {
		names = append(names, item.Name)
	}
	// ordered by name
	want := []string{"Aurora Rally", "Falcon Motorsport"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("LoadAll() names = %v, want %v", names, want)
	}
}

func TestDeleteByID(t *testing.T) {
	pool := testdb.InitTestDb()
	sample := createSampleEntry(pool)

	type args struct {
		id int
	}
	tests := []struct {
		name    string
		args    args
		want    int
		wantErr bool
	}{
		{
			name: "delete_existing",
			args: args{id: sample.ID},
			want: 1,
		},
		{
			name: "delete_non_existing",
			args: args{id: -1}, // doesn't exist
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeleteByID(context.Background(), pool, tt.args.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("DeleteByID() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("DeleteByID() = %v, want %v", got, tt.want)
			}
		})
	}
}
