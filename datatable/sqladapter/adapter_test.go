package sqladapter

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablesearch/datatable"
	"tablesearch/errors"
	"tablesearch/logging"
	core "tablesearch/storage/database"
	"tablesearch/storage/database/basic"
)

func newUsersDB(t *testing.T) *basic.DB {
	t.Helper()
	db, err := basic.New(core.DBConfig{Driver: "sqlite", Database: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.Exec(ctx, `CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		created_at TEXT NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO users (id, name, age, created_at) VALUES
		(1, 'Alice', 30, '2020-03-01'),
		(2, 'Bob', 17, '2020-07-15'),
		(3, 'alfred', 52, '2021-01-10'),
		(4, 'Carol', 41, '2021-05-01'),
		(5, 'Dave', 25, '2022-02-20')`)
	require.NoError(t, err)
	return db
}

func newUsersTable(t *testing.T) *datatable.Table {
	t.Helper()
	tbl, err := datatable.NewTable("users", "users",
		datatable.NewNumberColumn("id", "id"),
		datatable.NewTextColumn("name", "name"),
		datatable.NewNumberColumn("age", "age"),
		datatable.NewDateColumn("created", "created_at", ""),
		datatable.NewColumn("label", "", datatable.WithoutGlobalSearch()),
	)
	require.NoError(t, err)
	return tbl
}

func newTestAdapter(db core.IDatabase) *Adapter {
	return New(db, WithLogger(logging.NewNoopLogger()))
}

func names(rs *ResultSet) []string {
	out := make([]string, 0, len(rs.Data))
	for _, row := range rs.Data {
		out = append(out, row["name"].(string))
	}
	return out
}

func TestFetch(t *testing.T) {
	db := newUsersDB(t)
	tbl := newUsersTable(t)

	tests := []struct {
		name         string
		setup        func(s *datatable.State)
		wantFiltered int64
		wantNames    []string
	}{
		{
			name:         "无条件",
			setup:        func(s *datatable.State) {},
			wantFiltered: 5,
			wantNames:    []string{"Alice", "Bob", "alfred", "Carol", "Dave"},
		},
		{
			name:         "全局搜索忽略大小写",
			setup:        func(s *datatable.State) { s.Global = "AL" },
			wantFiltered: 2,
			wantNames:    []string{"Alice", "alfred"},
		},
		{
			name:         "全局搜索数值匹配",
			setup:        func(s *datatable.State) { s.Global = "41" },
			wantFiltered: 1,
			wantNames:    []string{"Carol"},
		},
		{
			name: "日期区间",
			setup: func(s *datatable.State) {
				require.NoError(t, s.AddSearch("created", "search_between_date_2020-01-01|2020-12-31", false))
			},
			wantFiltered: 2,
			wantNames:    []string{"Alice", "Bob"},
		},
		{
			name: "日期等值",
			setup: func(s *datatable.State) {
				require.NoError(t, s.AddSearch("created", "search_date_2021-05-01", false))
			},
			wantFiltered: 1,
			wantNames:    []string{"Carol"},
		},
		{
			name: "正则",
			setup: func(s *datatable.State) {
				require.NoError(t, s.AddSearch("name", "^[AB]", true))
			},
			wantFiltered: 2,
			wantNames:    []string{"Alice", "Bob"},
		},
		{
			name: "列过滤与全局搜索",
			setup: func(s *datatable.State) {
				require.NoError(t, s.AddFilter("age", datatable.KindRange, "18|45"))
				s.Global = "a"
			},
			wantFiltered: 3,
			wantNames:    []string{"Alice", "Carol", "Dave"},
		},
		{
			name: "非法区间被忽略",
			setup: func(s *datatable.State) {
				require.NoError(t, s.AddSearch("age", "search_between_date_18", false))
			},
			wantFiltered: 5,
			wantNames:    []string{"Alice", "Bob", "alfred", "Carol", "Dave"},
		},
		{
			name: "注入文本作为参数绑定",
			setup: func(s *datatable.State) {
				s.Global = "' OR 1=1 --"
			},
			wantFiltered: 0,
			wantNames:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := datatable.NewState(tbl)
			require.NoError(t, state.AddOrder("id", false))
			tt.setup(state)

			rs, err := newTestAdapter(db).Fetch(context.Background(), state)
			require.NoError(t, err)
			assert.Equal(t, int64(5), rs.RecordsTotal)
			assert.Equal(t, tt.wantFiltered, rs.RecordsFiltered)
			assert.Equal(t, tt.wantNames, names(rs))
		})
	}
}

func TestFetch_OrderAndPaging(t *testing.T) {
	db := newUsersDB(t)
	state := datatable.NewState(newUsersTable(t))
	require.NoError(t, state.AddOrder("age", true))
	state.Draw = 7
	state.Start = 1
	state.Length = 2

	rs, err := newTestAdapter(db).Fetch(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, 7, rs.Draw)
	assert.Equal(t, int64(5), rs.RecordsFiltered)
	assert.Equal(t, []string{"Carol", "Alice"}, names(rs))

	row := rs.Data[0]
	assert.Equal(t, int64(4), row["id"])
	assert.Equal(t, int64(41), row["age"])
	assert.Equal(t, "2021-05-01", row["created"])
	assert.Contains(t, row, "label")
	assert.Nil(t, row["label"])
}

func TestFetch_OffsetWithoutLimit(t *testing.T) {
	db := newUsersDB(t)
	state := datatable.NewState(newUsersTable(t))
	require.NoError(t, state.AddOrder("id", false))
	state.Start = 3

	rs, err := newTestAdapter(db).Fetch(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, []string{"Carol", "Dave"}, names(rs))
}

func TestFetch_JSON(t *testing.T) {
	db := newUsersDB(t)
	state := datatable.NewState(newUsersTable(t))
	state.Draw = 2
	state.Global = "bob"

	rs, err := newTestAdapter(db).Fetch(context.Background(), state)
	require.NoError(t, err)
	require.NotEmpty(t, rs.RequestID)

	raw, err := json.Marshal(rs)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(2), decoded["draw"])
	assert.Equal(t, float64(5), decoded["recordsTotal"])
	assert.Equal(t, float64(1), decoded["recordsFiltered"])
	assert.Len(t, decoded["data"], 1)
	assert.NotContains(t, decoded, "RequestID")
}

func TestFetch_EmptyDataIsArray(t *testing.T) {
	db := newUsersDB(t)
	state := datatable.NewState(newUsersTable(t))
	state.Global = "nobody"

	rs, err := newTestAdapter(db).Fetch(context.Background(), state)
	require.NoError(t, err)

	raw, err := json.Marshal(rs)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"data":[]`)
}

func TestFetch_DatabaseError(t *testing.T) {
	db := newUsersDB(t)
	tbl, err := datatable.NewTable("missing", "missing_table", datatable.NewColumn("id", "id"))
	require.NoError(t, err)

	_, err = newTestAdapter(db).Fetch(context.Background(), datatable.NewState(tbl))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCodeDatabase))
}

func TestFetch_NilState(t *testing.T) {
	_, err := newTestAdapter(newUsersDB(t)).Fetch(context.Background(), nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCodeInvalidInput))
}

func TestFetch_LogsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStdLoggerWithWriter("[test]", &buf)

	state := datatable.NewState(newUsersTable(t))
	require.NoError(t, state.AddSearch("age", "search_between_date_oops", false))

	rs, err := New(newUsersDB(t), WithLogger(logger)).Fetch(context.Background(), state)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "request_id="+rs.RequestID)
	assert.Contains(t, out, "search entries rejected")
	assert.Contains(t, out, "table fetched")
}

func TestNew_WithCompiler(t *testing.T) {
	state := datatable.NewState(newUsersTable(t))
	require.NoError(t, state.AddOrder("id", false))
	require.NoError(t, state.AddSearch("name", "e$", true))

	custom := datatable.NewCompiler(datatable.WithLogger(logging.NewNoopLogger()))
	rs, err := New(newUsersDB(t), WithLogger(logging.NewNoopLogger()), WithCompiler(custom)).
		Fetch(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Dave"}, names(rs))
}

func TestFetch_ReservedWordAlias(t *testing.T) {
	tbl, err := datatable.NewTable("users", "users",
		datatable.NewColumn("order", "id"),
		datatable.NewTextColumn("group", "name"),
	)
	require.NoError(t, err)
	state := datatable.NewState(tbl)
	require.NoError(t, state.AddOrder("order", false))
	state.Length = 1

	rs, err := newTestAdapter(newUsersDB(t)).Fetch(context.Background(), state)
	require.NoError(t, err)
	require.Len(t, rs.Data, 1)
	assert.Equal(t, int64(1), rs.Data[0]["order"])
	assert.Equal(t, "Alice", rs.Data[0]["group"])
}
